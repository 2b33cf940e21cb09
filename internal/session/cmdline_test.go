package session

import (
	"reflect"
	"testing"
)

func TestShellJoin(t *testing.T) {
	tests := []struct {
		argv []string
		want string
	}{
		{nil, ""},
		{[]string{"xclock"}, "xclock"},
		{[]string{"xclock", "-digital"}, "xclock -digital"},
		{[]string{"xmessage", "hello world"}, "xmessage 'hello world'"},
		{[]string{"sh", "-c", "echo $HOME"}, `sh -c 'echo $HOME'`},
		{[]string{"printf", "it's"}, `printf 'it'\''s'`},
		{[]string{""}, "''"},
	}
	for _, tt := range tests {
		if got := ShellJoin(tt.argv); got != tt.want {
			t.Errorf("ShellJoin(%q) = %q, want %q", tt.argv, got, tt.want)
		}
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{"xclock -digital", []string{"xclock", "-digital"}, false},
		{"xmessage 'hello world'", []string{"xmessage", "hello world"}, false},
		{`xmessage "hello world"`, []string{"xmessage", "hello world"}, false},
		{`printf it\'s`, []string{"printf", "it's"}, false},
		{"  spaced   out  ", []string{"spaced", "out"}, false},
		{"cmd '' arg", []string{"cmd", "", "arg"}, false},
		{`cmd ""`, []string{"cmd", ""}, false},
		{"", nil, false},
		{"unterminated 'quote", nil, true},
		{`trailing \`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := SplitCommand(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SplitCommand(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitCommand(%q) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCommand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShellJoinSplitRoundTrip(t *testing.T) {
	argvs := [][]string{
		{"xterm", "-T", "my title", "-e", "vim file.go"},
		{"sh", "-c", "echo 'nested quotes'"},
		{"printf", "%s", ""},
	}
	for _, argv := range argvs {
		joined := ShellJoin(argv)
		got, err := SplitCommand(joined)
		if err != nil {
			t.Fatalf("SplitCommand(%q) failed: %v", joined, err)
		}
		if !reflect.DeepEqual(got, argv) {
			t.Errorf("round trip %q -> %q -> %q", argv, joined, got)
		}
	}
}
