package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crashvb/xsessionp/internal/config"
	"github.com/crashvb/xsessionp/internal/session"
	"github.com/crashvb/xsessionp/internal/x11"
)

// testSessionTemplate is the built-in acceptance session: two xclock
// instances placed on the current desktop. It runs through the regular
// file-resolution and load path so a pass exercises the whole pipeline.
const testSessionTemplate = `desktop: %d
windows:
  - command: xclock
    focus: true
    geometry: 300x300
    position: 25,25
    shell: true
    hints:
      name: ^xclock$
  - command:
      - xclock
      - -digital
    geometry: 300x40
    position: 25,375
    hints:
      name: ^xclock$
`

func runTest(args []string) int {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	timeout := fs.Duration("timeout", 0, "per-window correlation timeout (default 10s)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xsessionp test [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Basic acceptance test: launch two xclock instances on the current")
		fmt.Fprintln(os.Stderr, "desktop and place them at fixed positions.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	fmt.Printf("Version:\n\t%s\n\n", version)
	fmt.Println("Configuration directories:")
	for _, dir := range config.ConfigDirs() {
		fmt.Printf("\t%s\n", dir)
	}
	fmt.Println()

	conn, err := x11.NewConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to X11: %v\n", err)
		return 1
	}
	defer conn.Close()

	desktop, err := conn.CurrentDesktop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine current desktop: %v\n", err)
		return 1
	}

	doc := fmt.Sprintf(testSessionTemplate, desktop)
	dir, err := os.MkdirTemp("", "xsessionp-test-")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "xclock.yml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Test session:\n%s\n", doc)

	if !loadOne(conn, path, nil, nil, session.Options{Timeout: *timeout}) {
		return 1
	}
	return 0
}
