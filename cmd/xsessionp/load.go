package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/crashvb/xsessionp/internal/config"
	"github.com/crashvb/xsessionp/internal/session"
	"github.com/crashvb/xsessionp/internal/x11"
)

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func runLoad(args []string) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var names multiFlag
	indexArg := fs.String("index", "", "window indices to load (comma-separated, ranges allowed: 0,2-4)")
	fs.Var(&names, "name", "window name pattern to load (regular expression, repeatable)")
	timeout := fs.Duration("timeout", 0, "per-window correlation timeout (default 10s)")
	deadline := fs.Duration("deadline", 0, "overall load deadline (default none)")
	poll := fs.Duration("poll-interval", 0, "inventory poll interval (default 150ms)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xsessionp load [options] <session> [<session>...]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Load xsessionp session file(s). Sessions are resolved against the")
		fmt.Fprintln(os.Stderr, "config dirs or used as direct paths.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	indices, err := parseIndexList(*indexArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -index: %v\n", err)
		return 2
	}
	patterns := make([]*regexp.Regexp, 0, len(names))
	for _, name := range names {
		pattern, err := regexp.Compile(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -name pattern %q: %v\n", name, err)
			return 2
		}
		patterns = append(patterns, pattern)
	}

	conn, err := x11.NewConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to X11: %v\n", err)
		return 1
	}
	defer conn.Close()

	opts := session.Options{
		PollInterval: *poll,
		Timeout:      *timeout,
		Deadline:     *deadline,
	}

	failed := false
	for _, arg := range fs.Args() {
		if !loadOne(conn, arg, indices, patterns, opts) {
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}

func loadOne(conn *x11.Connection, arg string, indices []int, patterns []*regexp.Regexp, opts session.Options) bool {
	path, err := config.ResolveSessionPath(arg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	log.Printf("Loading: %s", path)

	raw, err := config.ReadSession(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	resolved, err := config.BuildSpecs(raw, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	resolved = filterResolved(resolved, indices, patterns)
	if len(resolved) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no windows selected\n", path)
		return false
	}

	specs := make([]session.WindowSpec, 0, len(resolved))
	for _, win := range resolved {
		specs = append(specs, win.Spec)
	}

	outcomes, err := session.Load(context.Background(), conn, specs, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}

	ok := true
	for _, outcome := range outcomes {
		id := ""
		if outcome.WindowID != 0 {
			id = fmt.Sprintf("0x%08x", uint32(outcome.WindowID))
		}
		fmt.Printf("%-14s %-10s %s\n", outcome.State, id, outcome.Window)
		for _, oerr := range outcome.Errors {
			fmt.Fprintf(os.Stderr, "  %v\n", oerr)
		}
		if outcome.State != session.StatePlaced {
			ok = false
		}
	}
	return ok
}

func filterResolved(resolved []config.ResolvedWindow, indices []int, patterns []*regexp.Regexp) []config.ResolvedWindow {
	if len(indices) == 0 && len(patterns) == 0 {
		return resolved
	}

	indexSet := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		indexSet[i] = struct{}{}
	}

	var out []config.ResolvedWindow
	for _, win := range resolved {
		if len(indexSet) > 0 {
			if _, ok := indexSet[win.Index]; !ok {
				continue
			}
		}
		if len(patterns) > 0 {
			matched := false
			for _, pattern := range patterns {
				if pattern.MatchString(win.Spec.Name) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, win)
	}
	return out
}

// parseIndexList parses a comma-separated index list with inclusive ranges,
// e.g. "0,2-4,7". The result is sorted and de-duplicated.
func parseIndexList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	seen := make(map[int]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lower, upper, ok := strings.Cut(part, "-"); ok {
			lo, err := strconv.Atoi(strings.TrimSpace(lower))
			if err != nil {
				return nil, fmt.Errorf("invalid range %q", part)
			}
			hi, err := strconv.Atoi(strings.TrimSpace(upper))
			if err != nil {
				return nil, fmt.Errorf("invalid range %q", part)
			}
			if hi < lo {
				return nil, fmt.Errorf("descending range %q", part)
			}
			for i := lo; i <= hi; i++ {
				seen[i] = struct{}{}
			}
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", part)
		}
		seen[i] = struct{}{}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

func runLs(args []string) int {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	qualified := fs.Bool("qualified", false, "print full paths instead of session names")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xsessionp ls [-qualified]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List session files discovered in the config dirs.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	files, err := config.ListSessionFiles()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, file := range files {
		if *qualified {
			fmt.Println(file)
			continue
		}
		base := file
		if i := strings.LastIndexByte(base, '/'); i >= 0 {
			base = base[i+1:]
		}
		if i := strings.LastIndexByte(base, '.'); i > 0 {
			base = base[:i]
		}
		fmt.Println(base)
	}
	return 0
}
