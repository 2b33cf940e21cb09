package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/crashvb/xsessionp/internal/learn"
	"github.com/crashvb/xsessionp/internal/x11"
)

func runLearn(args []string) int {
	fs := flag.NewFlagSet("learn", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xsessionp learn")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a live window interactively and emit a session-file entry that")
		fmt.Fprintln(os.Stderr, "would re-create and re-correlate it.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	conn, err := x11.NewConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to X11: %v\n", err)
		return 1
	}
	defer conn.Close()

	if err := learn.Run(conn, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
