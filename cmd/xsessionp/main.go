package main

import (
	"fmt"
	"io"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "load":
		os.Exit(runLoad(os.Args[2:]))
	case "ls":
		os.Exit(runLs(os.Args[2:]))
	case "list-windows":
		os.Exit(runListWindows(os.Args[2:]))
	case "close-window":
		os.Exit(runCloseWindow(os.Args[2:]))
	case "learn":
		os.Exit(runLearn(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "test":
		os.Exit(runTest(os.Args[2:]))
	case "version":
		fmt.Println(version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xsessionp <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "A declarative window instantiation utility for X11 sessions.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  load            Load session file(s): launch, correlate, and place windows")
	fmt.Fprintln(w, "  ls              List session files discovered in the config dirs")
	fmt.Fprintln(w, "  list-windows    List managed (or all) current windows")
	fmt.Fprintln(w, "  close-window    Close managed window(s)")
	fmt.Fprintln(w, "  learn           Capture a live window as a session entry")
	fmt.Fprintln(w, "  mcp serve       Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  test            Basic acceptance test (two placed xclock instances)")
	fmt.Fprintln(w, "  version         Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'xsessionp <command> --help' for command-specific options.")
}
