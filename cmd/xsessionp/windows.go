package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/crashvb/xsessionp/internal/x11"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// managedMetadata mirrors the JSON stamped on claimed windows during a load.
type managedMetadata struct {
	Name      string `json:"name"`
	WindowID  uint32 `json:"window_id"`
	ClaimedAt string `json:"claimed_at"`
}

type listedWindow struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Class    string `json:"class,omitempty"`
	Desktop  int    `json:"desktop"`
	Geometry string `json:"geometry"`
	Position string `json:"position"`
	Session  string `json:"session,omitempty"`
}

func runListWindows(args []string) int {
	fs := flag.NewFlagSet("list-windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	all := fs.Bool("all", false, "list every window, not only xsessionp-managed ones")
	format := fs.String("format", "table", "output format: table or json")
	noHeaders := fs.Bool("no-headers", false, "omit the table header")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xsessionp list-windows [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List current windows. By default only windows instantiated by a")
		fmt.Fprintln(os.Stderr, "previous load are shown.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
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

	records, err := conn.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var listed []listedWindow
	for _, record := range records {
		data, managed := conn.Metadata(record.ID)
		if !managed && !*all {
			continue
		}
		entry := listedWindow{
			ID:       fmt.Sprintf("0x%08x", uint32(record.ID)),
			Name:     record.Name,
			Class:    record.Class,
			Desktop:  record.Desktop,
			Geometry: fmt.Sprintf("%dx%d", record.Geometry.Width, record.Geometry.Height),
			Position: fmt.Sprintf("%d,%d", record.Position.X, record.Position.Y),
		}
		if managed {
			var meta managedMetadata
			if err := json.Unmarshal([]byte(data), &meta); err == nil {
				entry.Session = meta.Name
			}
		}
		listed = append(listed, entry)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(listed); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		if !*noHeaders {
			fmt.Fprintln(w, headerStyle.Render("ID\tNAME\tCLASS\tDESKTOP\tGEOMETRY\tPOSITION\tSESSION"))
		}
		for _, entry := range listed {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
				entry.ID, entry.Name, entry.Class, entry.Desktop, entry.Geometry, entry.Position, entry.Session)
		}
		w.Flush()
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (expected table or json)\n", *format)
		return 2
	}
	return 0
}

func runCloseWindow(args []string) int {
	fs := flag.NewFlagSet("close-window", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	all := fs.Bool("all", false, "close every managed window except the target")
	desktop := fs.Int("desktop", -1, "close managed windows on this desktop")
	target := fs.String("target", "", "close the managed window with this session name")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xsessionp close-window [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Close window(s) instantiated by a previous load.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *desktop >= 0 && *target != "" {
		fmt.Fprintln(os.Stderr, "options -desktop and -target are mutually exclusive")
		return 2
	}

	conn, err := x11.NewConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to X11: %v\n", err)
		return 1
	}
	defer conn.Close()

	records, err := conn.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	closed := 0
	for _, record := range records {
		data, managed := conn.Metadata(record.ID)
		if !managed {
			continue
		}

		match := false
		if *desktop >= 0 {
			match = record.Desktop == *desktop
		}
		if *target != "" {
			var meta managedMetadata
			if err := json.Unmarshal([]byte(data), &meta); err == nil {
				match = meta.Name == *target
			}
		}

		// With -all the selection is inverted: everything except the match.
		if *all == match {
			continue
		}
		if err := conn.CloseWindow(record.ID); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close 0x%08x: %v\n", uint32(record.ID), err)
			continue
		}
		closed++
	}

	fmt.Printf("Closed %d window(s)\n", closed)
	return 0
}
