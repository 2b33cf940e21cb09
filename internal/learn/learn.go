// Package learn implements the interactive capture tool: pick a live window
// and emit a session-file entry that would re-create and re-correlate it.
// It shares the engine's inventory access but carries no correlation logic.
package learn

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/crashvb/xsessionp/internal/session"
	"github.com/crashvb/xsessionp/internal/x11"
)

// learnedWindow is the emitted session-file shape. Hints are exact-match
// anchored patterns built from the observed attributes.
type learnedWindow struct {
	Name       string            `yaml:"name,omitempty"`
	Command    []string          `yaml:"command"`
	Desktop    *int              `yaml:"desktop,omitempty"`
	Geometry   string            `yaml:"geometry,omitempty"`
	Position   string            `yaml:"position,omitempty"`
	Hints      map[string]string `yaml:"hints,omitempty"`
	HintMethod string            `yaml:"hint_method,omitempty"`
}

type learnedSession struct {
	Windows []learnedWindow `yaml:"windows"`
}

// Run lists the current windows, asks the user to pick one, and writes the
// captured session entry as YAML to out. Requires an interactive terminal.
func Run(conn *x11.Connection, out io.Writer) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stderr.Fd())) {
		return fmt.Errorf("learn requires an interactive terminal (stdin/stderr must be TTYs)")
	}

	records, err := conn.ListWindows()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no windows to learn from")
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	options := make([]huh.Option[session.WindowID], 0, len(records))
	byID := make(map[session.WindowID]session.WindowRecord, len(records))
	for _, record := range records {
		label := fmt.Sprintf("0x%08x  %s", uint32(record.ID), record.Name)
		if record.Class != "" {
			label += fmt.Sprintf("  [%s]", record.Class)
		}
		options = append(options, huh.NewOption(label, record.ID))
		byID[record.ID] = record
	}

	var picked session.WindowID
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[session.WindowID]().
				Title("Select a window to learn").
				Options(options...).
				Value(&picked),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	record := byID[picked]
	entry := capture(record, commandForWindow(conn, picked))

	data, err := yaml.Marshal(learnedSession{Windows: []learnedWindow{entry}})
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// capture converts an observed window into a session entry with anchored
// exact-match hints.
func capture(record session.WindowRecord, command []string) learnedWindow {
	entry := learnedWindow{
		Command:    command,
		Hints:      make(map[string]string, 2),
		HintMethod: string(session.HintMethodAnd),
	}
	if record.Name != "" {
		entry.Hints["name"] = "^" + regexp.QuoteMeta(record.Name) + "$"
	}
	if record.Class != "" {
		entry.Hints["class"] = "^" + regexp.QuoteMeta(record.Class) + "$"
	}
	if len(entry.Hints) == 0 {
		entry.Hints = nil
	}
	if record.Desktop >= 0 {
		desktop := record.Desktop
		entry.Desktop = &desktop
	}
	if record.Geometry.Width > 0 && record.Geometry.Height > 0 {
		entry.Geometry = fmt.Sprintf("%dx%d", record.Geometry.Width, record.Geometry.Height)
	}
	entry.Position = fmt.Sprintf("%d,%d", record.Position.X, record.Position.Y)
	return entry
}

// commandForWindow reconstructs the command line of the window's owning
// process from /proc when the window advertises _NET_WM_PID. Falls back to a
// placeholder the user fills in.
func commandForWindow(conn *x11.Connection, id session.WindowID) []string {
	pid, err := conn.WindowPID(id)
	if err != nil || pid <= 0 {
		return []string{"<command>"}
	}

	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil || len(data) == 0 {
		return []string{"<command>"}
	}

	var argv []string
	for _, arg := range bytes.Split(bytes.TrimRight(data, "\x00"), []byte{0}) {
		argv = append(argv, string(arg))
	}
	if len(argv) == 0 {
		return []string{"<command>"}
	}
	return argv
}
