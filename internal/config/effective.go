package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/crashvb/xsessionp/internal/session"
)

// ResolvedWindow pairs a built spec with its index in the session file's
// window list, so callers can filter by the indices the user wrote.
type ResolvedWindow struct {
	Index int
	Spec  session.WindowSpec
}

// BuildSpecs resolves a raw session into window specs: global inheritance,
// no_-prefix suppression, string-form geometry/position parsing, and default
// generation for missing names. Disabled windows are dropped. The resolution
// runs once, before any spec reaches the engine.
func BuildSpecs(raw RawSession, path string) ([]ResolvedWindow, error) {
	if raw.Globals.Name != nil {
		log.Printf("config: warning: global attribute \"name\" is invalid; ignoring")
	}
	if raw.Globals.Focus != nil {
		log.Printf("config: warning: global attribute \"focus\" is invalid; ignoring")
	}
	if len(raw.Windows) == 0 {
		return nil, fmt.Errorf("%s: session declares no windows", path)
	}

	globals := raw.Globals
	out := make([]ResolvedWindow, 0, len(raw.Windows))
	for i, win := range raw.Windows {
		if boolField(win.Disabled, globals.Disabled, win.NoDisabled, globals.NoDisabled, false) {
			continue
		}

		spec, err := buildSpec(win, globals, i, path)
		if err != nil {
			return nil, fmt.Errorf("%s: windows[%d]: %w", path, i, err)
		}
		out = append(out, ResolvedWindow{Index: i, Spec: spec})
	}
	return out, nil
}

func buildSpec(win, globals RawWindow, index int, path string) (session.WindowSpec, error) {
	spec := session.WindowSpec{
		CopyEnvironment: boolField(win.CopyEnvironment, globals.CopyEnvironment, win.NoCopyEnvironment, globals.NoCopyEnvironment, true),
		Shell:           boolField(win.Shell, globals.Shell, win.NoShell, globals.NoShell, false),
		Focus:           boolField(win.Focus, nil, win.NoFocus, nil, false),
	}

	if win.Name != nil {
		spec.Name = *win.Name
	} else {
		spec.Name = fmt.Sprintf("%s:window[%d]", path, index)
	}

	command := win.Command
	if len(command) == 0 {
		command = globals.Command
	}
	if len(command) == 0 {
		return session.WindowSpec{}, fmt.Errorf("command is required")
	}
	spec.Command = append([]string(nil), command...)

	// Environment merges per-key: globals first, window overrides.
	if !suppressed(win.NoEnvironment, globals.NoEnvironment) {
		env := make(map[string]string, len(globals.Environment)+len(win.Environment))
		for k, v := range globals.Environment {
			env[k] = v
		}
		for k, v := range win.Environment {
			env[k] = v
		}
		if len(env) > 0 {
			spec.Environment = env
		}
	}

	if !suppressed(win.NoStartDirectory, globals.NoStartDirectory) {
		if win.StartDirectory != nil {
			spec.StartDirectory = *win.StartDirectory
		} else if globals.StartDirectory != nil {
			spec.StartDirectory = *globals.StartDirectory
		}
	}

	if !suppressed(win.NoDesktop, globals.NoDesktop) {
		if win.Desktop != nil {
			spec.Desktop = intPtr(*win.Desktop)
		} else if globals.Desktop != nil {
			spec.Desktop = intPtr(*globals.Desktop)
		}
	}

	if !suppressed(win.NoGeometry, globals.NoGeometry) {
		raw := stringField(win.Geometry, globals.Geometry)
		if raw != "" {
			geometry, err := ParseGeometry(raw)
			if err != nil {
				return session.WindowSpec{}, fmt.Errorf("geometry: %w", err)
			}
			spec.Geometry = &geometry
		}
	}

	if !suppressed(win.NoPosition, globals.NoPosition) {
		raw := stringField(win.Position, globals.Position)
		if raw != "" {
			position, err := ParsePosition(raw)
			if err != nil {
				return session.WindowSpec{}, fmt.Errorf("position: %w", err)
			}
			spec.Position = &position
		}
	}

	if !suppressed(win.NoStartTimeout, globals.NoStartTimeout) {
		if win.StartTimeout != nil {
			spec.Timeout = time.Duration(*win.StartTimeout) * time.Second
		} else if globals.StartTimeout != nil {
			spec.Timeout = time.Duration(*globals.StartTimeout) * time.Second
		}
	}

	if !suppressed(win.NoHints, globals.NoHints) {
		hints := make(map[string]string, len(globals.Hints)+len(win.Hints))
		for k, v := range globals.Hints {
			hints[k] = v
		}
		for k, v := range win.Hints {
			hints[k] = v
		}
		if len(hints) > 0 {
			spec.Hints = hints
		}
	}

	spec.HintMethod = session.HintMethodAnd
	if !suppressed(win.NoHintMethod, globals.NoHintMethod) {
		raw := stringField(win.HintMethod, globals.HintMethod)
		if raw != "" {
			method, err := parseHintMethod(raw)
			if err != nil {
				return session.WindowSpec{}, err
			}
			spec.HintMethod = method
		}
	}

	return spec, nil
}

func parseHintMethod(s string) (session.HintMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND":
		return session.HintMethodAnd, nil
	case "OR":
		return session.HintMethodOr, nil
	default:
		return "", fmt.Errorf("hint_method must be AND or OR, got %q", s)
	}
}

// ParseGeometry parses the "WIDTHxHEIGHT" string form; "," is accepted as a
// separator for symmetry with position.
func ParseGeometry(s string) (session.Geometry, error) {
	width, height, err := splitPair(s)
	if err != nil {
		return session.Geometry{}, err
	}
	if width <= 0 || height <= 0 {
		return session.Geometry{}, fmt.Errorf("dimensions must be positive, got %q", s)
	}
	return session.Geometry{Width: width, Height: height}, nil
}

// ParsePosition parses the "X,Y" string form; "x" is accepted as a separator
// for symmetry with geometry.
func ParsePosition(s string) (session.Point, error) {
	x, y, err := splitPair(s)
	if err != nil {
		return session.Point{}, err
	}
	return session.Point{X: x, Y: y}, nil
}

func splitPair(s string) (int, int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == 'x' || r == ',' })
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two values separated by \"x\" or \",\", got %q", s)
	}
	first, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid value %q", parts[0])
	}
	second, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid value %q", parts[1])
	}
	return first, second, nil
}

// suppressed resolves a no_<key> pair: the window-level flag wins when set,
// otherwise the global one applies.
func suppressed(winNo, globalNo *bool) bool {
	if winNo != nil {
		return *winNo
	}
	if globalNo != nil {
		return *globalNo
	}
	return false
}

func boolField(win, global, winNo, globalNo *bool, def bool) bool {
	if suppressed(winNo, globalNo) {
		return def
	}
	if win != nil {
		return *win
	}
	if global != nil {
		return *global
	}
	return def
}

func stringField(win, global *string) string {
	if win != nil {
		return *win
	}
	if global != nil {
		return *global
	}
	return ""
}

func intPtr(i int) *int { return &i }
