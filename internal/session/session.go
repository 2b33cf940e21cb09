// Package session instantiates a declared X11 session: it launches one
// process per window specification, correlates each specification with the
// window its process eventually creates, and applies the requested placement.
package session

import (
	"time"
)

// WindowID identifies a window in the inventory. X11 window IDs fit in 32 bits.
type WindowID uint32

// Geometry is a window size in pixels.
type Geometry struct {
	Width  int
	Height int
}

// Point is a window position in root-window coordinates.
type Point struct {
	X int
	Y int
}

// HintMethod is the combination rule applied over a specification's hints.
type HintMethod string

const (
	// HintMethodAnd requires every hint to match its attribute.
	HintMethodAnd HintMethod = "AND"
	// HintMethodOr requires at least one hint to match.
	HintMethodOr HintMethod = "OR"
)

// WindowSpec declares one window to instantiate. Specs are constructed by the
// configuration layer before a load begins and are read-only afterward.
//
// Hints map attribute names (name, class, desktop, geometry, position) to
// regular expressions. A spec with no hints can never be unambiguously
// correlated; it runs in a degraded "match anything unclaimed" mode and is
// resolved only after every hinted spec has had a chance to claim its window
// (or a grace period elapses), claiming the lowest-ID unclaimed window.
type WindowSpec struct {
	Name            string
	Command         []string
	Environment     map[string]string
	CopyEnvironment bool
	Shell           bool
	StartDirectory  string
	Desktop         *int
	Geometry        *Geometry
	Position        *Point
	Focus           bool
	Hints           map[string]string
	HintMethod      HintMethod
	// Timeout overrides Options.Timeout for this spec when positive.
	Timeout time.Duration
}

// WindowRecord is an immutable snapshot of a live window's attributes.
// Records are re-fetched from the inventory on every poll round.
type WindowRecord struct {
	ID       WindowID
	Name     string
	Class    string
	Desktop  int // -1 when the window is on all desktops
	Geometry Geometry
	Position Point
}

// Claim binds one specification to exactly one window. A claim is never
// revoked within a load, and no window is claimed twice.
type Claim struct {
	SpecIndex int
	Window    WindowID
	At        time.Time
}

// Inventory is the window-system access the engine depends on. Each mutation
// fails independently if the window no longer exists or the operation is
// rejected.
type Inventory interface {
	ListWindows() ([]WindowRecord, error)
	SetDesktop(id WindowID, desktop int) error
	SetGeometry(id WindowID, width, height int) error
	SetPosition(id WindowID, x, y int) error
	Focus(id WindowID) error
}

// MetadataWriter is an optional Inventory capability. When available, the
// loader stamps every claimed window with session metadata so managed windows
// can be listed and closed later.
type MetadataWriter interface {
	SetMetadata(id WindowID, data string) error
}

// State is the lifecycle state of one specification within a load.
type State int

const (
	StatePending State = iota
	StateLaunched
	StateClaimed
	StatePlaced
	StateLaunchFailed
	StateUnresolved
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateLaunched:
		return "LAUNCHED"
	case StateClaimed:
		return "CLAIMED"
	case StatePlaced:
		return "PLACED"
	case StateLaunchFailed:
		return "LAUNCH_FAILED"
	case StateUnresolved:
		return "UNRESOLVED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the state is final for a load.
func (s State) Terminal() bool {
	switch s {
	case StatePlaced, StateLaunchFailed, StateUnresolved:
		return true
	default:
		return false
	}
}

// Outcome is the per-specification result of a load.
type Outcome struct {
	Window   string // spec name
	State    State
	WindowID WindowID // zero when no claim was made
	Errors   []error
}

// Options tune a single load operation.
type Options struct {
	// PollInterval is the delay between inventory snapshots (default 150ms).
	PollInterval time.Duration
	// Timeout is the per-specification correlation timeout (default 10s).
	Timeout time.Duration
	// Deadline bounds the whole load; zero means no overall deadline.
	// On expiry, outstanding correlation is cancelled cooperatively and the
	// affected specs are marked UNRESOLVED. Spawned processes are left
	// running.
	Deadline time.Duration
	// HintlessGrace is how long hint-less specs wait before resolving, unless
	// all hinted specs conclude earlier (default 2s).
	HintlessGrace time.Duration
	// MaxConcurrent bounds correlation fan-out (default 8).
	MaxConcurrent int
}

const (
	defaultPollInterval  = 150 * time.Millisecond
	defaultTimeout       = 10 * time.Second
	defaultHintlessGrace = 2 * time.Second
	defaultMaxConcurrent = 8
)

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.HintlessGrace <= 0 {
		o.HintlessGrace = defaultHintlessGrace
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = defaultMaxConcurrent
	}
	return o
}
