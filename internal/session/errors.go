package session

import (
	"fmt"
	"time"
)

// ConfigurationError reports an invalid specification (unknown hint attribute,
// invalid regular expression). It is detected before any process is spawned
// and fails the whole load.
type ConfigurationError struct {
	Window string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Window == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration: window %q: %v", e.Window, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// LaunchError reports a failed process spawn for one specification.
type LaunchError struct {
	Window string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch: window %q: %v", e.Window, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// CorrelationTimeoutError reports that no matching unclaimed window appeared
// for one specification within its deadline.
type CorrelationTimeoutError struct {
	Window  string
	Timeout time.Duration
}

func (e *CorrelationTimeoutError) Error() string {
	return fmt.Sprintf("correlation: window %q: no matching unclaimed window within %s", e.Window, e.Timeout)
}

// PlacementError reports a single failed desktop/geometry/position/focus
// operation on an otherwise-claimed window.
type PlacementError struct {
	Window string
	Op     string
	ID     WindowID
	Err    error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placement: window %q: %s on 0x%08x: %v", e.Window, e.Op, uint32(e.ID), e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }
