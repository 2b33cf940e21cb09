package mcp

// LoadSessionInput is the input for the load_session tool.
type LoadSessionInput struct {
	Session string   `json:"session" jsonschema:"required,Session name (searched in the xsessionp config dirs) or a direct file path"`
	Indices []int    `json:"indices,omitempty" jsonschema:"Optional window indices to load; other windows in the session are skipped"`
	Names   []string `json:"names,omitempty" jsonschema:"Optional window name patterns (regular expressions) to load"`
	Timeout int      `json:"timeout,omitempty" jsonschema:"Per-window correlation timeout in seconds (default: 10)"`
}

// WindowOutcome reports one window's result from a load.
type WindowOutcome struct {
	Window   string   `json:"window"`
	State    string   `json:"state"`
	WindowID string   `json:"window_id,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// LoadSessionOutput is the output for the load_session tool.
type LoadSessionOutput struct {
	Session  string          `json:"session"`
	Outcomes []WindowOutcome `json:"outcomes"`
}

// ListSessionsInput is the input for the list_sessions tool.
type ListSessionsInput struct{}

// ListSessionsOutput is the output for the list_sessions tool.
type ListSessionsOutput struct {
	Files []string `json:"files"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	All bool `json:"all,omitempty" jsonschema:"When true, list every window instead of only xsessionp-managed ones"`
}

// WindowInfo describes one live window.
type WindowInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Class    string `json:"class,omitempty"`
	Desktop  int    `json:"desktop"`
	Geometry string `json:"geometry"`
	Position string `json:"position"`
	Managed  bool   `json:"managed"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}
