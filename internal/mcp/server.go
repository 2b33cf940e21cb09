// Package mcp exposes session loading and window inspection as MCP tools
// over stdio, so agents can instantiate declared desktop sessions.
package mcp

import (
	"context"
	"fmt"
	"regexp"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/crashvb/xsessionp/internal/config"
	"github.com/crashvb/xsessionp/internal/session"
	"github.com/crashvb/xsessionp/internal/x11"
)

const (
	ServerName    = "xsessionp"
	ServerVersion = "0.1.0"
)

// inventory is the subset of the X11 connection the tools use, split out so
// tests can substitute a fake.
type inventory interface {
	session.Inventory
	Metadata(id session.WindowID) (string, bool)
}

// Server is the MCP server for xsessionp session orchestration.
type Server struct {
	mcpServer *mcpsdk.Server

	// connectFn dials the window system per call; the server may outlive any
	// single X11 connection. Tests override it.
	connectFn func() (inventory, func(), error)
}

// NewServer creates a new MCP server.
func NewServer() *Server {
	s := &Server{
		connectFn: connectX11,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_session",
		Description: "Load an xsessionp session file: launch its declared windows, correlate each with the window its process creates, and apply desktop/geometry/position/focus. Returns one outcome per declared window.",
	}, s.handleLoadSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_sessions",
		Description: "List the session files discovered in the xsessionp config directories.",
	}, s.handleListSessions)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List current windows with their attributes. By default only windows previously instantiated by xsessionp are returned; set all for the full inventory.",
	}, s.handleListWindows)
}

func connectX11() (inventory, func(), error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return conn, conn.Close, nil
}

func (s *Server) handleLoadSession(ctx context.Context, _ *mcpsdk.CallToolRequest, args LoadSessionInput) (*mcpsdk.CallToolResult, LoadSessionOutput, error) {
	path, err := config.ResolveSessionPath(args.Session)
	if err != nil {
		return nil, LoadSessionOutput{}, err
	}

	raw, err := config.ReadSession(path)
	if err != nil {
		return nil, LoadSessionOutput{}, err
	}
	resolved, err := config.BuildSpecs(raw, path)
	if err != nil {
		return nil, LoadSessionOutput{}, err
	}

	patterns := make([]*regexp.Regexp, 0, len(args.Names))
	for _, name := range args.Names {
		pattern, err := regexp.Compile(name)
		if err != nil {
			return nil, LoadSessionOutput{}, fmt.Errorf("invalid name pattern %q: %w", name, err)
		}
		patterns = append(patterns, pattern)
	}
	resolved = filterWindows(resolved, args.Indices, patterns)
	if len(resolved) == 0 {
		return nil, LoadSessionOutput{}, fmt.Errorf("no windows selected from %s", path)
	}

	specs := make([]session.WindowSpec, 0, len(resolved))
	for _, win := range resolved {
		specs = append(specs, win.Spec)
	}

	inv, closeFn, err := s.connectFn()
	if err != nil {
		return nil, LoadSessionOutput{}, err
	}
	defer closeFn()

	opts := session.Options{}
	if args.Timeout > 0 {
		opts.Timeout = time.Duration(args.Timeout) * time.Second
	}

	outcomes, err := session.Load(ctx, inv, specs, opts)
	if err != nil {
		return nil, LoadSessionOutput{}, err
	}

	return nil, LoadSessionOutput{Session: path, Outcomes: convertOutcomes(outcomes)}, nil
}

func (s *Server) handleListSessions(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListSessionsInput) (*mcpsdk.CallToolResult, ListSessionsOutput, error) {
	files, err := config.ListSessionFiles()
	if err != nil {
		return nil, ListSessionsOutput{}, err
	}
	return nil, ListSessionsOutput{Files: files}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	inv, closeFn, err := s.connectFn()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	defer closeFn()

	records, err := inv.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{}
	for _, record := range records {
		_, managed := inv.Metadata(record.ID)
		if !managed && !args.All {
			continue
		}
		out.Windows = append(out.Windows, WindowInfo{
			ID:       fmt.Sprintf("0x%08x", uint32(record.ID)),
			Name:     record.Name,
			Class:    record.Class,
			Desktop:  record.Desktop,
			Geometry: fmt.Sprintf("%dx%d", record.Geometry.Width, record.Geometry.Height),
			Position: fmt.Sprintf("%d,%d", record.Position.X, record.Position.Y),
			Managed:  managed,
		})
	}
	return nil, out, nil
}

// filterWindows applies the load filters: a window must pass the index filter
// and the name filter when either is given; an absent filter passes all.
func filterWindows(resolved []config.ResolvedWindow, indices []int, names []*regexp.Regexp) []config.ResolvedWindow {
	if len(indices) == 0 && len(names) == 0 {
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
		if len(names) > 0 {
			matched := false
			for _, pattern := range names {
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

func convertOutcomes(outcomes []session.Outcome) []WindowOutcome {
	out := make([]WindowOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		converted := WindowOutcome{
			Window: o.Window,
			State:  o.State.String(),
		}
		if o.WindowID != 0 {
			converted.WindowID = fmt.Sprintf("0x%08x", uint32(o.WindowID))
		}
		for _, err := range o.Errors {
			converted.Errors = append(converted.Errors, err.Error())
		}
		out = append(out, converted)
	}
	return out
}
