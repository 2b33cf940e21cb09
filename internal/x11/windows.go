package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/crashvb/xsessionp/internal/session"
)

// ListWindows snapshots the EWMH client list with the attributes the
// correlation engine matches against. Windows whose attributes can only be
// partially read are still included; missing name/class fields stay empty and
// count as absent during hint matching.
func (c *Connection) ListWindows() ([]session.WindowRecord, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	records := make([]session.WindowRecord, 0, len(clients))
	for _, win := range clients {
		record := session.WindowRecord{
			ID:    session.WindowID(win),
			Name:  c.windowName(win),
			Class: c.windowClass(win),
		}

		record.Desktop, _ = c.windowDesktop(win)

		if rect, ok := c.windowRect(win); ok {
			record.Position = session.Point{X: rect.X, Y: rect.Y}
			record.Geometry = session.Geometry{Width: rect.Width, Height: rect.Height}
		}

		records = append(records, record)
	}
	return records, nil
}

// SetGeometry resizes a window, removing maximized state first so the window
// manager honors the request.
func (c *Connection) SetGeometry(id session.WindowID, width, height int) error {
	windowID := xproto.Window(id)
	// Some windows do not support _NET_WM_STATE; resize anyway.
	_ = c.unmaximizeWindow(windowID)
	win := xwindow.New(c.XUtil, windowID)
	win.Resize(width, height)
	return nil
}

// SetPosition moves a window in root-window coordinates.
func (c *Connection) SetPosition(id session.WindowID, x, y int) error {
	win := xwindow.New(c.XUtil, xproto.Window(id))
	win.Move(x, y)
	return nil
}

// unmaximizeWindow removes maximized state from a window.
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			ewmh.WmStateReq(c.XUtil, windowID, 0, state)
		}
	}
	return nil
}

type rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (c *Connection) windowRect(windowID xproto.Window) (rect, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return rect{}, false
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return rect{}, false
	}

	return rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}

// windowName prefers _NET_WM_NAME and falls back to the ICCCM WM_NAME.
func (c *Connection) windowName(windowID xproto.Window) string {
	name, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		name = strings.TrimSpace(name)
		if name != "" {
			return name
		}
	}

	name, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		name = strings.TrimSpace(name)
		if name != "" {
			return name
		}
	}

	return ""
}

func (c *Connection) windowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowPID returns the process ID a window advertises via _NET_WM_PID.
func (c *Connection) WindowPID(id session.WindowID) (int, error) {
	pid, err := ewmh.WmPidGet(c.XUtil, xproto.Window(id))
	if err != nil {
		return 0, fmt.Errorf("failed to get window pid: %w", err)
	}
	return int(pid), nil
}
