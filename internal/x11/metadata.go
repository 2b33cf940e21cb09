package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/crashvb/xsessionp/internal/session"
)

// metadataAtom marks windows instantiated by a session load so they can be
// found again by the list-windows and close-window commands.
const metadataAtom = "_XSESSIONP_METADATA"

// SetMetadata stamps a window with session metadata.
func (c *Connection) SetMetadata(id session.WindowID, data string) error {
	err := xprop.ChangeProp(c.XUtil, xproto.Window(id), 8, metadataAtom, "STRING", []byte(data))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", metadataAtom, err)
	}
	return nil
}

// Metadata returns the session metadata stamped on a window, or ok=false when
// the window carries none.
func (c *Connection) Metadata(id session.WindowID) (string, bool) {
	prop, err := xprop.GetProperty(c.XUtil, xproto.Window(id), metadataAtom)
	if err != nil || prop == nil {
		return "", false
	}
	value, err := xprop.PropValStr(prop, nil)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// CloseWindow asks the window manager to close a window via _NET_CLOSE_WINDOW.
// The client message is built manually, matching SetDesktop and Focus.
func (c *Connection) CloseWindow(id session.WindowID) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_CLOSE_WINDOW")), "_NET_CLOSE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_CLOSE_WINDOW: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(id),
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{0, sourceIndication, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
