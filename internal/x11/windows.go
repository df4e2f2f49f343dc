package x11

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Frame is a window's geometry including its decorations.
type Frame struct {
	// Exterior covers the client plus titlebar and borders, in root
	// coordinates.
	Exterior geom.Rect
	// MarginWidth and MarginHeight are the decoration sizes to subtract
	// from an exterior size to get the client size.
	MarginWidth  int
	MarginHeight int
}

// ActiveWindow returns the window named by _NET_ACTIVE_WINDOW.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("get active window: %w", err)
	}
	if win == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return win, nil
}

// ClientList returns the windows managed by the window manager.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("get client list: %w", err)
	}
	return clients, nil
}

// IsNormalWindow reports whether win is an ordinary application window
// rather than a desktop, dock, splash or notification.
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	return len(types) == 0
}

// IsHidden reports whether win is minimized.
func (c *Connection) IsHidden(win xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// Title returns the window title, preferring _NET_WM_NAME over WM_NAME.
func (c *Connection) Title(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// ExteriorGeometry returns the decorated frame of win. Reparenting window
// managers expose the frame as an ancestor window; otherwise the
// _NET_FRAME_EXTENTS hint is added around the client.
func (c *Connection) ExteriorGeometry(win xproto.Window) (Frame, error) {
	client, err := c.clientRect(win)
	if err != nil {
		return Frame{}, err
	}

	decor, err := xwindow.New(c.XUtil, win).DecorGeometry()
	if err == nil && decor.Width() >= client.Width && decor.Height() >= client.Height &&
		(decor.Width() > client.Width || decor.Height() > client.Height) {
		return Frame{
			Exterior: geom.Rect{
				X:      decor.X(),
				Y:      decor.Y(),
				Width:  decor.Width(),
				Height: decor.Height(),
			},
			MarginWidth:  decor.Width() - client.Width,
			MarginHeight: decor.Height() - client.Height,
		}, nil
	}

	// Some clients (chrome, for one) report no extents; treat that as an
	// undecorated window.
	ext, err := ewmh.FrameExtentsGet(c.XUtil, win)
	if err != nil {
		return Frame{Exterior: client}, nil
	}
	left, right, top, bottom := int(ext.Left), int(ext.Right), int(ext.Top), int(ext.Bottom)
	return Frame{
		Exterior: geom.Rect{
			X:      client.X - left,
			Y:      client.Y - top,
			Width:  client.Width + left + right,
			Height: client.Height + top + bottom,
		},
		MarginWidth:  left + right,
		MarginHeight: top + bottom,
	}, nil
}

// clientRect returns the client area of win in root coordinates.
func (c *Connection) clientRect(win xproto.Window) (geom.Rect, error) {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("get geometry of 0x%x: %w", win, err)
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("translate coordinates of 0x%x: %w", win, err)
	}

	return geom.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(g.Width),
		Height: int(g.Height),
	}, nil
}

// sourcePager marks requests as coming from a pager or taskbar, which
// window managers honour without focus-stealing checks.
const sourcePager = 2

// errNoState reports a window that has no _NET_WM_STATE property at all.
var errNoState = errors.New("no _NET_WM_STATE property")

// stateClient reads and changes EWMH window states.
type stateClient interface {
	states(win xproto.Window) ([]string, error)
	request(win xproto.Window, action int, first, second string) error
}

type ewmhStates struct{ xu *xgbutil.XUtil }

func (s ewmhStates) states(win xproto.Window) ([]string, error) {
	atom, err := xprop.Atm(s.xu, "_NET_WM_STATE")
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(s.xu.Conn(), false, win, atom,
		xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil {
		return nil, err
	}
	if reply.Format == 0 {
		return nil, errNoState
	}
	return xprop.PropValAtoms(s.xu, reply, nil)
}

func (s ewmhStates) request(win xproto.Window, action int, first, second string) error {
	return ewmh.WmStateReqExtra(s.xu, win, action, first, second, sourcePager)
}

// ClearStates removes the maximized, fullscreen and shaded states from win
// so that a following move or resize is not overridden by the window
// manager. States the window does not have are left alone.
func (c *Connection) ClearStates(win xproto.Window) error {
	return clearStates(ewmhStates{c.XUtil}, win)
}

func clearStates(sc stateClient, win xproto.Window) error {
	states, err := sc.states(win)
	if errors.Is(err, errNoState) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get state of 0x%x: %w", win, err)
	}

	var drop []string
	for _, s := range states {
		switch s {
		case "_NET_WM_STATE_MAXIMIZED_VERT",
			"_NET_WM_STATE_MAXIMIZED_HORZ",
			"_NET_WM_STATE_FULLSCREEN",
			"_NET_WM_STATE_SHADED":
			drop = append(drop, s)
		}
	}

	// _NET_WM_STATE carries at most two properties per message.
	for i := 0; i < len(drop); i += 2 {
		var second string
		if i+1 < len(drop) {
			second = drop[i+1]
		}
		if err := sc.request(win, ewmh.StateRemove, drop[i], second); err != nil {
			return fmt.Errorf("clear state of 0x%x: %w", win, err)
		}
	}
	return nil
}

// Maximize asks the window manager to maximize win in both directions.
func (c *Connection) Maximize(win xproto.Window) error {
	err := ewmh.WmStateReqExtra(c.XUtil, win, ewmh.StateAdd,
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", sourcePager)
	if err != nil {
		return fmt.Errorf("maximize 0x%x: %w", win, err)
	}
	return nil
}

// Activate asks the window manager to focus and raise win.
func (c *Connection) Activate(win xproto.Window) error {
	if err := ewmh.ActiveWindowReqExtra(c.XUtil, win, sourcePager, 0, 0); err != nil {
		return fmt.Errorf("activate 0x%x: %w", win, err)
	}
	return nil
}

// clientSize converts an exterior size for win into the client size the
// window manager expects.
func (c *Connection) clientSize(win xproto.Window, r geom.Rect) (int, int, error) {
	frame, err := c.ExteriorGeometry(win)
	if err != nil {
		return 0, 0, err
	}
	return max(r.Width-frame.MarginWidth, 1), max(r.Height-frame.MarginHeight, 1), nil
}

// MoveResizeExterior asks the window manager, via _NET_MOVERESIZE_WINDOW, to
// place win so that its decorated frame covers r. The request positions by
// the exterior but sizes by the client, so the decoration margins are
// subtracted from the size. Callers clear blocking states first.
func (c *Connection) MoveResizeExterior(win xproto.Window, r geom.Rect) error {
	width, height, err := c.clientSize(win, r)
	if err != nil {
		return err
	}
	err = ewmh.MoveresizeWindowExtra(c.XUtil, win, r.X, r.Y, width, height,
		xproto.GravityNorthWest, sourcePager, true, true)
	if err != nil {
		return fmt.Errorf("move/resize 0x%x: %w", win, err)
	}
	return nil
}

// ConfigureExterior configures win directly, bypassing the window manager.
func (c *Connection) ConfigureExterior(win xproto.Window, r geom.Rect) error {
	width, height, err := c.clientSize(win, r)
	if err != nil {
		return err
	}
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(width), uint32(height)}
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), win, mask, values).Check(); err != nil {
		return fmt.Errorf("configure 0x%x: %w", win, err)
	}
	return nil
}
