//go:build linux

package platform

import (
	"fmt"
	"io"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/1broseidon/gridmgr/internal/viewport"
	"github.com/1broseidon/gridmgr/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/charmbracelet/log"
)

// LinuxBackend implements Backend over an X11 connection.
type LinuxBackend struct {
	conn   *x11.Connection
	source ViewportSource
	logger *log.Logger
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend wraps an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, source ViewportSource, logger *log.Logger) *LinuxBackend {
	if source == "" {
		source = SourceAuto
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &LinuxBackend{conn: conn, source: source, logger: logger}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection.
func NewLinuxBackendFromDisplay(source ViewportSource, logger *log.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, err
	}
	return NewLinuxBackend(conn, source, logger), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop runs the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops a running EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for key grabs.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// ActiveWindow returns the focused window with its decorated bounds.
func (b *LinuxBackend) ActiveWindow() (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return Window{}, err
	}

	id, err := conn.ActiveWindow()
	if err != nil {
		return Window{}, err
	}
	frame, err := conn.ExteriorGeometry(id)
	if err != nil {
		return Window{}, err
	}

	b.logger.Debug("active window", "id", fmt.Sprintf("0x%x", id),
		"exterior", frame.Exterior, "margin_w", frame.MarginWidth, "margin_h", frame.MarginHeight)

	return Window{ID: WindowID(id), Title: conn.Title(id), Bounds: frame.Exterior}, nil
}

// Viewports returns the usable monitor areas and the index of the monitor
// sharing the most area with active.
func (b *LinuxBackend) Viewports(active geom.Rect) ([]geom.Rect, int, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, 0, err
	}

	switch b.source {
	case SourceEWMH:
		return b.workareaViewport(conn)
	case SourceXinerama:
		screens, err := conn.Screens()
		if err != nil {
			return nil, 0, err
		}
		return b.trimmed(conn, screens, active)
	case SourceRandR:
		screens, err := conn.RandrScreens()
		if err != nil {
			return nil, 0, err
		}
		return b.trimmed(conn, screens, active)
	}

	screens, err := conn.Screens()
	if err != nil || len(screens) == 0 {
		b.logger.Debug("xinerama unavailable, trying randr", "err", err)
		screens, err = conn.RandrScreens()
	}
	if err != nil || len(screens) == 0 {
		b.logger.Debug("randr unavailable, using workarea", "err", err)
		return b.workareaViewport(conn)
	}
	return b.trimmed(conn, screens, active)
}

func (b *LinuxBackend) trimmed(conn *x11.Connection, screens []geom.Rect, active geom.Rect) ([]geom.Rect, int, error) {
	if len(screens) == 0 {
		return nil, 0, fmt.Errorf("no screens reported")
	}

	struts, err := conn.Struts()
	if err != nil {
		b.logger.Warn("ignoring panel struts", "err", err)
		struts = nil
	}

	bound := viewport.BoundingBox(screens)
	idx := viewport.ActiveScreen(screens, active)
	out := viewport.TrimAll(bound, struts, screens)

	for i := range screens {
		b.logger.Debug("screen", "index", i, "raw", screens[i], "usable", out[i], "active", i == idx)
	}
	b.logger.Debug("struts", "bound", bound, "struts", struts)

	return out, idx, nil
}

func (b *LinuxBackend) workareaViewport(conn *x11.Connection) ([]geom.Rect, int, error) {
	wa, err := conn.Workarea()
	if err != nil {
		return nil, 0, err
	}
	b.logger.Debug("workarea", "rect", wa)
	return []geom.Rect{wa}, 0, nil
}

// CandidateWindows lists normal, visible windows on the current desktop.
func (b *LinuxBackend) CandidateWindows() ([]Window, int, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, -1, err
	}

	active, _ := conn.ActiveWindow()
	clients, err := conn.ClientList()
	if err != nil {
		return nil, -1, err
	}

	currentDesktop, desktopErr := ewmh.CurrentDesktopGet(conn.XUtil)
	hasCurrentDesktop := desktopErr == nil

	idx := -1
	windows := make([]Window, 0, len(clients))
	for _, id := range clients {
		if !conn.IsNormalWindow(id) || conn.IsHidden(id) {
			continue
		}
		if hasCurrentDesktop {
			desktop, err := ewmh.WmDesktopGet(conn.XUtil, id)
			if err == nil && desktop != uint(0xFFFFFFFF) && desktop != currentDesktop {
				continue
			}
		}

		frame, err := conn.ExteriorGeometry(id)
		if err != nil {
			b.logger.Debug("skipping window", "id", fmt.Sprintf("0x%x", id), "err", err)
			continue
		}

		if id == active {
			idx = len(windows)
		}
		windows = append(windows, Window{ID: WindowID(id), Title: conn.Title(id), Bounds: frame.Exterior})
	}

	return windows, idx, nil
}

// MoveResize places the window's decorated frame at bounds. Maximized,
// fullscreen and shaded states are cleared first. When the window manager
// rejects the request the window is configured directly.
func (b *LinuxBackend) MoveResize(id WindowID, bounds geom.Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	win := xproto.Window(id)
	if err := conn.ClearStates(win); err != nil {
		return err
	}
	if err := conn.MoveResizeExterior(win, bounds); err != nil {
		b.logger.Warn("move request failed, configuring directly", "id", fmt.Sprintf("0x%x", id), "err", err)
		return conn.ConfigureExterior(win, bounds)
	}
	return nil
}

// Maximize asks the window manager to maximize the window.
func (b *LinuxBackend) Maximize(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Maximize(xproto.Window(id))
}

// Activate focuses and raises the window.
func (b *LinuxBackend) Activate(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Activate(xproto.Window(id))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
