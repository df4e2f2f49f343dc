package platform

import (
	"fmt"
	"strings"

	"github.com/1broseidon/gridmgr/internal/geom"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Window is a top-level window and its exterior bounds, decorations
// included.
type Window struct {
	ID     WindowID
	Title  string
	Bounds geom.Rect
}

// Backend is everything the tiler needs from the window system. Reads and
// writes are separate calls so a request can finish every read before it
// mutates anything.
type Backend interface {
	// ActiveWindow returns the focused window.
	ActiveWindow() (Window, error)
	// Viewports returns the usable area of every monitor with reserved
	// edges removed, and the index of the one that holds active.
	Viewports(active geom.Rect) ([]geom.Rect, int, error)
	// CandidateWindows returns the windows focus may move between and the
	// index of the active one, or -1 when it is not among them.
	CandidateWindows() ([]Window, int, error)
	MoveResize(id WindowID, bounds geom.Rect) error
	Maximize(id WindowID) error
	Activate(id WindowID) error
}

// ViewportSource selects where monitor geometry is read from.
type ViewportSource string

const (
	// SourceAuto tries Xinerama, then RandR, then the EWMH workarea.
	SourceAuto     ViewportSource = "auto"
	SourceXinerama ViewportSource = "xinerama"
	SourceRandR    ViewportSource = "randr"
	// SourceEWMH uses the single _NET_WORKAREA rectangle. It spans every
	// monitor, so monitor moves are not possible with it.
	SourceEWMH ViewportSource = "ewmh"
)

// ParseViewportSource accepts a case-insensitive source name. An empty
// string means SourceAuto.
func ParseViewportSource(s string) (ViewportSource, error) {
	switch src := ViewportSource(strings.ToLower(strings.TrimSpace(s))); src {
	case "":
		return SourceAuto, nil
	case SourceAuto, SourceXinerama, SourceRandR, SourceEWMH:
		return src, nil
	default:
		return "", fmt.Errorf("unknown viewport source %q (want auto, xinerama, randr or ewmh)", s)
	}
}
