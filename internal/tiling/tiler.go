// Package tiling carries out position, monitor and focus requests against a
// window system backend. Every request finishes its reads and computation
// before it issues a single write, so a failed request leaves windows as
// they were.
package tiling

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/1broseidon/gridmgr/internal/grid"
	"github.com/1broseidon/gridmgr/internal/neighbor"
	"github.com/1broseidon/gridmgr/internal/platform"
	"github.com/charmbracelet/log"
)

var (
	// ErrNoViewports is returned when the backend reports no usable monitor.
	ErrNoViewports = errors.New("no viewports available")
	// ErrNoWindows is returned by Focus when there is nothing to focus.
	ErrNoWindows = errors.New("no candidate windows")
)

// fullScreen is the state that covers a whole viewport.
var fullScreen = grid.State{Anchor: grid.AnchorCenter, Density: grid.DensityThreeColLarge}

// Options tune how requests are carried out.
type Options struct {
	// MaximizeFull asks the window manager to maximize windows whose next
	// state covers the whole viewport instead of resizing them to it.
	MaximizeFull bool
	// DryRun computes and logs every request without touching any window.
	DryRun bool
}

// Result describes what a request did, or would have done in a dry run.
type Result struct {
	Window platform.Window
	// Plan is the position plan. It is zero for focus requests.
	Plan grid.Plan
	// Viewport is the usable area the window was placed in.
	Viewport geom.Rect
	// Changed is false when the request turned out to be a no-op.
	Changed   bool
	Maximized bool
	DryRun    bool
}

// Tiler runs requests one at a time against a backend.
type Tiler struct {
	mu      sync.Mutex
	backend platform.Backend
	logger  *log.Logger
	opts    Options
}

// NewTiler creates a tiler. A nil logger discards output.
func NewTiler(backend platform.Backend, logger *log.Logger, opts Options) *Tiler {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Tiler{backend: backend, logger: logger, opts: opts}
}

// Position moves the active window to the requested grid anchor on the
// monitor lying in direction monitor from its current one. Passing
// grid.AnchorCurrent keeps the window's layout, and neighbor.DirCurrent
// keeps it on its monitor.
func (t *Tiler) Position(req grid.Anchor, monitor neighbor.Direction) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	win, err := t.backend.ActiveWindow()
	if err != nil {
		return Result{}, fmt.Errorf("read active window: %w", err)
	}

	viewports, cur, err := t.backend.Viewports(win.Bounds)
	if err != nil {
		return Result{}, fmt.Errorf("read viewports: %w", err)
	}
	if len(viewports) == 0 {
		return Result{}, ErrNoViewports
	}
	if cur < 0 || cur >= len(viewports) {
		return Result{}, fmt.Errorf("active viewport %d of %d: %w", cur, len(viewports), neighbor.ErrActiveOutOfRange)
	}

	sel := neighbor.Selector{Compass: neighbor.Compass4, Logger: t.logger}
	next, err := sel.Select(monitor, viewports, cur)
	if err != nil {
		return Result{}, fmt.Errorf("select monitor: %w", err)
	}

	plan, err := grid.NewPlan(win.Bounds, viewports[cur], viewports[next], req)
	if err != nil {
		return Result{}, fmt.Errorf("plan %s: %w", req, err)
	}

	t.logger.Debug("position",
		"window", win.Bounds,
		"viewport", viewports[cur],
		"next_viewport", viewports[next],
		"state", plan.Current,
		"next_state", plan.Next,
		"target", plan.Target,
		"rescaled", plan.Rescaled,
	)

	res := Result{
		Window:   win,
		Plan:     plan,
		Viewport: viewports[next],
		Changed:  plan.Target != win.Bounds,
		DryRun:   t.opts.DryRun,
	}
	if t.opts.DryRun {
		return res, nil
	}

	if t.opts.MaximizeFull && !plan.Rescaled && plan.Next == fullScreen {
		moved := false
		if next != cur {
			// Window managers maximize on the monitor the window is on.
			if err := t.backend.MoveResize(win.ID, plan.Target); err != nil {
				return res, fmt.Errorf("move window: %w", err)
			}
			moved = true
		}
		err := t.backend.Maximize(win.ID)
		if err == nil {
			res.Maximized = true
			res.Changed = true
			return res, nil
		}
		t.logger.Warn("maximize failed, filling viewport instead", "err", err)
		if moved {
			return res, nil
		}
	}

	if err := t.backend.MoveResize(win.ID, plan.Target); err != nil {
		return res, fmt.Errorf("move window: %w", err)
	}
	return res, nil
}

// Focus activates the window lying in direction dir from the active one.
// Nothing is activated when the search comes back to the active window.
func (t *Tiler) Focus(dir neighbor.Direction) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	windows, active, err := t.backend.CandidateWindows()
	if err != nil {
		return Result{}, fmt.Errorf("read windows: %w", err)
	}
	if len(windows) == 0 {
		return Result{}, ErrNoWindows
	}

	rects := make([]geom.Rect, len(windows))
	for i, w := range windows {
		rects[i] = w.Bounds
	}

	sel := neighbor.Selector{Compass: neighbor.Compass8, Logger: t.logger}
	idx, err := sel.Select(dir, rects, active)
	if err != nil {
		return Result{}, fmt.Errorf("select window: %w", err)
	}

	target := windows[idx]
	t.logger.Debug("focus", "dir", dir, "from", active, "to", idx, "title", target.Title)

	res := Result{Window: target, Changed: idx != active, DryRun: t.opts.DryRun}
	if !res.Changed || t.opts.DryRun {
		return res, nil
	}
	if err := t.backend.Activate(target.ID); err != nil {
		return res, fmt.Errorf("activate window: %w", err)
	}
	return res, nil
}
