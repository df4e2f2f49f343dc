package tiling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/gridmgr/internal/grid"
	"github.com/1broseidon/gridmgr/internal/neighbor"
)

// ErrUnknownAction is returned for action kinds Run does not handle.
var ErrUnknownAction = errors.New("unknown action")

// ActionKind is the kind of request an Action makes.
type ActionKind string

const (
	// ActionPosition moves the active window to an anchor on its monitor.
	ActionPosition ActionKind = "position"
	// ActionMonitor moves the active window to a neighboring monitor,
	// keeping its layout.
	ActionMonitor ActionKind = "monitor"
	// ActionFocus activates a neighboring window.
	ActionFocus ActionKind = "focus"
)

// Action is a request as named on the command line or in a key binding.
type Action struct {
	Kind   ActionKind
	Target string
}

func (a Action) String() string {
	return string(a.Kind) + " " + a.Target
}

// Validate reports whether Run would accept a, without running it.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionPosition:
		_, err := ParseAnchor(a.Target)
		return err
	case ActionMonitor:
		dir, err := ParseDirection(a.Target)
		if err != nil {
			return err
		}
		if dir.IsDiagonal() {
			return fmt.Errorf("%w: monitors are only reachable up, down, left or right, not %s", neighbor.ErrInvalidDirection, dir)
		}
		return nil
	case ActionFocus:
		_, err := parseFocusTarget(a.Target)
		return err
	default:
		return fmt.Errorf("%w %q (want position, monitor or focus)", ErrUnknownAction, a.Kind)
	}
}

// Run parses and carries out a.
func (t *Tiler) Run(a Action) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, err
	}

	switch a.Kind {
	case ActionPosition:
		anchor, _ := ParseAnchor(a.Target)
		return t.Position(anchor, neighbor.DirCurrent)
	case ActionMonitor:
		dir, _ := ParseDirection(a.Target)
		return t.Position(grid.AnchorCurrent, dir)
	default:
		dir, _ := parseFocusTarget(a.Target)
		return t.Focus(dir)
	}
}

var anchorTokens = map[string]grid.Anchor{
	"current":     grid.AnchorCurrent,
	"topleft":     grid.AnchorUpLeft,
	"upleft":      grid.AnchorUpLeft,
	"top":         grid.AnchorUpCenter,
	"up":          grid.AnchorUpCenter,
	"topright":    grid.AnchorUpRight,
	"upright":     grid.AnchorUpRight,
	"left":        grid.AnchorLeft,
	"center":      grid.AnchorCenter,
	"right":       grid.AnchorRight,
	"botleft":     grid.AnchorDownLeft,
	"bottomleft":  grid.AnchorDownLeft,
	"downleft":    grid.AnchorDownLeft,
	"bot":         grid.AnchorDownCenter,
	"bottom":      grid.AnchorDownCenter,
	"down":        grid.AnchorDownCenter,
	"botright":    grid.AnchorDownRight,
	"bottomright": grid.AnchorDownRight,
	"downright":   grid.AnchorDownRight,
}

var directionTokens = map[string]neighbor.Direction{
	"current":   neighbor.DirCurrent,
	"up":        neighbor.DirUp,
	"upright":   neighbor.DirUpRight,
	"right":     neighbor.DirRight,
	"downright": neighbor.DirDownRight,
	"down":      neighbor.DirDown,
	"downleft":  neighbor.DirDownLeft,
	"left":      neighbor.DirLeft,
	"upleft":    neighbor.DirUpLeft,
}

// normalize lowercases s and drops separators, so "Top-Left", "top_left"
// and "topleft" are the same token.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// ParseAnchor parses a grid position name such as "topleft", "center" or
// "bot".
func ParseAnchor(s string) (grid.Anchor, error) {
	if a, ok := anchorTokens[normalize(s)]; ok {
		return a, nil
	}
	return grid.AnchorUnknown, fmt.Errorf("%w: %q", grid.ErrInvalidRequest, s)
}

// ParseDirection parses a compass direction such as "up" or "downleft".
func ParseDirection(s string) (neighbor.Direction, error) {
	if d, ok := directionTokens[normalize(s)]; ok {
		return d, nil
	}
	return neighbor.DirUnknown, fmt.Errorf("%w: %q", neighbor.ErrInvalidDirection, s)
}

// DirectionForAnchor maps a grid position onto the direction pointing at
// it from the center, so position names double as focus directions.
func DirectionForAnchor(a grid.Anchor) neighbor.Direction {
	switch a {
	case grid.AnchorUpLeft:
		return neighbor.DirUpLeft
	case grid.AnchorUpCenter:
		return neighbor.DirUp
	case grid.AnchorUpRight:
		return neighbor.DirUpRight
	case grid.AnchorLeft:
		return neighbor.DirLeft
	case grid.AnchorCenter, grid.AnchorCurrent:
		return neighbor.DirCurrent
	case grid.AnchorRight:
		return neighbor.DirRight
	case grid.AnchorDownLeft:
		return neighbor.DirDownLeft
	case grid.AnchorDownCenter:
		return neighbor.DirDown
	case grid.AnchorDownRight:
		return neighbor.DirDownRight
	default:
		return neighbor.DirUnknown
	}
}

// parseFocusTarget accepts either a direction or a position name.
func parseFocusTarget(s string) (neighbor.Direction, error) {
	if d, err := ParseDirection(s); err == nil {
		return d, nil
	}
	a, err := ParseAnchor(s)
	if err != nil {
		return neighbor.DirUnknown, fmt.Errorf("%w: %q", neighbor.ErrInvalidDirection, s)
	}
	return DirectionForAnchor(a), nil
}
