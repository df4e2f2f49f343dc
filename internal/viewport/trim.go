// Package viewport derives usable monitor areas from raw screen geometry by
// removing the edges reserved by panels and docks.
package viewport

import (
	"fmt"

	"github.com/1broseidon/gridmgr/internal/geom"
)

// Edge is the desktop edge a strut is attached to.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "invalid"
	}
}

// Strut is a reserved band along one edge of the desktop bounding box.
// Width is measured inward from that edge; MinPerp and MaxPerp bound the band
// along the other axis.
type Strut struct {
	Edge    Edge
	Width   int
	MinPerp int
	MaxPerp int
}

func (s Strut) String() string {
	return fmt.Sprintf("%s:%d@%d-%d", s.Edge, s.Width, s.MinPerp, s.MaxPerp)
}

// Trim shrinks screen by every strut that overlaps it on the perpendicular
// axis. Struts are positioned relative to bound. The result never has a
// negative width or height and always lies within screen.
func Trim(bound geom.Rect, struts []Strut, screen geom.Rect) geom.Rect {
	minX, minY := screen.X, screen.Y
	maxX, maxY := screen.MaxX(), screen.MaxY()

	for _, s := range struts {
		switch s.Edge {
		case EdgeLeft:
			if geom.Overlap(screen.Y, screen.MaxY(), s.MinPerp, s.MaxPerp) != 0 {
				minX = max(minX, bound.X+s.Width)
			}
		case EdgeRight:
			if geom.Overlap(screen.Y, screen.MaxY(), s.MinPerp, s.MaxPerp) != 0 {
				maxX = min(maxX, bound.MaxX()-s.Width)
			}
		case EdgeTop:
			if geom.Overlap(screen.X, screen.MaxX(), s.MinPerp, s.MaxPerp) != 0 {
				minY = max(minY, bound.Y+s.Width)
			}
		case EdgeBottom:
			if geom.Overlap(screen.X, screen.MaxX(), s.MinPerp, s.MaxPerp) != 0 {
				maxY = min(maxY, bound.MaxY()-s.Width)
			}
		}
	}

	// Conflicting struts leave an empty area, which stays on the screen.
	maxX = max(maxX, screen.X)
	maxY = max(maxY, screen.Y)
	minX = min(minX, maxX)
	minY = min(minY, maxY)

	return geom.Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// TrimAll trims every screen against the same struts.
func TrimAll(bound geom.Rect, struts []Strut, screens []geom.Rect) []geom.Rect {
	out := make([]geom.Rect, len(screens))
	for i, s := range screens {
		out[i] = Trim(bound, struts, s)
	}
	return out
}

// BoundingBox returns the smallest rect containing every screen.
func BoundingBox(screens []geom.Rect) geom.Rect {
	if len(screens) == 0 {
		return geom.Rect{}
	}
	minX, minY := screens[0].X, screens[0].Y
	maxX, maxY := screens[0].MaxX(), screens[0].MaxY()
	for _, s := range screens[1:] {
		minX = min(minX, s.X)
		minY = min(minY, s.Y)
		maxX = max(maxX, s.MaxX())
		maxY = max(maxY, s.MaxY())
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ActiveScreen returns the index of the screen sharing the most area with
// window. Ties keep the earlier screen; no overlap at all yields 0.
func ActiveScreen(screens []geom.Rect, window geom.Rect) int {
	active, best := 0, 0
	for i, s := range screens {
		if area := geom.IntersectionArea(s, window); area > best {
			active, best = i, area
		}
	}
	return active
}
