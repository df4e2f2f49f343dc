// Package neighbor picks the rectangle lying in a compass direction from an
// active rectangle, wrapping around the desktop and rotating clockwise when
// nothing lies that way.
package neighbor

import (
	"errors"
	"fmt"
	"math"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/charmbracelet/log"
)

var (
	// ErrInvalidDirection is returned for DirUnknown, unrecognized values, and
	// diagonals passed to a four direction search.
	ErrInvalidDirection = errors.New("invalid direction request")
	// ErrActiveOutOfRange is returned when the active index does not name a
	// rectangle.
	ErrActiveOutOfRange = errors.New("active index out of range")
)

// maxAttempts bounds the clockwise fallback rotation.
const maxAttempts = 4

// Selector runs directional searches. The zero value searches four
// directions without logging.
type Selector struct {
	Compass Compass
	Logger  *log.Logger
}

// Select is shorthand for a Selector with no logger.
func Select(dir Direction, rects []geom.Rect, active int, c Compass) (int, error) {
	return Selector{Compass: c}.Select(dir, rects, active)
}

// Select returns the index of the nearest rectangle in direction dir from
// rects[active]. When nothing qualifies it retries from the opposite side
// of the desktop, then rotates dir clockwise. If every attempt fails the
// active index is returned.
func (s Selector) Select(dir Direction, rects []geom.Rect, active int) (int, error) {
	if len(rects) <= 1 {
		return 0, nil
	}
	if dir == DirCurrent {
		return active, nil
	}
	if _, ok := s.Compass.next(dir); !ok {
		return 0, fmt.Errorf("%w: %s in %s search", ErrInvalidDirection, dir, s.Compass)
	}
	if active < 0 || active >= len(rects) {
		return 0, fmt.Errorf("%w: %d of %d", ErrActiveOutOfRange, active, len(rects))
	}

	boundX, boundY := rects[0].MaxX(), rects[0].MaxY()
	pts := make([]geom.Point, len(rects))
	for i, r := range rects {
		boundX = max(boundX, r.MaxX())
		boundY = max(boundY, r.MaxY())
		pts[i] = r.Center()
	}

	origin := pts[active]
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if i, ok := s.nearest(dir, pts, active, origin); ok {
			return i, nil
		}

		// Nothing ahead: look again from beyond the opposite edge.
		sx, sy := dir.unit()
		shifted := geom.Point{
			X: origin.X - float64(sx*boundX),
			Y: origin.Y - float64(sy*boundY),
		}
		if i, ok := s.nearest(dir, pts, active, shifted); ok {
			s.debug("wrapped around", "dir", dir, "index", i)
			return i, nil
		}

		dir, _ = s.Compass.next(dir)
	}

	s.debug("no neighbor found", "active", active)
	return active, nil
}

// nearest scans every non-active point for the best candidate in dir as seen
// from origin.
func (s Selector) nearest(dir Direction, pts []geom.Point, active int, origin geom.Point) (int, bool) {
	best := -1
	var bestScore float64
	for i, p := range pts {
		if i == active {
			continue
		}
		if !qualifies(dir, origin, p) {
			s.debug("miss", "dir", dir, "x", p.X, "y", p.Y)
			continue
		}
		score := weight(dir, origin, p)
		s.debug("match", "dir", dir, "x", p.X, "y", p.Y, "score", score)
		if best < 0 || score < bestScore {
			best = i
			bestScore = score
		}
	}
	return best, best >= 0
}

// qualifies reports whether p lies in direction dir from a. Cardinal
// directions accept points within 45 degrees of the axis. Diagonals accept
// any point strictly inside the quadrant.
func qualifies(dir Direction, a, p geom.Point) bool {
	if a == p {
		return false
	}

	if dir.IsDiagonal() {
		sx, sy := dir.unit()
		return float64(sx)*(p.X-a.X) > 0 && float64(sy)*(p.Y-a.Y) > 0
	}

	switch dir {
	case DirUp:
		if a.Y < p.Y {
			return false
		}
		return slope(a, p) >= math.Pi/4
	case DirDown:
		if a.Y > p.Y {
			return false
		}
		return slope(a, p) >= math.Pi/4
	case DirLeft:
		if a.X < p.X {
			return false
		}
		return slope(a, p) <= math.Pi/4
	case DirRight:
		if a.X > p.X {
			return false
		}
		return slope(a, p) <= math.Pi/4
	}
	return false
}

// slope is the angle between a→p and the horizontal axis, in [0, π/2].
func slope(a, p geom.Point) float64 {
	dx := math.Abs(p.X - a.X)
	if dx == 0 {
		return math.Pi / 2
	}
	return math.Atan(math.Abs(p.Y-a.Y) / dx)
}

// weight ranks qualifying points; smaller is better. Diagonals favor points
// close to the true 45 degree line over plain proximity.
func weight(dir Direction, a, p geom.Point) float64 {
	dx := math.Abs(p.X - a.X)
	dy := math.Abs(p.Y - a.Y)
	dist := math.Sqrt(dx*dx + dy*dy)
	if dir.IsDiagonal() {
		return math.Sqrt(dist) * math.Abs(dx-dy)
	}
	return dist
}

func (s Selector) debug(msg string, keyvals ...interface{}) {
	if s.Logger != nil {
		s.Logger.Debug(msg, keyvals...)
	}
}
