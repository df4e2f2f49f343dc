// Package geom holds the rectangle and tolerance primitives shared by the
// position engine, the neighbor selector and the viewport trimmer.
package geom

import (
	"fmt"
	"math"
)

// Rect is the exterior bounds of a window (decorations included) or of a
// screen region. X and Y may be negative for monitors left of or above the
// desktop origin. Width and Height are never negative.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MaxX returns the right edge.
func (r Rect) MaxX() int { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() int { return r.Y + r.Height }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{
		X: float64(r.X) + float64(r.Width)/2,
		Y: float64(r.Y) + float64(r.Height)/2,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx %dy %dw %dh", r.X, r.Y, r.Width, r.Height)
}

// Point is a position in desktop coordinates.
type Point struct {
	X float64
	Y float64
}

const (
	fudgePixels  = 5.0
	fudgePercent = 0.05
)

// Near reports whether a and b are within max(5px, 5% of max(a,b)) of each
// other. The percentage uses the signed maximum, so two negative operands
// always get the 5px floor.
func Near(a, b float64) bool {
	fudge := math.Max(fudgePixels, fudgePercent*math.Max(a, b))
	return math.Abs(a-b) <= fudge
}

// Overlap returns the length of the intersection of [a1,a2] and [b1,b2], or
// 0 when they are disjoint.
func Overlap(a1, a2, b1, b2 int) int {
	if a2 < b1 || b2 < a1 {
		return 0
	}
	return min(a2, b2) - max(a1, b1)
}

// IntersectionArea returns the overlapping area of a and b.
func IntersectionArea(a, b Rect) int {
	return Overlap(a.X, a.MaxX(), b.X, b.MaxX()) * Overlap(a.Y, a.MaxY(), b.Y, b.MaxY())
}
