package grid

import (
	"fmt"
	"math"

	"github.com/1broseidon/gridmgr/internal/geom"
)

// frac is a fraction of a viewport dimension.
type frac struct {
	num, den int
}

func (f frac) of(n int) int { return n * f.num / f.den }

func (f frac) ofFloat(n int) float64 { return float64(n) * float64(f.num) / float64(f.den) }

// span is the offset and size of a cell along one axis.
type span struct {
	offset frac
	size   frac
}

var (
	zero      = frac{0, 1}
	third     = frac{1, 3}
	half      = frac{1, 2}
	twoThirds = frac{2, 3}
	whole     = frac{1, 1}
)

// columnSpans is the horizontal half of the layout table. A missing entry is
// an invalid pair.
var columnSpans = map[Density]map[column]span{
	DensityTwoCol: {
		colLeft:  {zero, half},
		colRight: {half, half},
	},
	DensityThreeColSmall: {
		colLeft:   {zero, third},
		colCenter: {third, third},
		colRight:  {twoThirds, third},
	},
	DensityThreeColLarge: {
		colLeft:   {zero, twoThirds},
		colCenter: {zero, whole},
		colRight:  {third, twoThirds},
	},
}

// rowSpans is the vertical half of the layout table. Rows do not depend on
// density.
var rowSpans = [...]span{
	rowUp:   {zero, half},
	rowFull: {zero, whole},
	rowDown: {half, half},
}

// Render converts a state into an absolute rectangle inside viewport.
func Render(s State, viewport geom.Rect) (geom.Rect, error) {
	col, r, ok := s.Anchor.cell()
	if !ok {
		return geom.Rect{}, fmt.Errorf("%w: anchor %s", ErrInvalidGeometry, s.Anchor)
	}
	cols, ok := columnSpans[s.Density]
	if !ok {
		return geom.Rect{}, fmt.Errorf("%w: density %s", ErrInvalidGeometry, s.Density)
	}
	cs, ok := cols[col]
	if !ok {
		return geom.Rect{}, fmt.Errorf("%w: %s has no %s layout", ErrInvalidGeometry, s.Anchor, s.Density)
	}
	rs := rowSpans[r]

	return geom.Rect{
		X:      viewport.X + cs.offset.of(viewport.Width),
		Y:      viewport.Y + rs.offset.of(viewport.Height),
		Width:  cs.size.of(viewport.Width),
		Height: rs.size.of(viewport.Height),
	}, nil
}

// widthBucket is one entry of the classification table. Buckets are tested
// in declaration order and the first width match decides the density, even
// if no offset inside the bucket matches afterwards.
type widthBucket struct {
	width   frac
	density Density
	columns []columnOffset
}

type columnOffset struct {
	offset frac
	col    column
}

var widthBuckets = []widthBucket{
	{half, DensityTwoCol, []columnOffset{{zero, colLeft}, {half, colRight}}},
	{third, DensityThreeColSmall, []columnOffset{{zero, colLeft}, {third, colCenter}, {twoThirds, colRight}}},
	{twoThirds, DensityThreeColLarge, []columnOffset{{zero, colLeft}, {third, colRight}}},
	{whole, DensityThreeColLarge, []columnOffset{{zero, colCenter}}},
}

// Classify estimates the layout of window inside viewport. It is the inverse
// of Render, within the Near tolerance. Windows that match no layout yield
// Unknown.
func Classify(window, viewport geom.Rect) State {
	relX := float64(window.X - viewport.X)
	relY := float64(window.Y - viewport.Y)
	w := float64(window.Width)
	h := float64(window.Height)

	for _, b := range widthBuckets {
		if !geom.Near(w, b.width.ofFloat(viewport.Width)) {
			continue
		}

		r, ok := classifyRow(h, relY, viewport.Height)
		if !ok {
			return Unknown
		}
		for _, c := range b.columns {
			if geom.Near(relX, c.offset.ofFloat(viewport.Width)) {
				return State{Anchor: anchorAt[r][c.col], Density: b.density}
			}
		}
		return Unknown
	}
	return Unknown
}

// classifyRow matches half height (top, then bottom) before full height.
func classifyRow(h, relY float64, vh int) (row, bool) {
	if geom.Near(h, half.ofFloat(vh)) {
		if geom.Near(relY, 0) {
			return rowUp, true
		}
		if geom.Near(relY, half.ofFloat(vh)) {
			return rowDown, true
		}
		return 0, false
	}
	if geom.Near(h, float64(vh)) && geom.Near(relY, 0) {
		return rowFull, true
	}
	return 0, false
}

// Transition computes the next state for a requested anchor. Requesting the
// anchor a window already occupies cycles its density: center column anchors
// alternate large/small, the rest go two-col, large, small, two-col.
func Transition(cur State, req Anchor) (State, error) {
	if req == AnchorCurrent {
		return cur, nil
	}
	if !req.IsCell() {
		return State{}, fmt.Errorf("%w: %s", ErrInvalidRequest, req)
	}

	if cur.Anchor != req {
		if req.IsCenterColumn() {
			return State{Anchor: req, Density: DensityThreeColLarge}, nil
		}
		return State{Anchor: req, Density: DensityTwoCol}, nil
	}

	next := State{Anchor: req}
	if req.IsCenterColumn() {
		switch cur.Density {
		case DensityThreeColLarge:
			next.Density = DensityThreeColSmall
		default:
			next.Density = DensityThreeColLarge
		}
		return next, nil
	}

	switch cur.Density {
	case DensityTwoCol:
		next.Density = DensityThreeColLarge
	case DensityThreeColLarge, DensityUnknown:
		next.Density = DensityThreeColSmall
	default:
		next.Density = DensityTwoCol
	}
	return next, nil
}

// Rescale maps window proportionally from cur into next. Each edge is scaled
// and rounded on its own so sizes do not accumulate rounding error. A cur
// viewport with no width or height yields next unchanged.
func Rescale(cur, next, window geom.Rect) geom.Rect {
	if cur.Width == 0 || cur.Height == 0 {
		return next
	}
	ratioX := float64(next.Width) / float64(cur.Width)
	ratioY := float64(next.Height) / float64(cur.Height)

	left := scale(window.X-cur.X, ratioX)
	right := scale(window.MaxX()-cur.X, ratioX)
	top := scale(window.Y-cur.Y, ratioY)
	bottom := scale(window.MaxY()-cur.Y, ratioY)

	return geom.Rect{
		X:      next.X + left,
		Y:      next.Y + top,
		Width:  right - left,
		Height: bottom - top,
	}
}

func scale(v int, ratio float64) int {
	return int(math.Round(float64(v) * ratio))
}

// Plan is the outcome of one position request.
type Plan struct {
	Current  State
	Next     State
	Target   geom.Rect
	Rescaled bool
}

// NewPlan classifies window against current, applies req and renders the
// result into next. When the window has no detectable layout and no anchor
// was requested, the window is rescaled into next instead.
func NewPlan(window, current, next geom.Rect, req Anchor) (Plan, error) {
	state := Classify(window, current)
	if req == AnchorCurrent && state.IsUnknown() {
		return Plan{
			Current:  state,
			Next:     state,
			Target:   Rescale(current, next, window),
			Rescaled: true,
		}, nil
	}

	nextState, err := Transition(state, req)
	if err != nil {
		return Plan{}, err
	}
	target, err := Render(nextState, next)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Current: state, Next: nextState, Target: target}, nil
}
