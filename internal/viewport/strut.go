package viewport

// Partial mirrors the twelve cardinals of _NET_WM_STRUT_PARTIAL.
type Partial struct {
	Left, Right, Top, Bottom int

	LeftStartY, LeftEndY     int
	RightStartY, RightEndY   int
	TopStartX, TopEndX       int
	BottomStartX, BottomEndX int
}

// StrutsFromPartial converts a partial strut hint into one Strut per
// reserved edge. Edges with zero width are dropped.
func StrutsFromPartial(p Partial) []Strut {
	var out []Strut
	if p.Left > 0 {
		out = append(out, Strut{Edge: EdgeLeft, Width: p.Left, MinPerp: p.LeftStartY, MaxPerp: p.LeftEndY})
	}
	if p.Right > 0 {
		out = append(out, Strut{Edge: EdgeRight, Width: p.Right, MinPerp: p.RightStartY, MaxPerp: p.RightEndY})
	}
	if p.Top > 0 {
		out = append(out, Strut{Edge: EdgeTop, Width: p.Top, MinPerp: p.TopStartX, MaxPerp: p.TopEndX})
	}
	if p.Bottom > 0 {
		out = append(out, Strut{Edge: EdgeBottom, Width: p.Bottom, MinPerp: p.BottomStartX, MaxPerp: p.BottomEndX})
	}
	return out
}

// PartialFromStrut expands a legacy four value _NET_WM_STRUT, which always
// spans the whole edge, into a Partial for a root window of the given size.
func PartialFromStrut(left, right, top, bottom, rootWidth, rootHeight int) Partial {
	return Partial{
		Left:         left,
		Right:        right,
		Top:          top,
		Bottom:       bottom,
		LeftStartY:   0,
		LeftEndY:     rootHeight - 1,
		RightStartY:  0,
		RightEndY:    rootHeight - 1,
		TopStartX:    0,
		TopEndX:      rootWidth - 1,
		BottomStartX: 0,
		BottomEndX:   rootWidth - 1,
	}
}
