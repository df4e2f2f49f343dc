package neighbor

// Direction is a compass direction relative to the active rectangle.
type Direction int

const (
	DirUnknown Direction = iota
	DirCurrent
	DirUp
	DirUpRight
	DirRight
	DirDownRight
	DirDown
	DirDownLeft
	DirLeft
	DirUpLeft
)

func (d Direction) String() string {
	switch d {
	case DirUnknown:
		return "unknown"
	case DirCurrent:
		return "current"
	case DirUp:
		return "up"
	case DirUpRight:
		return "up-right"
	case DirRight:
		return "right"
	case DirDownRight:
		return "down-right"
	case DirDown:
		return "down"
	case DirDownLeft:
		return "down-left"
	case DirLeft:
		return "left"
	case DirUpLeft:
		return "up-left"
	default:
		return "invalid"
	}
}

// IsDiagonal reports whether d points between two axes.
func (d Direction) IsDiagonal() bool {
	switch d {
	case DirUpRight, DirDownRight, DirDownLeft, DirUpLeft:
		return true
	}
	return false
}

// unit returns the sign of d along each axis, in screen coordinates where y
// grows downward.
func (d Direction) unit() (sx, sy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirUpRight:
		return 1, -1
	case DirRight:
		return 1, 0
	case DirDownRight:
		return 1, 1
	case DirDown:
		return 0, 1
	case DirDownLeft:
		return -1, 1
	case DirLeft:
		return -1, 0
	case DirUpLeft:
		return -1, -1
	}
	return 0, 0
}

// Compass selects between the monitor search (four directions) and the
// window search (eight directions).
type Compass int

const (
	Compass4 Compass = iota
	Compass8
)

var clockwise = map[Compass][]Direction{
	Compass4: {DirUp, DirRight, DirDown, DirLeft},
	Compass8: {DirUp, DirUpRight, DirRight, DirDownRight, DirDown, DirDownLeft, DirLeft, DirUpLeft},
}

// next returns the direction clockwise from d, or false if d is not part of
// the compass.
func (c Compass) next(d Direction) (Direction, bool) {
	dirs := clockwise[c]
	for i, cand := range dirs {
		if cand == d {
			return dirs[(i+1)%len(dirs)], true
		}
	}
	return DirUnknown, false
}

func (c Compass) String() string {
	if c == Compass8 {
		return "compass8"
	}
	return "compass4"
}
