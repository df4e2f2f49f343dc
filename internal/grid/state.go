// Package grid infers a window's grid layout from its rectangle, steps that
// layout in response to a requested anchor, and renders layouts back into
// pixel rectangles.
package grid

import "errors"

var (
	// ErrInvalidGeometry is returned by Render for anchor/density pairs that
	// have no rectangle, such as a center anchor in a two column grid.
	ErrInvalidGeometry = errors.New("invalid geometry request")
	// ErrInvalidRequest is returned when AnchorUnknown or an unrecognized
	// anchor is requested.
	ErrInvalidRequest = errors.New("invalid anchor request")
)

// Anchor is one of the nine grid cells a window can occupy.
type Anchor int

const (
	AnchorUnknown Anchor = iota
	AnchorCurrent
	AnchorUpLeft
	AnchorUpCenter
	AnchorUpRight
	AnchorLeft
	AnchorCenter
	AnchorRight
	AnchorDownLeft
	AnchorDownCenter
	AnchorDownRight
)

var anchorNames = [...]string{
	AnchorUnknown:    "unknown",
	AnchorCurrent:    "current",
	AnchorUpLeft:     "up-left",
	AnchorUpCenter:   "up-center",
	AnchorUpRight:    "up-right",
	AnchorLeft:       "left",
	AnchorCenter:     "center",
	AnchorRight:      "right",
	AnchorDownLeft:   "down-left",
	AnchorDownCenter: "down-center",
	AnchorDownRight:  "down-right",
}

func (a Anchor) String() string {
	if a < 0 || int(a) >= len(anchorNames) {
		return "invalid"
	}
	return anchorNames[a]
}

// IsCell reports whether a names one of the nine grid cells.
func (a Anchor) IsCell() bool {
	return a >= AnchorUpLeft && a <= AnchorDownRight
}

// IsCenterColumn reports whether a sits in the middle column. Center column
// anchors have no two column layout.
func (a Anchor) IsCenterColumn() bool {
	switch a {
	case AnchorUpCenter, AnchorCenter, AnchorDownCenter:
		return true
	}
	return false
}

// Density governs whether the grid splits the viewport into halves or thirds.
type Density int

const (
	DensityUnknown Density = iota
	// DensityTwoCol is a 2x2 grid. Not valid for center column anchors.
	DensityTwoCol
	// DensityThreeColSmall is a 3x2 grid where each cell fills one column.
	DensityThreeColSmall
	// DensityThreeColLarge is a 3x2 grid where side cells fill two columns
	// and center cells fill the full width.
	DensityThreeColLarge
)

func (d Density) String() string {
	switch d {
	case DensityUnknown:
		return "unknown"
	case DensityTwoCol:
		return "two-col"
	case DensityThreeColSmall:
		return "three-col-small"
	case DensityThreeColLarge:
		return "three-col-large"
	default:
		return "invalid"
	}
}

// State is a window's layout. It is recomputed from the live window rect on
// every request and never stored.
type State struct {
	Anchor  Anchor
	Density Density
}

// Unknown is the state of a window that matches no layout.
var Unknown = State{Anchor: AnchorUnknown, Density: DensityUnknown}

// IsUnknown reports whether no layout was detected.
func (s State) IsUnknown() bool { return s == Unknown }

func (s State) String() string {
	return s.Anchor.String() + "/" + s.Density.String()
}

// column and row split an anchor into its grid coordinates.
type column int

const (
	colLeft column = iota
	colCenter
	colRight
)

type row int

const (
	rowUp row = iota
	rowFull
	rowDown
)

func (a Anchor) cell() (column, row, bool) {
	switch a {
	case AnchorUpLeft:
		return colLeft, rowUp, true
	case AnchorUpCenter:
		return colCenter, rowUp, true
	case AnchorUpRight:
		return colRight, rowUp, true
	case AnchorLeft:
		return colLeft, rowFull, true
	case AnchorCenter:
		return colCenter, rowFull, true
	case AnchorRight:
		return colRight, rowFull, true
	case AnchorDownLeft:
		return colLeft, rowDown, true
	case AnchorDownCenter:
		return colCenter, rowDown, true
	case AnchorDownRight:
		return colRight, rowDown, true
	}
	return 0, 0, false
}

var anchorAt = [3][3]Anchor{
	rowUp:   {colLeft: AnchorUpLeft, colCenter: AnchorUpCenter, colRight: AnchorUpRight},
	rowFull: {colLeft: AnchorLeft, colCenter: AnchorCenter, colRight: AnchorRight},
	rowDown: {colLeft: AnchorDownLeft, colCenter: AnchorDownCenter, colRight: AnchorDownRight},
}
