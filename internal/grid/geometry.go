package grid

import (
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/slicecrop/internal/detection"
)

// Dimensions is the size of one grid cell in pixels, measured from one marker
// to the next along a row (Width) or a column (Height).
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Margins are the fixed inward offsets trimmed from every side of a cell so the
// marker glyph itself is excluded from the crop.
type Margins struct {
	Width  int `json:"width"`  // trimmed from the left and right edges
	Height int `json:"height"` // trimmed from the top and bottom edges
}

// DefaultMargins are the margins used when none are configured.
var DefaultMargins = Margins{Width: 4, Height: 5}

// InferDimensions derives the cell size from a set of marker coordinates.
//
// Width is the smallest positive column difference between two coordinates on
// the same row. Height is the smallest positive row difference between two
// coordinates in the same column. The order of coords does not matter.
//
// Returns an error wrapping ErrDegenerateGeometry when there are fewer than two
// coordinates, when no row holds two distinct markers, or when no column holds
// two distinct markers.
func InferDimensions(coords []detection.Coordinate) (Dimensions, error) {
	if len(coords) < 2 {
		return Dimensions{}, fmt.Errorf("%w: need at least 2 markers, found %d",
			ErrDegenerateGeometry, len(coords))
	}

	byRow := make(map[int][]int)
	byCol := make(map[int][]int)
	for _, c := range coords {
		byRow[c.Row] = append(byRow[c.Row], c.Col)
		byCol[c.Col] = append(byCol[c.Col], c.Row)
	}

	width, ok := minGap(byRow)
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: no row holds two markers", ErrDegenerateGeometry)
	}
	height, ok := minGap(byCol)
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: no column holds two markers", ErrDegenerateGeometry)
	}

	return Dimensions{Width: width, Height: height}, nil
}

// minGap returns the smallest positive difference between two values of the
// same group, and false when no group holds two distinct values.
func minGap(groups map[int][]int) (int, bool) {
	best := 0
	for _, values := range groups {
		if len(values) < 2 {
			continue
		}
		sorted := append([]int(nil), values...)
		sort.Ints(sorted)
		for i := 1; i < len(sorted); i++ {
			gap := sorted[i] - sorted[i-1]
			if gap > 0 && (best == 0 || gap < best) {
				best = gap
			}
		}
	}
	return best, best > 0
}

// Validate reports whether a cell of size d still has pixels left once m is
// trimmed from every side.
func (d Dimensions) Validate(m Margins) error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: cell %dx%d is not positive", ErrDegenerateGeometry, d.Width, d.Height)
	}
	if d.Width <= 2*m.Width || d.Height <= 2*m.Height {
		return fmt.Errorf("%w: cell %dx%d leaves no pixels inside margins %dx%d",
			ErrDegenerateGeometry, d.Width, d.Height, m.Width, m.Height)
	}
	return nil
}

// CellRect returns the crop rectangle of the cell whose marker sits at c:
// rows [Row+m.Height, Row+Height-m.Height) and columns
// [Col+m.Width, Col+Width-m.Width). X is the column, Y is the row.
func (d Dimensions) CellRect(c detection.Coordinate, m Margins) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(c.Col+m.Width, c.Row+m.Height),
		Max: image.Pt(c.Col+d.Width-m.Width, c.Row+d.Height-m.Height),
	}
}
