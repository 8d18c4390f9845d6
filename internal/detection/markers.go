package detection

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ironsheep/slicecrop/internal/imaging"
)

// Coordinate is a pixel position in matrix indexing: Row counts down from the
// top edge and Col counts right from the left edge.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the coordinate as (row,col).
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Locator finds occurrences of a fixed marker template in grayscale pages.
//
// The template is loaded once and reused for every page of a run. A Locator
// owns its template matrix and must be closed when no longer needed.
//
// Locator is not safe for concurrent use.
type Locator struct {
	template  gocv.Mat
	threshold float32
}

// NewLocator creates a Locator from a template matrix.
//
// Parameters:
//   - template: The marker image. Color templates are converted to grayscale.
//     The Locator keeps its own copy; the caller still owns template.
//   - threshold: Minimum normalized correlation (0 < threshold <= 1) for a
//     position to count as a match.
//
// Returns an error if the template is empty or the threshold is out of range.
func NewLocator(template gocv.Mat, threshold float64) (*Locator, error) {
	if template.Empty() {
		return nil, errors.New("marker template is empty")
	}
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("match threshold %v outside (0, 1]", threshold)
	}

	return &Locator{
		template:  imaging.ToGray(template),
		threshold: float32(threshold),
	}, nil
}

// LoadLocator reads the marker template from path and creates a Locator.
func LoadLocator(path string, threshold float64) (*Locator, error) {
	template, err := imaging.LoadGray(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load marker template: %w", err)
	}
	defer template.Close()

	return NewLocator(template, threshold)
}

// Close releases the template matrix.
func (l *Locator) Close() error {
	return l.template.Close()
}

// TemplateSize returns the template width and height in pixels.
func (l *Locator) TemplateSize() (width, height int) {
	return l.template.Cols(), l.template.Rows()
}

// Locate returns every position where the template matches the page.
//
// The response surface is computed with normalized correlation coefficients
// (TM_CCOEFF_NORMED), which makes matches invariant to uniform scaling and
// offset of pixel intensity. A position is a match when its response is at
// least the Locator threshold. Each Coordinate is the top-left corner of the
// matched template window.
//
// Coordinates are returned in row-major order: ascending Row, then ascending
// Col within a row. A page without matches yields an empty slice and no error.
//
// Returns an error if gray is empty, has more than one channel, or is smaller
// than the template in either dimension.
func (l *Locator) Locate(gray gocv.Mat) ([]Coordinate, error) {
	if gray.Empty() {
		return nil, errors.New("page is empty")
	}
	if gray.Channels() != 1 {
		return nil, fmt.Errorf("page must be single-channel, got %d channels", gray.Channels())
	}
	if gray.Cols() < l.template.Cols() || gray.Rows() < l.template.Rows() {
		return nil, fmt.Errorf("page %dx%d is smaller than marker template %dx%d",
			gray.Cols(), gray.Rows(), l.template.Cols(), l.template.Rows())
	}

	response := gocv.NewMat()
	defer response.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(gray, l.template, &response, gocv.TmCcoeffNormed, mask)
	if response.Empty() {
		return nil, errors.New("template matching produced no response")
	}

	scores, err := response.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read match response: %w", err)
	}

	cols := response.Cols()
	coords := make([]Coordinate, 0)
	for i, score := range scores {
		if score >= l.threshold {
			coords = append(coords, Coordinate{Row: i / cols, Col: i % cols})
		}
	}

	return coords, nil
}
