package grid

import (
	"errors"
	"fmt"

	"github.com/ironsheep/slicecrop/internal/detection"
)

var (
	// ErrDegenerateGeometry reports marker coordinates from which no positive
	// cell size can be inferred.
	ErrDegenerateGeometry = errors.New("degenerate marker geometry")

	// ErrCropOutOfBounds reports a cell rectangle that does not fit inside the page.
	ErrCropOutOfBounds = errors.New("crop out of bounds")

	// ErrWriteFailure reports a crop artifact that could not be persisted or
	// re-read for the blank check.
	ErrWriteFailure = errors.New("crop write failure")
)

// CropError describes the crop that stopped a page. It unwraps to
// ErrCropOutOfBounds or ErrWriteFailure and to the underlying cause.
type CropError struct {
	// Index is the artifact number that was being produced.
	Index int

	// Coordinate is the marker whose cell failed.
	Coordinate detection.Coordinate

	Err error
}

func (e *CropError) Error() string {
	return fmt.Sprintf("crop %d at marker %s: %v", e.Index, e.Coordinate, e.Err)
}

func (e *CropError) Unwrap() error {
	return e.Err
}
