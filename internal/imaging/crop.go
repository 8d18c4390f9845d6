package imaging

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

var (
	// ErrOutOfBounds reports a region that is not fully inside the source image.
	ErrOutOfBounds = errors.New("region outside image bounds")

	// ErrEmptyRegion reports a region with no pixels.
	ErrEmptyRegion = errors.New("empty region")
)

// Region returns a view of src limited to rect.
//
// rect uses image conventions: Min is inclusive, Max is exclusive, X is the
// column and Y is the row. The view shares pixel data with src and must be
// closed by the caller; it must not outlive src.
func Region(src gocv.Mat, rect image.Rectangle) (gocv.Mat, error) {
	bounds := image.Rect(0, 0, src.Cols(), src.Rows())

	if rect.Min.X >= rect.Max.X || rect.Min.Y >= rect.Max.Y {
		return gocv.NewMat(), fmt.Errorf("%w: (%d,%d)-(%d,%d)",
			ErrEmptyRegion, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
	}
	if !rect.In(bounds) {
		return gocv.NewMat(), fmt.Errorf("%w: crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			ErrOutOfBounds, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	return src.Region(rect), nil
}

// WritePNG encodes m as a PNG file at path.
func WritePNG(path string, m gocv.Mat) error {
	if m.Empty() {
		return fmt.Errorf("failed to write %s: empty image", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return fmt.Errorf("failed to write %s: expected a .png path", path)
	}
	if ok := gocv.IMWrite(path, m); !ok {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}
