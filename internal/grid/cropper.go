package grid

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/ironsheep/slicecrop/internal/detection"
	"github.com/ironsheep/slicecrop/internal/imaging"
	"github.com/ironsheep/slicecrop/internal/workspace"
)

// Artifact is a persisted, non-blank crop.
type Artifact struct {
	// Index is the artifact number; the file is named "<Index>.png".
	Index int `json:"index"`

	// Path is the artifact file path.
	Path string `json:"path"`

	// Coordinate is the marker that produced the crop.
	Coordinate detection.Coordinate `json:"coordinate"`

	// Rect is the cropped region of the page (X = column, Y = row, Max exclusive).
	Rect image.Rectangle `json:"rect"`
}

// Manifest records what the cropper produced for one source page.
type Manifest struct {
	// Source is the page image path.
	Source string `json:"source"`

	// Folder is the page subfolder holding the artifacts.
	Folder string `json:"folder"`

	// Dimensions is the inferred cell size.
	Dimensions Dimensions `json:"dimensions"`

	// Artifacts are the retained crops in marker order, numbered 1..len.
	Artifacts []Artifact `json:"artifacts"`

	// Discarded counts crops deleted because every pixel was zero.
	Discarded int `json:"discarded"`
}

// Cropper partitions page images into per-cell crop artifacts.
type Cropper struct {
	margins Margins

	// write persists one crop as PNG.
	write func(path string, m gocv.Mat) error
}

// NewCropper creates a Cropper that trims m from every side of each cell.
func NewCropper(m Margins) *Cropper {
	return &Cropper{margins: m, write: imaging.WritePNG}
}

// Margins returns the margins applied to every cell.
func (c *Cropper) Margins() Margins {
	return c.margins
}

// CropPage crops the page at source into numbered PNG artifacts under
// cropRoot/<stem>, where stem is the source file name up to its first dot.
//
// The cell size is inferred from coords before anything is written; degenerate
// geometry returns an error wrapping ErrDegenerateGeometry and a nil Manifest.
// The page is then decoded in color from source and the page subfolder is
// recreated empty.
//
// For every coordinate, in order, the cell rectangle is extracted and written
// as "<n>.png". The artifact is re-read as grayscale; when every pixel is zero
// it is deleted and n is reused for the next crop, so retained artifacts are
// numbered 1..k without gaps.
//
// The first crop that cannot be extracted or written stops the page: CropPage
// returns the Manifest of the artifacts produced so far together with a
// *CropError.
func (c *Cropper) CropPage(source string, coords []detection.Coordinate, cropRoot string) (*Manifest, error) {
	dims, err := InferDimensions(coords)
	if err != nil {
		return nil, err
	}
	if err := dims.Validate(c.margins); err != nil {
		return nil, err
	}

	page, err := imaging.LoadColor(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	defer page.Close()

	folder := filepath.Join(cropRoot, workspace.Stem(source))
	if err := workspace.Recreate(folder); err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Source:     source,
		Folder:     folder,
		Dimensions: dims,
		Artifacts:  make([]Artifact, 0, len(coords)),
	}

	index := 1
	for _, coord := range coords {
		rect := dims.CellRect(coord, c.margins)
		path := filepath.Join(folder, strconv.Itoa(index)+".png")

		kept, err := c.persist(page, rect, path)
		if err != nil {
			return manifest, &CropError{Index: index, Coordinate: coord, Err: err}
		}
		if !kept {
			manifest.Discarded++
			continue
		}

		manifest.Artifacts = append(manifest.Artifacts, Artifact{
			Index:      index,
			Path:       path,
			Coordinate: coord,
			Rect:       rect,
		})
		index++
	}

	return manifest, nil
}

// persist writes the rect of page to path and deletes it again if it is blank.
// It reports whether the artifact was kept.
func (c *Cropper) persist(page gocv.Mat, rect image.Rectangle, path string) (bool, error) {
	region, err := imaging.Region(page, rect)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrCropOutOfBounds, err)
	}
	defer region.Close()

	if err := c.write(path, region); err != nil {
		return false, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	blank, err := imaging.IsBlank(path)
	if err != nil {
		return false, fmt.Errorf("%w: failed to re-read %s: %w", ErrWriteFailure, path, err)
	}
	if !blank {
		return true, nil
	}

	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("%w: failed to delete blank crop: %w", ErrWriteFailure, err)
	}
	return false, nil
}
