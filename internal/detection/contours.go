package detection

import (
	"errors"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ironsheep/slicecrop/internal/imaging"
)

// ContourSet is an ordered list of closed polygons found in a binarized image.
//
// Polygons are reduced to their vertices: runs of collinear boundary pixels are
// collapsed into their end points, so an axis-aligned filled rectangle yields
// exactly four points.
type ContourSet struct {
	Polygons [][]image.Point
}

// Len returns the number of polygons in the set.
func (s ContourSet) Len() int {
	return len(s.Polygons)
}

// Binarize returns a strict binary mask of img: pixels whose gray intensity is
// greater than level become 255, all others 0. Color inputs are converted to
// grayscale first. The caller owns the returned Mat.
func Binarize(img gocv.Mat, level uint8) gocv.Mat {
	gray := imaging.ToGray(img)
	defer gray.Close()

	mask := gocv.NewMat()
	gocv.Threshold(gray, &mask, float32(level), 255, gocv.ThresholdBinary)
	return mask
}

// FindContours binarizes img at level and extracts every contour in the full
// nesting hierarchy (outer boundaries, holes, and objects inside holes).
//
// # Algorithm
//
//  1. Grayscale conversion (BGR luminance weights)
//  2. Binary threshold: gray > level → 255, else 0
//  3. Contour tracing with tree retrieval (RETR_TREE)
//  4. Simple chain approximation (CHAIN_APPROX_SIMPLE): horizontal, vertical
//     and diagonal segments are stored as their end points only
//
// An image with no foreground pixels yields an empty set.
func FindContours(img gocv.Mat, level uint8) (ContourSet, error) {
	if img.Empty() {
		return ContourSet{}, errors.New("image is empty")
	}

	mask := Binarize(img, level)
	defer mask.Close()

	contours := gocv.FindContours(mask, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	return ContourSet{Polygons: contours.ToPoints()}, nil
}

// Draw renders every polygon of the set onto dst as closed anti-aliased outlines.
//
// c is given in RGB; gocv maps it to the BGR order of dst. thickness is the
// stroke width in pixels.
func (s ContourSet) Draw(dst *gocv.Mat, c color.RGBA, thickness int) {
	if s.Len() == 0 {
		return
	}

	contours := gocv.NewPointsVectorFromPoints(s.Polygons)
	defer contours.Close()
	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	gocv.DrawContoursWithParams(dst, contours, -1, c, thickness, gocv.LineAA, hierarchy, math.MaxInt32, image.Point{})
}
