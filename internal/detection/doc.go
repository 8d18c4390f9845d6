// Package detection locates reference markers and object boundaries in scanned
// slice images.
//
// Both detectors delegate the numeric work to OpenCV through gocv:
//
//   - Locator: normalized cross-correlation template matching of a fixed marker
//     against a grayscale page, followed by a single response threshold
//   - FindContours: binary threshold followed by hierarchical contour tracing
//     with vertex-only polygon approximation
//
// # Coordinate System
//
// Marker positions are reported as Coordinate values in matrix indexing
// (Row, Col), not screen (X, Y). Downstream cropping indexes images as
// [row, column], so the distinction is kept all the way through. Contour
// polygons use image.Point, where X is the column and Y is the row.
//
// # Match Ordering
//
// Locate enumerates the response surface row by row, so coordinates come out
// sorted by Row and then Col. Callers should not depend on this order to infer
// grid geometry; see package grid.
//
// # Limitations
//
// The marker is matched at a single scale and orientation. Every window whose
// response clears the threshold is reported, so a marker that matches at
// several neighbouring offsets produces several coordinates.
package detection
