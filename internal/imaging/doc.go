// Package imaging provides the raster I/O used by the slice cropper.
//
// Files are decoded with github.com/disintegration/imaging (plus the WebP decoder
// from golang.org/x/image) and handed to OpenCV as gocv.Mat values, so that the
// rest of the pipeline can rely on typed decode failures instead of OpenCV's
// silent empty matrices.
//
// # Coordinate System
//
// Matrices are indexed as [row, column]. Regions are expressed as
// image.Rectangle values where X is the column and Y is the row:
//   - Min is inclusive (top-left)
//   - Max is exclusive (bottom-right)
//
// # Channel Layout
//
// Color matrices are 3-channel BGR, the native OpenCV order. Grayscale matrices
// hold one intensity byte per pixel. Every function that changes channel depth
// returns a fresh matrix; inputs are never modified.
//
// # Ownership
//
// Every gocv.Mat returned by this package is owned by the caller and must be
// closed. Views returned by Region share memory with their source and must not
// outlive it.
//
// # Error Handling
//
// Functions return errors for:
//   - Files that cannot be opened
//   - Files that cannot be decoded (wrapping ErrDecodeFailure)
//   - Regions outside the image (wrapping ErrOutOfBounds) or with no area
//     (wrapping ErrEmptyRegion)
//   - Encoding failures during PNG output
package imaging
