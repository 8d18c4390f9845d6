// Package grid reconstructs the implicit cell grid of a scanned page from its
// marker positions and cuts the page into one crop per cell.
//
// # Geometry Inference
//
// Every marker sits at the top-left corner of its cell. The cell width is the
// smallest positive column step between two markers on the same row, and the
// cell height is the smallest positive row step between two markers in the
// same column. Inference only depends on the set of coordinates, never on the
// order in which the detector reported them. At least one row and one column
// must each hold two markers.
//
// # Crop Rectangles
//
// For a marker at (row, col) and a cell of Width x Height, the crop covers
//
//	rows    [row + Margins.Height, row + Height - Margins.Height)
//	columns [col + Margins.Width,  col + Width  - Margins.Width)
//
// so each crop is exactly (Width - 2*Margins.Width) x (Height - 2*Margins.Height)
// pixels and never contains the marker glyph.
//
// # Output
//
// Crops are written as 1.png, 2.png, ... in marker order. A crop whose pixels
// are all zero is deleted right after writing and its number is reused, so the
// retained artifacts are always densely numbered.
//
// # Error Handling
//
//   - ErrDegenerateGeometry: too few markers or no usable row/column spacing;
//     nothing is written for the page
//   - ErrCropOutOfBounds, ErrWriteFailure: wrapped in a *CropError; the page
//     stops at the failing marker and keeps what was already written
package grid
