// Package pipeline drives a slicing run: locate the markers of every source
// page, crop the page into its cells and annotate the crops with their contours.
//
// Pages are processed one after another in name order. A page that cannot be
// decoded or has degenerate marker geometry is skipped; a page stopped by a
// crop error keeps the artifacts written before the failure. Both are logged
// and recorded in the Report while the run moves on to the next page.
package pipeline
