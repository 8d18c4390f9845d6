// Package workspace manages the folders the pipeline reads from and writes to.
//
// Output roots and their per-page subfolders are always recreated from scratch,
// so no artifact from an earlier run survives into the next one.
package workspace
