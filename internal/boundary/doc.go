// Package boundary produces contour-annotated copies of crop artifacts.
//
// Each crop is binarized (gray > level), its full contour tree is traced and
// every contour is stroked onto the color crop with anti-aliased lines. The
// annotated file keeps the crop's name and lands in a folder that mirrors the
// crop folder under the boundary root.
package boundary
