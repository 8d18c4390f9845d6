package boundary

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/ironsheep/slicecrop/internal/detection"
	"github.com/ironsheep/slicecrop/internal/grid"
	"github.com/ironsheep/slicecrop/internal/imaging"
	"github.com/ironsheep/slicecrop/internal/workspace"
)

// Annotator outlines the shapes of crop artifacts.
type Annotator struct {
	level     uint8
	color     color.RGBA
	thickness int
}

// NewAnnotator creates an Annotator that treats gray levels above level as
// foreground and strokes contours with c at the given thickness.
func NewAnnotator(level uint8, c color.RGBA, thickness int) *Annotator {
	if thickness < 1 {
		thickness = 1
	}
	return &Annotator{level: level, color: c, thickness: thickness}
}

// Failure is an artifact that could not be annotated.
type Failure struct {
	Path string
	Err  error
}

// Summary reports the outcome of a boundary pass.
type Summary struct {
	// Written counts annotated files.
	Written int

	// Failures lists artifacts skipped because of an error, in processing order.
	Failures []Failure
}

// Annotate loads the crop at src, draws every contour of its binarized form
// onto the color pixels and writes the result to destDir/name.
// It returns the number of contours drawn. A crop that cannot be decoded
// produces no output file.
func (a *Annotator) Annotate(src, destDir, name string) (int, error) {
	crop, err := imaging.LoadColor(src)
	if err != nil {
		return 0, err
	}
	defer crop.Close()

	contours, err := detection.FindContours(crop, a.level)
	if err != nil {
		return 0, fmt.Errorf("failed to find contours in %s: %w", src, err)
	}

	contours.Draw(&crop, a.color, a.thickness)

	if err := imaging.WritePNG(filepath.Join(destDir, name), crop); err != nil {
		return 0, err
	}
	return contours.Len(), nil
}

// AnnotateDir recreates boundaryRoot and mirrors every subfolder of cropRoot
// into it with annotated copies of the files it contains.
//
// Only failures to read cropRoot or create output folders are returned as an
// error; per-file failures are collected in the Summary.
func (a *Annotator) AnnotateDir(cropRoot, boundaryRoot string) (*Summary, error) {
	folders, err := workspace.Folders(cropRoot)
	if err != nil {
		return nil, err
	}
	if err := workspace.Recreate(boundaryRoot); err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, folder := range folders {
		paths := make([]string, 0, len(folder.Files))
		for _, name := range folder.Files {
			paths = append(paths, filepath.Join(folder.Path, name))
		}
		if err := a.annotateFolder(paths, filepath.Join(boundaryRoot, folder.Name), summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// AnnotateManifests recreates boundaryRoot and annotates the artifacts of each
// manifest into a subfolder named after the manifest's crop folder.
func (a *Annotator) AnnotateManifests(manifests []*grid.Manifest, boundaryRoot string) (*Summary, error) {
	if err := workspace.Recreate(boundaryRoot); err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		paths := make([]string, 0, len(m.Artifacts))
		for _, artifact := range m.Artifacts {
			paths = append(paths, artifact.Path)
		}
		if err := a.annotateFolder(paths, filepath.Join(boundaryRoot, filepath.Base(m.Folder)), summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (a *Annotator) annotateFolder(paths []string, dest string, summary *Summary) error {
	if err := workspace.Recreate(dest); err != nil {
		return err
	}
	for _, path := range paths {
		if _, err := a.Annotate(path, dest, filepath.Base(path)); err != nil {
			summary.Failures = append(summary.Failures, Failure{Path: path, Err: err})
			continue
		}
		summary.Written++
	}
	return nil
}
