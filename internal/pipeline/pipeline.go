package pipeline

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ironsheep/slicecrop/internal/boundary"
	"github.com/ironsheep/slicecrop/internal/config"
	"github.com/ironsheep/slicecrop/internal/detection"
	"github.com/ironsheep/slicecrop/internal/grid"
	"github.com/ironsheep/slicecrop/internal/imaging"
	"github.com/ironsheep/slicecrop/internal/workspace"
)

// ErrDuplicateStem reports a source page whose crop folder name is already
// taken by an earlier page of the same run.
var ErrDuplicateStem = errors.New("page folder already used by another source")

// PageFailure is a source page that was skipped or only partly cropped.
type PageFailure struct {
	Source string
	Err    error
}

// Report summarizes one run.
type Report struct {
	// RunID identifies the run in log output.
	RunID string

	// Pages holds one manifest per page that produced a crop folder, including
	// pages stopped by a crop error.
	Pages []*grid.Manifest

	// Failures lists the pages that failed, in processing order.
	Failures []PageFailure

	// Annotated counts boundary files written.
	Annotated int

	// AnnotationFailures lists artifacts the boundary pass skipped.
	AnnotationFailures []boundary.Failure
}

// Artifacts returns the total number of retained crops.
func (r *Report) Artifacts() int {
	n := 0
	for _, m := range r.Pages {
		n += len(m.Artifacts)
	}
	return n
}

// Pipeline crops marked pages and annotates the crops.
type Pipeline struct {
	cfg       *config.Config
	locator   *detection.Locator
	cropper   *grid.Cropper
	annotator *boundary.Annotator
}

// New loads the marker template named by cfg and prepares every stage.
// The caller must Close the Pipeline.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	locator, err := detection.LoadLocator(cfg.TemplatePath, cfg.MatchThreshold)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		locator:   locator,
		cropper:   grid.NewCropper(grid.Margins{Width: cfg.MarginWidth, Height: cfg.MarginHeight}),
		annotator: newAnnotator(cfg),
	}, nil
}

func newAnnotator(cfg *config.Config) *boundary.Annotator {
	return boundary.NewAnnotator(uint8(cfg.BinaryThreshold), cfg.ContourRGBA(), cfg.ContourThickness)
}

// Close releases the marker template.
func (p *Pipeline) Close() error {
	return p.locator.Close()
}

// Run crops every source page and then annotates the crops that were kept.
//
// Per-page and per-artifact failures are logged and recorded in the Report.
// An error is returned only when the input folder cannot be listed or an
// output root cannot be recreated.
func (p *Pipeline) Run() (*Report, error) {
	report, err := p.Crop()
	if err != nil {
		return report, err
	}

	summary, err := p.annotator.AnnotateManifests(report.Pages, p.cfg.BoundaryDir)
	if summary != nil {
		report.Annotated = summary.Written
		report.AnnotationFailures = summary.Failures
	}
	if err != nil {
		return report, fmt.Errorf("boundary pass failed: %w", err)
	}

	logAnnotation(report)
	return report, nil
}

// Crop runs the crop stage alone. The crop root is recreated empty first.
func (p *Pipeline) Crop() (*Report, error) {
	report := &Report{RunID: uuid.NewString()}

	sources, err := workspace.Sources(p.cfg.InputDir, p.cfg.SourceSuffix)
	if err != nil {
		return report, err
	}
	if err := workspace.Recreate(p.cfg.CropDir); err != nil {
		return report, err
	}

	log.Printf("[%s] cropping %d page(s) from %s", report.RunID, len(sources), p.cfg.InputDir)

	owners := make(map[string]string, len(sources))
	for _, source := range sources {
		stem := workspace.Stem(source)
		if owner, taken := owners[stem]; taken {
			err := fmt.Errorf("%w: %s maps to %s, cropped from %s", ErrDuplicateStem, source, stem, owner)
			log.Printf("[%s] %s: %v", report.RunID, source, err)
			report.Failures = append(report.Failures, PageFailure{Source: source, Err: err})
			continue
		}
		owners[stem] = source

		manifest, err := p.CropPage(source)
		if manifest != nil {
			report.Pages = append(report.Pages, manifest)
			p.debugf("[%s] %s: cell %dx%d, %d crop(s) kept, %d blank",
				report.RunID, source, manifest.Dimensions.Width, manifest.Dimensions.Height,
				len(manifest.Artifacts), manifest.Discarded)
		}
		if err != nil {
			log.Printf("[%s] %s: %v", report.RunID, source, err)
			report.Failures = append(report.Failures, PageFailure{Source: source, Err: err})
		}
	}

	log.Printf("[%s] wrote %d crop(s) for %d page(s), %d page failure(s)",
		report.RunID, report.Artifacts(), len(report.Pages), len(report.Failures))
	return report, nil
}

// CropPage locates the markers on one page and crops it into the crop root.
func (p *Pipeline) CropPage(source string) (*grid.Manifest, error) {
	gray, err := imaging.LoadGray(source)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	coords, err := p.locator.Locate(gray)
	if err != nil {
		return nil, err
	}
	p.debugf("%s: %d marker(s)", source, len(coords))

	return p.cropper.CropPage(source, coords, p.cfg.CropDir)
}

func logAnnotation(report *Report) {
	for _, f := range report.AnnotationFailures {
		log.Printf("[%s] %s: %v", report.RunID, f.Path, f.Err)
	}
	log.Printf("[%s] wrote %d boundary file(s), %d failure(s)",
		report.RunID, report.Annotated, len(report.AnnotationFailures))
}

func (p *Pipeline) debugf(format string, args ...any) {
	if p.cfg.Debug() {
		log.Printf(format, args...)
	}
}

// AnnotateExisting runs the boundary stage over an existing crop root without
// loading the marker template.
func AnnotateExisting(cfg *config.Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString()}
	summary, err := newAnnotator(cfg).AnnotateDir(cfg.CropDir, cfg.BoundaryDir)
	if summary != nil {
		report.Annotated = summary.Written
		report.AnnotationFailures = summary.Failures
	}
	if err != nil {
		return report, fmt.Errorf("boundary pass failed: %w", err)
	}

	logAnnotation(report)
	return report, nil
}
