// Package preview drives the renderer for a single asset and classifies the
// outcome. All failure modes are captured into the returned Result; nothing
// escapes to abort the surrounding batch.
package preview

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/meshfolio/meshfolio/internal/assets"
	"github.com/meshfolio/meshfolio/internal/diagnostics"
	"github.com/meshfolio/meshfolio/internal/errors"
	"github.com/meshfolio/meshfolio/internal/render"
)

// Outcome classifies the processing of one asset.
type Outcome int

const (
	OutcomeGenerated Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeGenerated:
		return "generated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the tagged per-asset outcome, produced exactly once per asset per
// run.
type Result struct {
	Asset       assets.Asset
	Outcome     Outcome
	PreviewPath string
	// Err is set only for OutcomeFailed.
	Err error
}

// Options configures preview generation.
type Options struct {
	// Size is the square output dimension in pixels. Fixed per run; not
	// derived from the source model.
	Size int
	// Ext is the preview file extension.
	Ext string
	// Force bypasses the staleness check and re-renders everything.
	Force bool
}

// Processor generates one preview per asset under the diagnostic sink.
type Processor struct {
	renderer render.Renderer
	sink     *diagnostics.Sink
	opts     Options
}

// NewProcessor creates a processor bound to one run's diagnostic sink.
func NewProcessor(renderer render.Renderer, sink *diagnostics.Sink, opts Options) *Processor {
	return &Processor{renderer: renderer, sink: sink, opts: opts}
}

// Process renders the asset's preview if it is stale. Side effects are
// confined to at most one preview file write and the sink's log lines. A
// Failed outcome never leaves a file at the preview path: the write is
// temp-then-rename so a crash mid-write cannot be mistaken for a fresh
// preview by a later staleness check.
func (p *Processor) Process(ctx context.Context, asset assets.Asset) Result {
	previewPath := asset.PreviewPath(p.opts.Ext)

	if !p.opts.Force && !assets.IsStale(asset, previewPath) {
		return Result{Asset: asset, Outcome: OutcomeSkipped, PreviewPath: previewPath}
	}

	err := p.sink.Capture(asset.Base(), func() error {
		img, err := p.renderer.Render(ctx, asset.Path, p.opts.Size)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeRender, "render_failed", "renderer failed").
				WithAsset(asset.Base())
		}
		if isBlank(img) {
			return errors.NewRenderError("blank_output", "rendered image has no content").
				WithAsset(asset.Base())
		}
		return writeAtomic(previewPath, img)
	})
	if err != nil {
		return Result{Asset: asset, Outcome: OutcomeFailed, PreviewPath: previewPath, Err: err}
	}

	return Result{Asset: asset, Outcome: OutcomeGenerated, PreviewPath: previewPath}
}

// isBlank reports whether every pixel is identical. A degenerate render must
// be treated as failure, not silently persisted as an empty preview.
func isBlank(img image.Image) bool {
	bounds := img.Bounds()
	if bounds.Empty() {
		return true
	}

	r0, g0, b0, a0 := img.At(bounds.Min.X, bounds.Min.Y).RGBA()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if r != r0 || g != g0 || b != b0 || a != a0 {
				return false
			}
		}
	}

	return true
}

// writeAtomic encodes the image to a temp file beside the target and renames
// it into place.
func writeAtomic(path string, img image.Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "preview_tmp", "failed to create temp preview")
	}
	tmpPath := tmp.Name()

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrorTypeIO, "preview_encode", "failed to encode preview")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrorTypeIO, "preview_close", "failed to flush preview")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrorTypeIO, "preview_rename", "failed to move preview into place")
	}

	return nil
}
