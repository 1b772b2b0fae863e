// Package pipeline orchestrates the gallery refresh: the sequential render
// batch, then the catalog and publish collaborator steps. Assets are
// processed strictly one at a time; the renderer and the diagnostic stream
// are shared resources that must not be contended.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/meshfolio/meshfolio/internal/assets"
	"github.com/meshfolio/meshfolio/internal/config"
	"github.com/meshfolio/meshfolio/internal/diagnostics"
	"github.com/meshfolio/meshfolio/internal/logging"
	"github.com/meshfolio/meshfolio/internal/preview"
	"github.com/meshfolio/meshfolio/internal/render"
)

// BatchSummary aggregates one run's per-asset outcomes. Counts always sum to
// the number of enumerated assets.
type BatchSummary struct {
	Generated int
	Failed    int
	Skipped   int
	// Results holds every outcome in processing order.
	Results []preview.Result
}

// Total returns the number of assets processed.
func (s BatchSummary) Total() int {
	return s.Generated + s.Failed + s.Skipped
}

// BatchRunner renders stale previews for every asset in a directory. One
// asset's failure never aborts the rest of the batch.
type BatchRunner struct {
	cfg      *config.Config
	renderer render.Renderer
	logger   logging.Logger
	// Out receives the per-asset status lines. Defaults to stdout.
	Out io.Writer
	// Force re-renders every asset regardless of staleness.
	Force bool
}

// NewBatchRunner creates a batch runner.
func NewBatchRunner(cfg *config.Config, renderer render.Renderer, logger logging.Logger) *BatchRunner {
	return &BatchRunner{
		cfg:      cfg,
		renderer: renderer,
		logger:   logger.WithComponent("batch"),
		Out:      os.Stdout,
	}
}

// Run processes every matching asset in dir in sorted order and returns the
// summary. Zero assets is success with an empty summary. The returned error
// is reserved for setup failures (unreadable directory, unwritable log);
// per-asset failures land in the summary.
func (b *BatchRunner) Run(ctx context.Context, dir string) (BatchSummary, error) {
	list, err := assets.Scan(dir, b.cfg.Gallery.AssetExt)
	if err != nil {
		return BatchSummary{}, err
	}

	sink, err := diagnostics.NewSink(filepath.Join(dir, b.cfg.Gallery.LogFile))
	if err != nil {
		return BatchSummary{}, err
	}
	defer sink.Close()

	processor := preview.NewProcessor(b.renderer, sink, preview.Options{
		Size:  b.cfg.Preview.Size,
		Ext:   b.cfg.Preview.Ext,
		Force: b.Force,
	})

	b.logger.Debug(ctx, "batch started", "dir", dir, "assets", len(list), "log", sink.Path())

	var summary BatchSummary
	for _, asset := range list {
		result := processor.Process(ctx, asset)
		summary.Results = append(summary.Results, result)

		switch result.Outcome {
		case preview.OutcomeGenerated:
			summary.Generated++
			fmt.Fprintf(b.Out, "✅ %s\n", asset.Base())
		case preview.OutcomeFailed:
			summary.Failed++
			fmt.Fprintf(b.Out, "❌ %s: %v\n", asset.Base(), result.Err)
			b.logger.Warn(ctx, result.Err, "asset failed", "asset", asset.Base())
		case preview.OutcomeSkipped:
			summary.Skipped++
			fmt.Fprintf(b.Out, "⏭️  %s (up to date)\n", asset.Base())
		}
	}

	return summary, nil
}
