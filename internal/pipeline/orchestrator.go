package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/meshfolio/meshfolio/internal/catalog"
	"github.com/meshfolio/meshfolio/internal/config"
	"github.com/meshfolio/meshfolio/internal/errors"
	"github.com/meshfolio/meshfolio/internal/logging"
	"github.com/meshfolio/meshfolio/internal/render"
)

// Result is the terminal outcome of one pipeline invocation.
type Result struct {
	Batch            BatchSummary
	CatalogRan       bool
	PublishAttempted bool
	PublishSucceeded bool
}

// Err maps the result to the pipeline's own exit outcome: only an attempted
// and failed publish is fatal. Batch failures and catalog failures were
// already reported on the way through.
func (r Result) Err() error {
	if r.PublishAttempted && !r.PublishSucceeded {
		return errors.NewPublishError("publish_failed", "publish step failed; rerun after resolving")
	}
	return nil
}

// Orchestrator chains the render batch, catalog generation, and publish into
// a single idempotent pass: Batching, then catalog or skip, then publish or
// skip. Batch failures are reported, never fatal; the orchestrator does not
// retry anything.
type Orchestrator struct {
	cfg    *config.Config
	logger logging.Logger
	batch  *BatchRunner
	// Out receives stage status lines. Defaults to stdout.
	Out io.Writer
	// Catalog and Publish override the default collaborator discovery,
	// primarily for tests. Nil means discover per directory.
	Catalog Step
	Publish Step
	// Force is forwarded to the batch runner.
	Force bool
}

// NewOrchestrator creates a pipeline orchestrator with the built-in renderer.
func NewOrchestrator(cfg *config.Config, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		logger: logger.WithComponent("pipeline"),
		batch:  NewBatchRunner(cfg, render.NewMeshRenderer(), logger),
		Out:    os.Stdout,
	}
}

// Run executes the full pipeline for dir. The returned error is reserved for
// setup failures; collaborator outcomes are reported in the Result.
func (o *Orchestrator) Run(ctx context.Context, dir string) (Result, error) {
	start := time.Now()

	o.batch.Force = o.Force
	o.batch.Out = o.Out
	summary, err := o.batch.Run(ctx, dir)
	if err != nil {
		return Result{}, err
	}
	fmt.Fprintf(o.Out, "📊 %d generated, %d failed, %d up to date\n",
		summary.Generated, summary.Failed, summary.Skipped)

	result := Result{Batch: summary}

	cat := o.Catalog
	if cat == nil {
		cat = o.defaultCatalogStep(dir)
	}
	if cat != nil && cat.Available() {
		result.CatalogRan = true
		if err := cat.Run(ctx); err != nil {
			// Non-fatal: catalog trouble must not block publish.
			o.logger.Warn(ctx, err, "catalog step failed", "dir", dir)
			fmt.Fprintf(o.Out, "⚠️  catalog step failed: %v\n", err)
		} else {
			fmt.Fprintln(o.Out, "📄 catalog generated")
		}
	} else {
		fmt.Fprintln(o.Out, "⏭️  catalog step skipped")
	}

	pub := o.Publish
	if pub == nil {
		pub = o.defaultPublishStep(dir)
	}
	if pub != nil && pub.Available() {
		result.PublishAttempted = true
		if err := pub.Run(ctx); err != nil {
			o.logger.Error(ctx, err, "publish failed", "dir", dir)
			fmt.Fprintf(o.Out, "❌ publish failed: %v\n", err)
		} else {
			result.PublishSucceeded = true
			fmt.Fprintln(o.Out, "🚀 published")
		}
	} else {
		fmt.Fprintln(o.Out, "⏭️  publish skipped (not configured)")
	}

	o.logger.Info(ctx, "pipeline finished",
		"dir", dir,
		"generated", summary.Generated,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"catalog_ran", result.CatalogRan,
		"publish_attempted", result.PublishAttempted,
		"publish_succeeded", result.PublishSucceeded,
		"elapsed", time.Since(start).String(),
	)

	return result, nil
}

// defaultCatalogStep prefers the external generate_catalog executable and
// falls back to the built-in generator.
func (o *Orchestrator) defaultCatalogStep(dir string) Step {
	external := NewExecStep("catalog", filepath.Join(dir, o.cfg.Gallery.CatalogCommand), dir)
	if external.Available() {
		return external
	}
	return catalog.NewGenerator(dir, o.cfg.Gallery.AssetExt, o.cfg.Preview.Ext)
}

// defaultPublishStep returns the publish executable step, or nil when
// publishing is disabled.
func (o *Orchestrator) defaultPublishStep(dir string) Step {
	if !o.cfg.Publish.Enabled {
		return nil
	}
	return NewExecStep("publish", filepath.Join(dir, o.cfg.Publish.Command), dir)
}
