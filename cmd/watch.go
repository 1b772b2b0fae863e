package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshfolio/meshfolio/internal/config"
	"github.com/meshfolio/meshfolio/internal/pipeline"
	"github.com/meshfolio/meshfolio/internal/render"
	"github.com/meshfolio/meshfolio/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Re-render previews automatically when models change",
	Long: `Watch a gallery directory and re-run the render batch whenever model
files change. Rapid save bursts are debounced into a single batch. Watch mode
never runs the catalog or publish steps; use refresh for that.

Examples:
  meshfolio watch                 # Watch the current directory
  meshfolio watch ./models        # Watch a specific gallery`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dir := targetDir(args)
	logger := newLogger()
	out := cmd.OutOrStdout()

	runner := pipeline.NewBatchRunner(cfg, render.NewMeshRenderer(), logger)
	runner.Out = out

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runBatch := func() error {
		summary, err := runner.Run(ctx, dir)
		if err != nil {
			logger.Error(ctx, err, "batch failed", "dir", dir)
			return err
		}
		fmt.Fprintf(out, "📊 %d generated, %d failed, %d up to date\n",
			summary.Generated, summary.Failed, summary.Skipped)
		return nil
	}

	// Initial pass so the gallery is current before waiting for changes.
	if err := runBatch(); err != nil {
		return err
	}

	dirWatcher, err := watcher.New(time.Duration(cfg.Watch.DebounceMs) * time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer dirWatcher.Stop()

	dirWatcher.AddFilter(watcher.ExtFilter(cfg.Gallery.AssetExt))
	dirWatcher.AddFilter(watcher.NotHidden)
	dirWatcher.SetHandler(func(events []watcher.ChangeEvent) error {
		fmt.Fprintf(out, "📁 %d change(s) detected\n", len(events))
		return runBatch()
	})

	if err := dirWatcher.Watch(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	dirWatcher.Start(ctx)

	fmt.Fprintf(out, "👀 watching %s (Ctrl-C to stop)\n", dir)
	<-ctx.Done()

	return nil
}
