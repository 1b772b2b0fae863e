package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshfolio/meshfolio/internal/config"
	"github.com/meshfolio/meshfolio/internal/pipeline"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [directory]",
	Short: "Render stale previews, rebuild the catalog, and publish",
	Long: `Run the full gallery pipeline against a directory (default: current
directory): render previews for models that changed since their last preview,
rebuild the catalog page, and run the publish step if one is configured.

Batch failures are reported per model and never stop the pipeline. Only a
failing publish step makes the command exit non-zero.

Examples:
  meshfolio refresh               # Refresh the current directory
  meshfolio refresh ./models      # Refresh a specific gallery
  meshfolio refresh --force       # Re-render everything`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefresh,
}

var refreshForce bool

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "Re-render all previews regardless of staleness")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	orchestrator := pipeline.NewOrchestrator(cfg, newLogger())
	orchestrator.Out = cmd.OutOrStdout()
	orchestrator.Force = refreshForce

	result, err := orchestrator.Run(cmd.Context(), targetDir(args))
	if err != nil {
		return err
	}

	return result.Err()
}
