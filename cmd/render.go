package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshfolio/meshfolio/internal/config"
	"github.com/meshfolio/meshfolio/internal/pipeline"
	"github.com/meshfolio/meshfolio/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [directory]",
	Short: "Render stale previews without catalog or publish",
	Long: `Run only the render batch: regenerate previews for models that changed
since their last preview. Useful for local iteration before a refresh.

Examples:
  meshfolio render                # Render the current directory
  meshfolio render --force        # Re-render everything`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

var renderForce bool

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().BoolVar(&renderForce, "force", false, "Re-render all previews regardless of staleness")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	runner := pipeline.NewBatchRunner(cfg, render.NewMeshRenderer(), newLogger())
	runner.Out = cmd.OutOrStdout()
	runner.Force = renderForce

	summary, err := runner.Run(cmd.Context(), targetDir(args))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📊 %d generated, %d failed, %d up to date\n",
		summary.Generated, summary.Failed, summary.Skipped)

	return nil
}
