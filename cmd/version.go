package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshfolio/meshfolio/internal/version"
)

var versionFormat string

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for meshfolio.

Examples:
  meshfolio version               # Show version summary
  meshfolio version --format json # Output as JSON`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()

	switch versionFormat {
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "text":
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
	}

	return nil
}
