package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meshfolio/meshfolio/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a default .meshfolio.yml",
	Long: `Write a default configuration file to the target directory. Existing
files are preserved unless --force is given.

Examples:
  meshfolio init                  # Write ./.meshfolio.yml
  meshfolio init ./models --force # Overwrite an existing config`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

const configHeader = `# meshfolio configuration
# Values can be overridden with MESHFOLIO_* environment variables,
# e.g. MESHFOLIO_PREVIEW_SIZE=256.
`

func runInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(targetDir(args), ".meshfolio.yml")

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to marshal default configuration: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ wrote %s\n", path)
	return nil
}
