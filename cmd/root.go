// Package cmd provides the command-line interface for meshfolio with
// configuration from multiple sources.
//
// Configuration precedence (highest to lowest):
//  1. Command-line flags (--config, --log-level, ...)
//  2. MESHFOLIO_CONFIG_FILE environment variable - custom config file path
//  3. Individual environment variables (MESHFOLIO_PREVIEW_SIZE, ...)
//  4. Configuration file (.meshfolio.yml)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshfolio/meshfolio/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meshfolio",
	Short: "Incremental 3D-model gallery pipeline",
	Long: `Meshfolio turns a directory of STL model files into a deployable static
gallery. Previews are re-rendered only when the model is newer than its
preview, so repeated runs do no redundant work.

Quick Start:
  meshfolio init                  Write a default .meshfolio.yml
  meshfolio refresh               Render stale previews, rebuild the catalog, publish
  meshfolio render                Render stale previews only
  meshfolio watch                 Re-render automatically on model changes

Collaborators:
  An executable named generate_catalog in the gallery directory replaces the
  built-in catalog page. An executable named publish is invoked after the
  catalog step; its exit status becomes the pipeline's publish outcome.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .meshfolio.yml, can also use MESHFOLIO_CONFIG_FILE env var)")
	registerLoggingFlags(rootCmd.PersistentFlags())
}

// initConfig initializes the configuration system. Missing or malformed
// config files degrade to defaults without failing.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("MESHFOLIO_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".meshfolio")
	}

	viper.SetEnvPrefix("MESHFOLIO")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the bound log flags.
func newLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: viper.GetString("log-format"),
		Output: os.Stderr,
	})
}

// targetDir resolves the optional positional directory argument, defaulting
// to the current working directory.
func targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
