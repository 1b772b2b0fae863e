// Package config provides configuration management for meshfolio using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files (.meshfolio.yml), environment
// variable overrides with the MESHFOLIO_ prefix, and validation. It covers
// preview rendering settings, asset discovery, collaborator executables, and
// watch-mode behavior.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/meshfolio/meshfolio/internal/errors"
)

type Config struct {
	Gallery GalleryConfig `yaml:"gallery" mapstructure:"gallery"`
	Preview PreviewConfig `yaml:"preview" mapstructure:"preview"`
	Publish PublishConfig `yaml:"publish" mapstructure:"publish"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
}

type GalleryConfig struct {
	// AssetExt is the file extension of model files, matched
	// case-insensitively and non-recursively in the target directory.
	AssetExt string `yaml:"asset_ext" mapstructure:"asset_ext"`
	// CatalogCommand is the optional catalog generator executable, relative
	// to the target directory. When absent, the built-in generator runs.
	CatalogCommand string `yaml:"catalog_command" mapstructure:"catalog_command"`
	// LogFile is the per-run diagnostic log, truncated at batch start.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

type PreviewConfig struct {
	// Size is the square preview dimension in pixels.
	Size int    `yaml:"size" mapstructure:"size"`
	Ext  string `yaml:"ext" mapstructure:"ext"`
}

type PublishConfig struct {
	// Command is the optional publish executable, relative to the target
	// directory. Exit status 0 means published.
	Command string `yaml:"command" mapstructure:"command"`
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Default returns the built-in configuration. It is the single source of
// defaults for both viper loading and `meshfolio init`.
func Default() *Config {
	return &Config{
		Gallery: GalleryConfig{
			AssetExt:       ".stl",
			CatalogCommand: "generate_catalog",
			LogFile:        "render.log",
		},
		Preview: PreviewConfig{
			Size: 512,
			Ext:  ".png",
		},
		Publish: PublishConfig{
			Command: "publish",
			Enabled: true,
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
	}
}

// Load reads configuration from viper (flags, environment, config file) with
// defaults applied, then validates it.
func Load() (*Config, error) {
	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "config_decode", "failed to decode configuration")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	def := Default()
	viper.SetDefault("gallery.asset_ext", def.Gallery.AssetExt)
	viper.SetDefault("gallery.catalog_command", def.Gallery.CatalogCommand)
	viper.SetDefault("gallery.log_file", def.Gallery.LogFile)
	viper.SetDefault("preview.size", def.Preview.Size)
	viper.SetDefault("preview.ext", def.Preview.Ext)
	viper.SetDefault("publish.command", def.Publish.Command)
	viper.SetDefault("publish.enabled", def.Publish.Enabled)
	viper.SetDefault("watch.debounce_ms", def.Watch.DebounceMs)
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Preview.Size < 16 || c.Preview.Size > 4096 {
		return errors.NewConfigError("invalid_preview_size",
			fmt.Sprintf("preview size %d out of range [16, 4096]", c.Preview.Size))
	}
	if !strings.HasPrefix(c.Gallery.AssetExt, ".") {
		return errors.NewConfigError("invalid_asset_ext",
			fmt.Sprintf("asset extension %q must start with a dot", c.Gallery.AssetExt))
	}
	if !strings.HasPrefix(c.Preview.Ext, ".") {
		return errors.NewConfigError("invalid_preview_ext",
			fmt.Sprintf("preview extension %q must start with a dot", c.Preview.Ext))
	}
	if strings.EqualFold(c.Gallery.AssetExt, c.Preview.Ext) {
		return errors.NewConfigError("ext_collision",
			"asset and preview extensions must differ")
	}
	if c.Gallery.LogFile == "" {
		return errors.NewConfigError("missing_log_file", "gallery log file must be set")
	}
	if strings.ContainsAny(c.Gallery.LogFile, "/\\") {
		return errors.NewConfigError("invalid_log_file",
			"gallery log file must be a bare file name")
	}
	if c.Watch.DebounceMs < 0 {
		return errors.NewConfigError("invalid_debounce",
			fmt.Sprintf("watch debounce %dms must not be negative", c.Watch.DebounceMs))
	}

	return nil
}
