package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTargetDir(t *testing.T) {
	assert.Equal(t, ".", targetDir(nil))
	assert.Equal(t, "models", targetDir([]string{"models"}))
}

func TestVersionCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version", "--format", "json"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		versionFormat = "text"
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), `"go_version"`)
	assert.Contains(t, out.String(), `"version"`)
}

func TestInitCommand_WritesConfig(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init", dir})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		initForce = false
	})

	require.NoError(t, rootCmd.Execute())

	path := filepath.Join(dir, ".meshfolio.yml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Contains(t, parsed, "gallery")
	assert.Contains(t, parsed, "preview")

	// Second run without --force must refuse to overwrite.
	rootCmd.SetArgs([]string{"init", dir})
	assert.Error(t, rootCmd.Execute())
}
