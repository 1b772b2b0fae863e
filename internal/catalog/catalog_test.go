package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGallery(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.stl"), []byte("solid"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.png"), []byte("png-bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "y.stl"), []byte("solid"), 0o644))
	return dir
}

func TestGenerator_Entries(t *testing.T) {
	dir := setupGallery(t)
	gen := NewGenerator(dir, ".stl", ".png")

	entries, err := gen.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "x", entries[0].Name)
	assert.True(t, entries[0].HasPreview)
	assert.Equal(t, "x.png", entries[0].PreviewFile)
	assert.Equal(t, int64(len("png-bytes")), entries[0].SizeBytes)

	assert.Equal(t, "y", entries[1].Name)
	assert.False(t, entries[1].HasPreview)
}

func TestGenerator_GeneratePage(t *testing.T) {
	dir := setupGallery(t)
	gen := NewGenerator(dir, ".stl", ".png")

	require.NoError(t, gen.Generate())

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, `<img src="x.png"`)
	assert.Contains(t, page, `href="x.stl"`)
	assert.Contains(t, page, `href="y.stl"`)
	assert.Contains(t, page, "no preview")
	assert.Contains(t, page, "2 models")
}

func TestGenerator_EmptyGallery(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir, ".stl", ".png")

	require.NoError(t, gen.Generate())

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "0 models")
}

func TestGenerator_StepContract(t *testing.T) {
	dir := setupGallery(t)
	gen := NewGenerator(dir, ".stl", ".png")

	assert.Equal(t, "catalog", gen.Name())
	assert.True(t, gen.Available())
	require.NoError(t, gen.Run(context.Background()))
	assert.FileExists(t, filepath.Join(dir, "index.html"))
}
