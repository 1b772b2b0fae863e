package preview

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshfolio/meshfolio/internal/assets"
	"github.com/meshfolio/meshfolio/internal/diagnostics"
	"github.com/meshfolio/meshfolio/internal/render"
)

const tetraSTL = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
  facet normal 1 1 1
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid tetra
`

func testOptions() Options {
	return Options{Size: 64, Ext: ".png"}
}

func newProcessor(t *testing.T, dir string, opts Options) *Processor {
	t.Helper()
	sink, err := diagnostics.NewSink(filepath.Join(dir, "render.log"))
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return NewProcessor(render.NewMeshRenderer(), sink, opts)
}

func scanOne(t *testing.T, dir, name string) assets.Asset {
	t.Helper()
	list, err := assets.Scan(dir, ".stl")
	require.NoError(t, err)
	for _, a := range list {
		if a.Base() == name {
			return a
		}
	}
	t.Fatalf("asset %s not found in %s", name, dir)
	return assets.Asset{}
}

func TestProcessor_GeneratesPreview(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tetra.stl"), []byte(tetraSTL), 0o644))

	proc := newProcessor(t, dir, testOptions())
	result := proc.Process(context.Background(), scanOne(t, dir, "tetra.stl"))

	require.Equal(t, OutcomeGenerated, result.Outcome)
	require.NoError(t, result.Err)

	f, err := os.Open(result.PreviewPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	log, err := os.ReadFile(filepath.Join(dir, "render.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "SUCCESS: tetra.stl")
}

func TestProcessor_SkipsFreshPreview(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tetra.stl"), []byte(tetraSTL), 0o644))

	first := newProcessor(t, dir, testOptions()).Process(context.Background(), scanOne(t, dir, "tetra.stl"))
	require.Equal(t, OutcomeGenerated, first.Outcome)

	// Second run with no source change: nothing to do.
	second := newProcessor(t, dir, testOptions()).Process(context.Background(), scanOne(t, dir, "tetra.stl"))
	assert.Equal(t, OutcomeSkipped, second.Outcome)
}

func TestProcessor_RegeneratesWhenAssetNewer(t *testing.T) {
	dir := t.TempDir()
	assetPath := filepath.Join(dir, "tetra.stl")
	require.NoError(t, os.WriteFile(assetPath, []byte(tetraSTL), 0o644))

	first := newProcessor(t, dir, testOptions()).Process(context.Background(), scanOne(t, dir, "tetra.stl"))
	require.Equal(t, OutcomeGenerated, first.Outcome)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(assetPath, future, future))

	result := newProcessor(t, dir, testOptions()).Process(context.Background(), scanOne(t, dir, "tetra.stl"))
	assert.Equal(t, OutcomeGenerated, result.Outcome)
}

func TestProcessor_EqualTimestampsSkip(t *testing.T) {
	dir := t.TempDir()
	assetPath := filepath.Join(dir, "tetra.stl")
	previewPath := filepath.Join(dir, "tetra.png")
	require.NoError(t, os.WriteFile(assetPath, []byte(tetraSTL), 0o644))

	first := newProcessor(t, dir, testOptions()).Process(context.Background(), scanOne(t, dir, "tetra.stl"))
	require.Equal(t, OutcomeGenerated, first.Outcome)

	same := time.Now().Truncate(time.Second)
	require.NoError(t, os.Chtimes(assetPath, same, same))
	require.NoError(t, os.Chtimes(previewPath, same, same))

	result := newProcessor(t, dir, testOptions()).Process(context.Background(), scanOne(t, dir, "tetra.stl"))
	assert.Equal(t, OutcomeSkipped, result.Outcome)
}

func TestProcessor_ForceBypassesStaleness(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tetra.stl"), []byte(tetraSTL), 0o644))

	first := newProcessor(t, dir, testOptions()).Process(context.Background(), scanOne(t, dir, "tetra.stl"))
	require.Equal(t, OutcomeGenerated, first.Outcome)

	opts := testOptions()
	opts.Force = true
	result := newProcessor(t, dir, opts).Process(context.Background(), scanOne(t, dir, "tetra.stl"))
	assert.Equal(t, OutcomeGenerated, result.Outcome)
}

func TestProcessor_FailedLeavesNoArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.stl"), []byte("garbage, not a model"), 0o644))

	proc := newProcessor(t, dir, testOptions())
	result := proc.Process(context.Background(), scanOne(t, dir, "bad.stl"))

	require.Equal(t, OutcomeFailed, result.Outcome)
	require.Error(t, result.Err)

	_, err := os.Stat(result.PreviewPath)
	assert.True(t, os.IsNotExist(err), "no preview file may exist for a failed asset")

	log, err := os.ReadFile(filepath.Join(dir, "render.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "FAILED: bad.stl:")

	// No leftover temp files from the atomic write path either.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp-")
	}
}

// blankRenderer always returns a uniform image, regardless of input.
type blankRenderer struct{}

func (blankRenderer) Render(ctx context.Context, path string, size int) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 0xff})
		}
	}
	return img, nil
}

func TestProcessor_BlankRenderIsFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tetra.stl"), []byte(tetraSTL), 0o644))
	sink, err := diagnostics.NewSink(filepath.Join(dir, "render.log"))
	require.NoError(t, err)
	defer sink.Close()

	proc := NewProcessor(blankRenderer{}, sink, testOptions())
	result := proc.Process(context.Background(), scanOne(t, dir, "tetra.stl"))

	require.Equal(t, OutcomeFailed, result.Outcome)
	assert.Contains(t, result.Err.Error(), "no content")
	_, statErr := os.Stat(result.PreviewPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "generated", OutcomeGenerated.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
