package render

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshRenderer_Render(t *testing.T) {
	path := writeTempSTL(t, "tetra.stl", []byte(tetraSTL))
	renderer := NewMeshRenderer()

	img, err := renderer.Render(context.Background(), path, 64)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	assert.Greater(t, countForeground(img), 0, "model should cover some pixels")
}

func TestMeshRenderer_RespectsCancelledContext(t *testing.T) {
	path := writeTempSTL(t, "tetra.stl", []byte(tetraSTL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMeshRenderer().Render(ctx, path, 64)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRasterize_DegenerateMeshIsBlank(t *testing.T) {
	// All-coincident vertices have zero-area facets; nothing rasterizes.
	mesh := &Mesh{Triangles: []Triangle{
		{V: [3]Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}},
	}}

	img := rasterize(mesh, 32)
	assert.Zero(t, countForeground(img))
}

func TestRasterize_OutputSizeIsFixed(t *testing.T) {
	mesh := &Mesh{Triangles: []Triangle{
		{V: [3]Vec3{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}}},
	}}

	for _, size := range []int{16, 64, 512} {
		img := rasterize(mesh, size)
		assert.Equal(t, image.Rect(0, 0, size, size), img.Bounds())
	}
}

// countForeground counts pixels that differ from the background fill.
func countForeground(img image.Image) int {
	bounds := img.Bounds()
	br, bg, bb, ba := background.RGBA()
	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if r != br || g != bg || b != bb || a != ba {
				count++
			}
		}
	}
	return count
}
