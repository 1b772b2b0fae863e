// Package render turns model files into raster preview images. The Renderer
// interface keeps the rest of the pipeline renderer-agnostic; MeshRenderer is
// the built-in software implementation for STL files.
//
// Rendering is intentionally sequential: the pipeline processes one asset at
// a time, so no locking happens here.
package render

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// Renderer produces a square raster image for a model file, or fails.
// Implementations write verbose progress to stderr only; the caller decides
// where that stream goes.
type Renderer interface {
	Render(ctx context.Context, path string, size int) (image.Image, error)
}

// MeshRenderer renders STL meshes with a software rasterizer.
type MeshRenderer struct{}

// NewMeshRenderer creates the built-in software renderer.
func NewMeshRenderer() *MeshRenderer {
	return &MeshRenderer{}
}

// Render loads the model at path and rasterizes it at size x size pixels.
func (r *MeshRenderer) Render(ctx context.Context, path string, size int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mesh, err := LoadSTL(path)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "render: %s: rasterizing %d facets at %dx%d\n",
		filepath.Base(path), len(mesh.Triangles), size, size)

	return rasterize(mesh, size), nil
}
