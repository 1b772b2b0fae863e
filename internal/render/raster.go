package render

import (
	"image"
	"image/color"
	"math"
)

// Fixed viewing angle: yaw the model 45 degrees around Z, then tilt the
// camera down 60 degrees. Gives a three-quarter view that shows top and two
// sides for most upright models.
const (
	viewYaw  = math.Pi / 4
	viewTilt = -math.Pi / 3
)

var (
	background = color.NRGBA{R: 0xf2, G: 0xf2, B: 0xf5, A: 0xff}
	baseColor  = Vec3{X: 70, Y: 130, Z: 180} // steel blue
	lightDir   = Vec3{X: 0.3, Y: 0.5, Z: 0.8}
)

// viewTransform rotates a model-space point into view space. Screen X/Y come
// from the transformed X/Y; transformed Z is depth (larger is closer).
func viewTransform(v Vec3) Vec3 {
	cy, sy := math.Cos(viewYaw), math.Sin(viewYaw)
	x := cy*v.X - sy*v.Y
	y := sy*v.X + cy*v.Y

	ct, st := math.Cos(viewTilt), math.Sin(viewTilt)
	return Vec3{
		X: x,
		Y: ct*y - st*v.Z,
		Z: st*y + ct*v.Z,
	}
}

// rasterize projects the mesh orthographically and fills triangles against a
// z-buffer with flat shading. The output is always size x size.
func rasterize(mesh *Mesh, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = background.R
		img.Pix[i+1] = background.G
		img.Pix[i+2] = background.B
		img.Pix[i+3] = background.A
	}

	tris := make([][3]Vec3, len(mesh.Triangles))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, t := range mesh.Triangles {
		for j, v := range t.V {
			p := viewTransform(v)
			tris[i][j] = p
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}

	extent := math.Max(maxX-minX, maxY-minY)
	if extent <= 0 {
		extent = 1
	}
	scale := 0.9 * float64(size) / extent
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	half := float64(size) / 2

	// Screen-space projection with Y flipped so model +Y points up.
	project := func(p Vec3) (float64, float64) {
		return half + (p.X-cx)*scale, half - (p.Y-cy)*scale
	}

	zbuf := make([]float64, size*size)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}

	light := lightDir.Normalize()
	for _, t := range tris {
		normal := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
		if normal.Length() == 0 {
			continue
		}
		// STL files disagree about winding; abs keeps back faces lit the
		// same as front faces.
		shade := 0.25 + 0.75*math.Abs(normal.Normalize().Dot(light))
		col := color.NRGBA{
			R: uint8(math.Min(255, baseColor.X*shade)),
			G: uint8(math.Min(255, baseColor.Y*shade)),
			B: uint8(math.Min(255, baseColor.Z*shade)),
			A: 0xff,
		}

		x0, y0 := project(t[0])
		x1, y1 := project(t[1])
		x2, y2 := project(t[2])
		area := edge(x0, y0, x1, y1, x2, y2)
		if area == 0 {
			continue
		}

		loX := clampInt(int(math.Floor(min3(x0, x1, x2))), 0, size-1)
		hiX := clampInt(int(math.Ceil(max3(x0, x1, x2))), 0, size-1)
		loY := clampInt(int(math.Floor(min3(y0, y1, y2))), 0, size-1)
		hiY := clampInt(int(math.Ceil(max3(y0, y1, y2))), 0, size-1)

		for py := loY; py <= hiY; py++ {
			for px := loX; px <= hiX; px++ {
				sx, sy := float64(px)+0.5, float64(py)+0.5
				b0 := edge(x1, y1, x2, y2, sx, sy) / area
				b1 := edge(x2, y2, x0, y0, sx, sy) / area
				b2 := edge(x0, y0, x1, y1, sx, sy) / area
				if b0 < 0 || b1 < 0 || b2 < 0 {
					continue
				}
				depth := b0*t[0].Z + b1*t[1].Z + b2*t[2].Z
				idx := py*size + px
				if depth <= zbuf[idx] {
					continue
				}
				zbuf[idx] = depth
				img.SetNRGBA(px, py, col)
			}
		}
	}

	return img
}

// edge is the signed doubled area of the triangle (ax,ay)-(bx,by)-(px,py).
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
