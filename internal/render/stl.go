package render

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/meshfolio/meshfolio/internal/errors"
)

// Vec3 is a point or direction in model space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Triangle is a single mesh facet.
type Triangle struct {
	V [3]Vec3
}

// Mesh is a triangle soup loaded from an STL file.
type Mesh struct {
	Triangles []Triangle
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (min, max Vec3) {
	min = Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, t := range m.Triangles {
		for _, v := range t.V {
			min.X = math.Min(min.X, v.X)
			min.Y = math.Min(min.Y, v.Y)
			min.Z = math.Min(min.Z, v.Z)
			max.X = math.Max(max.X, v.X)
			max.Y = math.Max(max.Y, v.Y)
			max.Z = math.Max(max.Z, v.Z)
		}
	}
	return min, max
}

const binaryHeaderSize = 84 // 80-byte header plus uint32 triangle count

// LoadSTL reads a mesh from an STL file, accepting both the ASCII and binary
// encodings. A structurally valid file with zero facets is an error: there is
// nothing to preview.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "stl_read", "failed to read model file")
	}

	var mesh *Mesh
	if isASCIISTL(data) {
		mesh, err = parseASCII(data)
	} else {
		mesh, err = parseBinary(data)
	}
	if err != nil {
		return nil, err
	}

	if len(mesh.Triangles) == 0 {
		return nil, errors.NewRenderError("empty_mesh", "model contains no facets")
	}

	fmt.Fprintf(os.Stderr, "stl: loaded %d facets from %s (%d bytes)\n",
		len(mesh.Triangles), path, len(data))

	return mesh, nil
}

// isASCIISTL sniffs the encoding. Binary files may also begin with "solid",
// so the ASCII keyword "facet" must appear as well.
func isASCIISTL(data []byte) bool {
	head := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(head, []byte("solid")) {
		return false
	}
	window := data
	if len(window) > 1024 {
		window = window[:1024]
	}
	return bytes.Contains(window, []byte("facet"))
}

func parseBinary(data []byte) (*Mesh, error) {
	if len(data) < binaryHeaderSize {
		return nil, errors.NewRenderError("stl_truncated",
			fmt.Sprintf("binary STL header truncated: %d bytes", len(data)))
	}

	count := binary.LittleEndian.Uint32(data[80:binaryHeaderSize])
	const recordSize = 50 // 12 float32 + uint16 attribute
	expected := binaryHeaderSize + int64(count)*recordSize
	if int64(len(data)) < expected {
		return nil, errors.NewRenderError("stl_truncated",
			fmt.Sprintf("binary STL declares %d facets but holds %d bytes", count, len(data)))
	}

	mesh := &Mesh{Triangles: make([]Triangle, 0, count)}
	offset := binaryHeaderSize
	for i := uint32(0); i < count; i++ {
		// Skip the stored normal; it is recomputed during shading.
		offset += 12
		var tri Triangle
		for v := 0; v < 3; v++ {
			tri.V[v] = Vec3{
				X: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))),
				Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset+4:]))),
				Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset+8:]))),
			}
			offset += 12
		}
		offset += 2
		mesh.Triangles = append(mesh.Triangles, tri)
	}

	return mesh, nil
}

func parseASCII(data []byte) (*Mesh, error) {
	mesh := &Mesh{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var verts []Vec3
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "vertex":
			if len(fields) != 4 {
				return nil, errors.NewRenderError("stl_syntax",
					fmt.Sprintf("line %d: vertex needs 3 coordinates", line))
			}
			v, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, errors.NewRenderError("stl_syntax",
					fmt.Sprintf("line %d: %v", line, err))
			}
			verts = append(verts, v)
		case "endfacet":
			if len(verts) != 3 {
				return nil, errors.NewRenderError("stl_syntax",
					fmt.Sprintf("line %d: facet has %d vertices, want 3", line, len(verts)))
			}
			mesh.Triangles = append(mesh.Triangles, Triangle{V: [3]Vec3{verts[0], verts[1], verts[2]}})
			verts = verts[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeRender, "stl_syntax", "failed to scan ASCII STL")
	}
	if len(verts) != 0 {
		return nil, errors.NewRenderError("stl_syntax", "unterminated facet at end of file")
	}

	return mesh, nil
}

func parseVec3(fields []string) (Vec3, error) {
	var coords [3]float64
	for i, f := range fields {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Vec3{}, fmt.Errorf("bad coordinate %q", f)
		}
		coords[i] = val
	}
	return Vec3{coords[0], coords[1], coords[2]}, nil
}
