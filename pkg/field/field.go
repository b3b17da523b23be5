// Package field bridges continuous scalar fields and the regular sample
// grids the extraction pipeline consumes. Fields follow the convention
// that larger values are deeper inside, so the zero level set is the
// surface; signed distance functions are negated on the way in.
package field

import (
	"fmt"
	"math"

	"github.com/chazu/isomesh/pkg/marching"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Field3 is a scalar field over 3D space.
type Field3 func(x, y, z float64) float64

// Field2 is a scalar field over the plane.
type Field2 func(x, y float64) float64

// FromSDF3 adapts a signed distance function to the inside-positive
// convention.
func FromSDF3(s sdf.SDF3) Field3 {
	return func(x, y, z float64) float64 {
		return -s.Evaluate(v3.Vec{X: x, Y: y, Z: z})
	}
}

// Sphere returns the field of a sphere of radius r centered at the origin.
func Sphere(r float64) Field3 {
	return func(x, y, z float64) float64 {
		return r - math.Sqrt(x*x+y*y+z*z)
	}
}

// Gyroid returns the classic triply periodic gyroid field with the given
// cell size.
func Gyroid(cell float64) Field3 {
	k := 2 * math.Pi / cell
	return func(x, y, z float64) float64 {
		return math.Sin(k*x)*math.Cos(k*y) +
			math.Sin(k*y)*math.Cos(k*z) +
			math.Sin(k*z)*math.Cos(k*x)
	}
}

// Slice restricts a 3D field to the horizontal plane at the given z.
func Slice(f Field3, z float64) Field2 {
	return func(x, y float64) float64 {
		return f(x, y, z)
	}
}

// Circle returns the field of a circle of radius r centered at the origin.
func Circle(r float64) Field2 {
	return func(x, y float64) float64 {
		return r - math.Sqrt(x*x+y*y)
	}
}

// Grid3 is a regular sampling lattice over an axis aligned box.
type Grid3 struct {
	Min     [3]float64
	Max     [3]float64
	Samples [3]int
}

// Bounds builds a sampling grid covering the bounding box of an SDF,
// padded on every side so the surface never touches the grid border, with
// cells samples along the longest axis.
func Bounds(s sdf.SDF3, cells int, pad float64) Grid3 {
	bb := s.BoundingBox()
	min := [3]float64{bb.Min.X - pad, bb.Min.Y - pad, bb.Min.Z - pad}
	max := [3]float64{bb.Max.X + pad, bb.Max.Y + pad, bb.Max.Z + pad}
	longest := 0.0
	for i := 0; i < 3; i++ {
		if d := max[i] - min[i]; d > longest {
			longest = d
		}
	}
	var n [3]int
	for i := 0; i < 3; i++ {
		n[i] = int(math.Ceil(float64(cells)*(max[i]-min[i])/longest)) + 1
		if n[i] < 2 {
			n[i] = 2
		}
	}
	return Grid3{Min: min, Max: max, Samples: n}
}

// Spacing returns the world distance between neighboring samples.
func (g Grid3) Spacing() [3]float64 {
	var sp [3]float64
	for i := 0; i < 3; i++ {
		sp[i] = (g.Max[i] - g.Min[i]) / float64(g.Samples[i]-1)
	}
	return sp
}

// ToWorld maps a grid space coordinate to world space.
func (g Grid3) ToWorld(p [3]float64) [3]float64 {
	sp := g.Spacing()
	return [3]float64{
		g.Min[0] + p[0]*sp[0],
		g.Min[1] + p[1]*sp[1],
		g.Min[2] + p[2]*sp[2],
	}
}

// WorldMesh returns a copy of the mesh with grid space vertices mapped to
// world space. Triangle indices are shared, not copied.
func (g Grid3) WorldMesh(m *marching.Mesh) *marching.Mesh {
	out := &marching.Mesh{
		Vertices:  make([][3]float64, len(m.Vertices)),
		Triangles: m.Triangles,
	}
	for i, p := range m.Vertices {
		out.Vertices[i] = g.ToWorld(p)
	}
	return out
}

// Sample3 evaluates the field at every lattice point of the grid.
func Sample3(f Field3, g Grid3) (*marching.Volume, error) {
	for i := 0; i < 3; i++ {
		if g.Samples[i] < 2 {
			return nil, fmt.Errorf("field: grid needs at least 2 samples per axis, got %v", g.Samples)
		}
		if g.Max[i] <= g.Min[i] {
			return nil, fmt.Errorf("field: empty grid extent on axis %d", i)
		}
	}
	sp := g.Spacing()
	data := make([]float64, 0, g.Samples[0]*g.Samples[1]*g.Samples[2])
	for x := 0; x < g.Samples[0]; x++ {
		wx := g.Min[0] + float64(x)*sp[0]
		for y := 0; y < g.Samples[1]; y++ {
			wy := g.Min[1] + float64(y)*sp[1]
			for z := 0; z < g.Samples[2]; z++ {
				data = append(data, f(wx, wy, g.Min[2]+float64(z)*sp[2]))
			}
		}
	}
	return marching.NewVolume(g.Samples[:], data)
}

// Grid2 is the planar counterpart of Grid3.
type Grid2 struct {
	Min     [2]float64
	Max     [2]float64
	Samples [2]int
}

// Spacing returns the world distance between neighboring samples.
func (g Grid2) Spacing() [2]float64 {
	var sp [2]float64
	for i := 0; i < 2; i++ {
		sp[i] = (g.Max[i] - g.Min[i]) / float64(g.Samples[i]-1)
	}
	return sp
}

// ToWorld maps a grid space coordinate to world space.
func (g Grid2) ToWorld(p [2]float64) [2]float64 {
	sp := g.Spacing()
	return [2]float64{g.Min[0] + p[0]*sp[0], g.Min[1] + p[1]*sp[1]}
}

// WorldContour returns a copy of the contour with vertices mapped to
// world space.
func (g Grid2) WorldContour(c *marching.Contour) *marching.Contour {
	out := &marching.Contour{
		Vertices: make([][2]float64, len(c.Vertices)),
		Segments: c.Segments,
	}
	for i, p := range c.Vertices {
		out.Vertices[i] = g.ToWorld(p)
	}
	return out
}

// Sample2 evaluates the field at every lattice point of the grid.
func Sample2(f Field2, g Grid2) (*marching.Volume, error) {
	for i := 0; i < 2; i++ {
		if g.Samples[i] < 2 {
			return nil, fmt.Errorf("field: grid needs at least 2 samples per axis, got %v", g.Samples)
		}
		if g.Max[i] <= g.Min[i] {
			return nil, fmt.Errorf("field: empty grid extent on axis %d", i)
		}
	}
	sp := g.Spacing()
	data := make([]float64, 0, g.Samples[0]*g.Samples[1])
	for x := 0; x < g.Samples[0]; x++ {
		wx := g.Min[0] + float64(x)*sp[0]
		for y := 0; y < g.Samples[1]; y++ {
			data = append(data, f(wx, g.Min[1]+float64(y)*sp[1]))
		}
	}
	return marching.NewVolume(g.Samples[:], data)
}
