// Package export writes extracted meshes to interchange formats using the
// sdfx render types.
package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/chazu/isomesh/pkg/marching"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangles converts a mesh to sdfx triangles.
func Triangles(m *marching.Mesh) []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		var tri sdf.Triangle3
		for k := 0; k < 3; k++ {
			p := m.Vertices[t[k]]
			tri[k] = v3.Vec{X: p[0], Y: p[1], Z: p[2]}
		}
		tris = append(tris, &tri)
	}
	return tris
}

// SaveSTL writes the mesh to path as STL.
func SaveSTL(path string, m *marching.Mesh) error {
	if m.IsEmpty() {
		return fmt.Errorf("export: refusing to write empty mesh to %s", path)
	}
	if err := render.SaveSTL(path, Triangles(m)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// SaveSegments writes a contour to path as plain text, one segment per
// line: "x0 y0 x1 y1".
func SaveSegments(path string, c *marching.Contour) error {
	if c.IsEmpty() {
		return fmt.Errorf("export: refusing to write empty contour to %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, s := range c.Segments {
		a, b := c.Vertices[s[0]], c.Vertices[s[1]]
		fmt.Fprintf(w, "%g %g %g %g\n", a[0], a[1], b[0], b[1])
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
