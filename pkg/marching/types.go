package marching

// Mesh is the triangle mesh produced by the 3D variants. Vertices are
// coordinates in grid space; the caller scales and offsets them to
// physical units. Every vertex is referenced by at least one triangle and
// no grid edge contributes more than one vertex.
type Mesh struct {
	Vertices  [][3]float64
	Triangles [][3]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Triangles) }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// Contour is the segment set produced by the 2D variants. Vertices are
// coordinates in grid space.
type Contour struct {
	Vertices [][2]float64
	Segments [][2]int
}

// VertexCount returns the number of vertices.
func (c *Contour) VertexCount() int { return len(c.Vertices) }

// SegmentCount returns the number of segments.
func (c *Contour) SegmentCount() int { return len(c.Segments) }

// IsEmpty reports whether the contour has no geometry.
func (c *Contour) IsEmpty() bool { return len(c.Vertices) == 0 }
