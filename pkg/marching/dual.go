package marching

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// qefRegularization weights the masspoint bias rows of the per-cell least
// squares fit. Small enough not to disturb well-constrained cells, large
// enough to pin down planar and degenerate ones.
const qefRegularization = 0.1

// DualContour extracts a quad-based isosurface mesh from a rank 3 volume.
// Unlike MarchingCubes it places one vertex inside every cell whose corners
// straddle the level, fitted to the crossing points and field gradients by
// least squares, and connects the four cells around every interior crossing
// edge with a quad. Sharp features survive because vertices are not bound
// to cell edges. The ambiguity resolution option has no effect here.
func DualContour(v *Volume, level float64, opts ...Option) (*Mesh, error) {
	v, cfg, err := prepare(v, 3, opts)
	if err != nil {
		return nil, err
	}
	inside := v.test(level)
	mult := v.sizeMultiplier(len(cubeDirs))
	cr := findCrossings(v, inside, level, cubeDirs, mult, cfg.interp)
	conv := newConverter(cr.ids)
	codes := classifyCells(v, inside, cubeCorners)
	cs := cellShape(v.shape)

	verts := make(map[int][3]float64)
	ci := 0
	for x := 0; x < cs[0]; x++ {
		for y := 0; y < cs[1]; y++ {
			for z := 0; z < cs[2]; z++ {
				if code := codes[ci]; code != 0 && code != 255 {
					verts[ci] = cellVertex(v, cr, conv, mult, x, y, z)
				}
				ci++
			}
		}
	}

	mesh := &Mesh{}
	index := make(map[int]int)
	vertexOf := func(off int) int {
		if i, ok := index[off]; ok {
			return i
		}
		i := len(mesh.Vertices)
		index[off] = i
		mesh.Vertices = append(mesh.Vertices, verts[off])
		return i
	}
	cellOff := func(c [3]int) int {
		return (c[0]*cs[1]+c[1])*cs[2] + c[2]
	}

	// One quad per interior crossing edge, spanning the vertices of the
	// four cells that share the edge, wound counterclockwise about the
	// edge so the surface faces the outside region.
	for d := 0; d < 3; d++ {
		a, b := (d+1)%3, (d+2)%3
		var lo, hi [3]int
		lo[d], hi[d] = 0, v.shape[d]-2
		lo[a], hi[a] = 1, v.shape[a]-2
		lo[b], hi[b] = 1, v.shape[b]-2
		var s, e [3]int
		for s[0] = lo[0]; s[0] <= hi[0]; s[0]++ {
			for s[1] = lo[1]; s[1] <= hi[1]; s[1]++ {
				for s[2] = lo[2]; s[2] <= hi[2]; s[2]++ {
					e = s
					e[d]++
					startIn := inside[v.offset(s[:])]
					if startIn == inside[v.offset(e[:])] {
						continue
					}
					c := s
					v0 := vertexOf(cellOff(c))
					c[a]--
					v1 := vertexOf(cellOff(c))
					c[b]--
					v2 := vertexOf(cellOff(c))
					c[a]++
					v3 := vertexOf(cellOff(c))
					if startIn {
						mesh.Triangles = append(mesh.Triangles,
							[3]int{v0, v1, v2}, [3]int{v0, v2, v3})
					} else {
						mesh.Triangles = append(mesh.Triangles,
							[3]int{v0, v3, v2}, [3]int{v0, v2, v1})
					}
				}
			}
		}
	}
	return mesh, nil
}

// cellVertex fits the cell's vertex to its crossing points and normals.
// The system is solved by QR with masspoint regularization rows appended,
// then clamped to the cell. A failed solve falls back to the masspoint.
func cellVertex(v *Volume, cr *crossings, conv *converter, mult []uint64, x, y, z int) [3]float64 {
	var pts, nrm [][3]float64
	coord := make([]int, 3)
	for _, e := range cubeEdges {
		coord[0] = x + e.delta[0]
		coord[1] = y + e.delta[1]
		coord[2] = z + e.delta[2]
		vi, ok := conv.find(edgeID(coord, e.dir, mult))
		if !ok {
			continue
		}
		p := cr.positions[vi]
		pts = append(pts, [3]float64{p[0], p[1], p[2]})
		nrm = append(nrm, gradientAt(v, p))
	}

	var m [3]float64
	for _, p := range pts {
		for i := range m {
			m[i] += p[i]
		}
	}
	for i := range m {
		m[i] /= float64(len(pts))
	}

	rows := len(pts) + 3
	A := mat.NewDense(rows, 3, nil)
	rhs := mat.NewDense(rows, 1, nil)
	for i, n := range nrm {
		A.SetRow(i, n[:])
		rhs.Set(i, 0, n[0]*pts[i][0]+n[1]*pts[i][1]+n[2]*pts[i][2])
	}
	for i := 0; i < 3; i++ {
		A.Set(len(pts)+i, i, qefRegularization)
		rhs.Set(len(pts)+i, 0, qefRegularization*m[i])
	}

	p := m
	var qr mat.QR
	qr.Factorize(A)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, rhs); err == nil {
		for i := range p {
			p[i] = sol.At(i, 0)
		}
	}
	cell := [3]float64{float64(x), float64(y), float64(z)}
	for i := range p {
		p[i] = math.Max(cell[i], math.Min(cell[i]+1, p[i]))
	}
	return p
}

// gradientAt estimates the unit field gradient at a point on a grid edge
// by interpolating the central difference gradients of the edge endpoints.
func gradientAt(v *Volume, p []float64) [3]float64 {
	var lo, hi [3]int
	t := 0.0
	axis := -1
	for i := 0; i < 3; i++ {
		f := math.Floor(p[i])
		lo[i] = int(f)
		hi[i] = lo[i]
		if p[i] != f {
			axis = i
			t = p[i] - f
			hi[i] = lo[i] + 1
		}
	}
	g := gradient(v, lo)
	if axis >= 0 {
		g1 := gradient(v, hi)
		for i := range g {
			g[i] = (1-t)*g[i] + t*g1[i]
		}
	}
	if l := math.Sqrt(g[0]*g[0] + g[1]*g[1] + g[2]*g[2]); l > 0 {
		for i := range g {
			g[i] /= l
		}
	}
	return g
}

// gradient is the central difference gradient at a grid point, one-sided
// at volume borders.
func gradient(v *Volume, c [3]int) [3]float64 {
	var g [3]float64
	for i := 0; i < 3; i++ {
		a, b := c, c
		if c[i] > 0 {
			a[i]--
		}
		if c[i] < v.shape[i]-1 {
			b[i]++
		}
		g[i] = (v.At(b[0], b[1], b[2]) - v.At(a[0], a[1], a[2])) / float64(b[i]-a[i])
	}
	return g
}
