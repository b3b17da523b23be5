package marching

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func mustVolume(t *testing.T, shape []int, data []float64) *Volume {
	t.Helper()
	v, err := NewVolume(shape, data)
	if err != nil {
		t.Fatalf("NewVolume() error = %v", err)
	}
	return v
}

// sphereVolume samples r minus the distance to the grid center on an n^3
// grid, so the zero level set is a sphere of radius r.
func sphereVolume(t *testing.T, n int, r float64) *Volume {
	t.Helper()
	data := make([]float64, n*n*n)
	c := float64(n-1) / 2
	i := 0
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				dx, dy, dz := float64(x)-c, float64(y)-c, float64(z)-c
				data[i] = r - math.Sqrt(dx*dx+dy*dy+dz*dz)
				i++
			}
		}
	}
	return mustVolume(t, []int{n, n, n}, data)
}

func TestMarchingCubesSingleCorner(t *testing.T) {
	v := mustVolume(t, []int{2, 2, 2}, []float64{
		1, -1, -1, -1,
		-1, -1, -1, -1,
	})
	mesh, err := MarchingCubes(v, 0)
	if err != nil {
		t.Fatalf("MarchingCubes() error = %v", err)
	}
	wantVerts := [][3]float64{
		{0.5, 0, 0},
		{0, 0.5, 0},
		{0, 0, 0.5},
	}
	if !reflect.DeepEqual(mesh.Vertices, wantVerts) {
		t.Errorf("Vertices = %v, want %v", mesh.Vertices, wantVerts)
	}
	wantTris := [][3]int{{0, 2, 1}}
	if !reflect.DeepEqual(mesh.Triangles, wantTris) {
		t.Errorf("Triangles = %v, want %v", mesh.Triangles, wantTris)
	}
}

func TestMarchingCubesUniform(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"all inside", 1},
		{"all outside", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, 27)
			for i := range data {
				data[i] = tt.value
			}
			v := mustVolume(t, []int{3, 3, 3}, data)
			mesh, err := MarchingCubes(v, 0)
			if err != nil {
				t.Fatalf("MarchingCubes() error = %v", err)
			}
			if !mesh.IsEmpty() {
				t.Errorf("mesh not empty: %d vertices, %d triangles",
					mesh.VertexCount(), mesh.TriangleCount())
			}
		})
	}
}

// TestMarchingCubesAllPatterns runs every corner sign pattern through a
// single cell and checks the structural guarantees: one vertex per
// crossing edge, valid triangle indices, and no orphan vertices.
func TestMarchingCubesAllPatterns(t *testing.T) {
	for code := 0; code < 256; code++ {
		data := make([]float64, 8)
		for b, off := range cubeCorners {
			val := -1.0
			if code&(1<<b) != 0 {
				val = 1.0
			}
			data[(off[0]*2+off[1])*2+off[2]] = val
		}
		v := mustVolume(t, []int{2, 2, 2}, data)
		mesh, err := MarchingCubes(v, 0)
		if err != nil {
			t.Fatalf("code %d: MarchingCubes() error = %v", code, err)
		}
		crossing := 0
		for _, cc := range cubeEdgeCorners {
			if (code>>cc[0])&1 != (code>>cc[1])&1 {
				crossing++
			}
		}
		if mesh.VertexCount() != crossing {
			t.Errorf("code %d: %d vertices, want %d", code, mesh.VertexCount(), crossing)
		}
		used := make([]bool, mesh.VertexCount())
		for _, tri := range mesh.Triangles {
			for _, vi := range tri {
				if vi < 0 || vi >= mesh.VertexCount() {
					t.Fatalf("code %d: triangle index %d out of range", code, vi)
				}
				used[vi] = true
			}
		}
		for vi, u := range used {
			if !u {
				t.Errorf("code %d: vertex %d unreferenced", code, vi)
			}
		}
	}
}

// TestMarchingCubesSphereClosed extracts a sphere that fits strictly inside
// the grid and checks the mesh is watertight: every directed edge occurs
// exactly once and its reverse exactly once.
func TestMarchingCubesSphereClosed(t *testing.T) {
	v := sphereVolume(t, 12, 4)
	mesh, err := MarchingCubes(v, 0)
	if err != nil {
		t.Fatalf("MarchingCubes() error = %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("empty mesh for sphere")
	}
	edges := make(map[[2]int]int)
	for _, tri := range mesh.Triangles {
		for k := 0; k < 3; k++ {
			e := [2]int{tri[k], tri[(k+1)%3]}
			edges[e]++
		}
	}
	for e, n := range edges {
		if n != 1 {
			t.Fatalf("directed edge %v used %d times, want 1", e, n)
		}
		if edges[[2]int{e[1], e[0]}] != 1 {
			t.Fatalf("directed edge %v has no reverse", e)
		}
	}
}

// TestMarchingCubesSaddleFace puts an alternating sign pattern on the face
// shared by two cells and checks both sides pick the same contour pairing:
// every mesh edge between the shared face's crossing vertices must be used
// once in each direction.
func TestMarchingCubesSaddleFace(t *testing.T) {
	// Shape 3x2x2; the x=1 sample plane is the shared face.
	set := func(data []float64, x, y, z int, val float64) {
		data[(x*2+y)*2+z] = val
	}
	data := make([]float64, 12)
	for i := range data {
		data[i] = -1
	}
	set(data, 1, 0, 0, 1)
	set(data, 1, 1, 1, 1)
	v := mustVolume(t, []int{3, 2, 2}, data)
	mesh, err := MarchingCubes(v, 0)
	if err != nil {
		t.Fatalf("MarchingCubes() error = %v", err)
	}
	onFace := make(map[int]bool)
	for vi, p := range mesh.Vertices {
		if p[0] == 1 {
			onFace[vi] = true
		}
	}
	if len(onFace) != 4 {
		t.Fatalf("%d crossing vertices on shared face, want 4", len(onFace))
	}
	count := make(map[[2]int]int)
	for _, tri := range mesh.Triangles {
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if onFace[a] && onFace[b] {
				count[[2]int{a, b}]++
			}
		}
	}
	if len(count) != 4 {
		t.Fatalf("%d directed edges on shared face, want 4", len(count))
	}
	for e, n := range count {
		if n != 1 {
			t.Errorf("face edge %v used %d times, want 1", e, n)
		}
		if count[[2]int{e[1], e[0]}] != 1 {
			t.Errorf("face edge %v not matched by the neighbor cell", e)
		}
	}
}

func TestMarchingCubesDeterminism(t *testing.T) {
	v := sphereVolume(t, 10, 3.3)
	a, err := MarchingCubes(v, 0)
	if err != nil {
		t.Fatalf("MarchingCubes() error = %v", err)
	}
	b, err := MarchingCubes(v, 0)
	if err != nil {
		t.Fatalf("MarchingCubes() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over the same volume differ")
	}
}

func TestMarchingSquaresSingleCorner(t *testing.T) {
	v := mustVolume(t, []int{2, 2}, []float64{1, -1, -1, -1})
	c, err := MarchingSquares(v, 0)
	if err != nil {
		t.Fatalf("MarchingSquares() error = %v", err)
	}
	wantVerts := [][2]float64{{0.5, 0}, {0, 0.5}}
	if !reflect.DeepEqual(c.Vertices, wantVerts) {
		t.Errorf("Vertices = %v, want %v", c.Vertices, wantVerts)
	}
	wantSegs := [][2]int{{0, 1}}
	if !reflect.DeepEqual(c.Segments, wantSegs) {
		t.Errorf("Segments = %v, want %v", c.Segments, wantSegs)
	}
}

func TestMarchingSquaresSaddle(t *testing.T) {
	// Corners on the minimum-corner diagonal inside. Vertex order is
	// axis 0 crossings then axis 1 crossings:
	// 0:(0.5,0) 1:(0.5,1) 2:(0,0.5) 3:(1,0.5).
	v := mustVolume(t, []int{2, 2}, []float64{1, -1, -1, 1})
	t.Run("resolved", func(t *testing.T) {
		c, err := MarchingSquares(v, 0)
		if err != nil {
			t.Fatalf("MarchingSquares() error = %v", err)
		}
		want := [][2]int{{1, 2}, {0, 3}}
		if !reflect.DeepEqual(c.Segments, want) {
			t.Errorf("Segments = %v, want %v", c.Segments, want)
		}
	})
	t.Run("unresolved", func(t *testing.T) {
		c, err := MarchingSquares(v, 0, WithoutAmbiguityResolution())
		if err != nil {
			t.Fatalf("MarchingSquares() error = %v", err)
		}
		want := [][2]int{{1, 3}, {0, 2}}
		if !reflect.DeepEqual(c.Segments, want) {
			t.Errorf("Segments = %v, want %v", c.Segments, want)
		}
	})
}

func TestMarchingTrianglesSplit(t *testing.T) {
	// The saddle pattern contours differently under the two splits: the
	// minimum-corner diagonal keeps its inside corners connected, the
	// reversed diagonal separates them.
	v := mustVolume(t, []int{2, 2}, []float64{1, -1, -1, 1})
	t.Run("main diagonal", func(t *testing.T) {
		c, err := MarchingTriangles(v, 0)
		if err != nil {
			t.Fatalf("MarchingTriangles() error = %v", err)
		}
		want := [][2]int{{0, 3}, {1, 2}}
		if !reflect.DeepEqual(c.Segments, want) {
			t.Errorf("Segments = %v, want %v", c.Segments, want)
		}
	})
	t.Run("reversed diagonal", func(t *testing.T) {
		c, err := MarchingTrianglesReversed(v, 0)
		if err != nil {
			t.Fatalf("MarchingTrianglesReversed() error = %v", err)
		}
		want := [][2]int{{0, 2}, {1, 3}}
		if !reflect.DeepEqual(c.Segments, want) {
			t.Errorf("Segments = %v, want %v", c.Segments, want)
		}
	})
}

func TestMarchingTrianglesDiagonalCrossing(t *testing.T) {
	// A single inside corner on the diagonal produces two segments that
	// share the diagonal crossing vertex.
	v := mustVolume(t, []int{2, 2}, []float64{1, -1, -1, -1})
	c, err := MarchingTriangles(v, 0)
	if err != nil {
		t.Fatalf("MarchingTriangles() error = %v", err)
	}
	if c.VertexCount() != 3 || c.SegmentCount() != 2 {
		t.Fatalf("%d vertices, %d segments, want 3 and 2",
			c.VertexCount(), c.SegmentCount())
	}
	diag := -1
	for vi, p := range c.Vertices {
		if p[0] == 0.5 && p[1] == 0.5 {
			diag = vi
		}
	}
	if diag < 0 {
		t.Fatal("no vertex on the diagonal")
	}
	for _, s := range c.Segments {
		if s[0] != diag && s[1] != diag {
			t.Errorf("segment %v does not touch the diagonal vertex", s)
		}
	}
}

func TestInterpolationModes(t *testing.T) {
	v := mustVolume(t, []int{2, 2}, []float64{3, -1, -1, -1})
	tests := []struct {
		name   string
		interp Interpolation
		want   float64
	}{
		{"linear", Linear, 0.75},
		{"halfway", Halfway, 0.5},
		{"cosine", Cosine, 2.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := MarchingSquares(v, 0, WithInterpolation(tt.interp))
			if err != nil {
				t.Fatalf("MarchingSquares() error = %v", err)
			}
			got := c.Vertices[0][0]
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("crossing at %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStepSize(t *testing.T) {
	// Step 2 on a 3x3 grid must match extracting the corner samples
	// directly.
	data := []float64{
		1, 5, -1,
		5, 5, 5,
		-1, 5, -1,
	}
	v := mustVolume(t, []int{3, 3}, data)
	stepped, err := MarchingSquares(v, 0, WithStepSize(2))
	if err != nil {
		t.Fatalf("MarchingSquares(step 2) error = %v", err)
	}
	corners := mustVolume(t, []int{2, 2}, []float64{1, -1, -1, -1})
	direct, err := MarchingSquares(corners, 0)
	if err != nil {
		t.Fatalf("MarchingSquares() error = %v", err)
	}
	if !reflect.DeepEqual(stepped, direct) {
		t.Errorf("stepped = %+v, direct = %+v", stepped, direct)
	}
}

func TestVariantErrors(t *testing.T) {
	v3 := mustVolume(t, []int{2, 2, 2}, make([]float64, 8))
	v2 := mustVolume(t, []int{2, 2}, make([]float64, 4))
	flat := mustVolume(t, []int{1, 4, 2}, make([]float64, 8))

	if _, err := MarchingCubes(v2, 0); !errors.Is(err, ErrBadRank) {
		t.Errorf("MarchingCubes rank error = %v, want %v", err, ErrBadRank)
	}
	if _, err := MarchingSquares(v3, 0); !errors.Is(err, ErrBadRank) {
		t.Errorf("MarchingSquares rank error = %v, want %v", err, ErrBadRank)
	}
	if _, err := MarchingCubes(flat, 0); !errors.Is(err, ErrTooSmall) {
		t.Errorf("MarchingCubes size error = %v, want %v", err, ErrTooSmall)
	}
	if _, err := MarchingCubes(v3, 0, WithStepSize(0)); !errors.Is(err, ErrBadStep) {
		t.Errorf("MarchingCubes step error = %v, want %v", err, ErrBadStep)
	}
	if _, err := MarchingCubes(v3, 0, WithStepSize(2)); !errors.Is(err, ErrTooSmall) {
		t.Errorf("MarchingCubes resampled size error = %v, want %v", err, ErrTooSmall)
	}
}
