package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/isomesh/pkg/marching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMesh() *marching.Mesh {
	return &marching.Mesh{
		Vertices: [][3]float64{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		Triangles: [][3]int{
			{0, 1, 2},
			{0, 3, 1},
			{0, 2, 3},
			{1, 3, 2},
		},
	}
}

func TestTriangles(t *testing.T) {
	tris := Triangles(testMesh())
	require.Len(t, tris, 4)
	assert.Equal(t, 0.0, tris[0][0].X)
	assert.Equal(t, 1.0, tris[0][1].X)
	assert.Equal(t, 1.0, tris[0][2].Y)
}

func TestSaveSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	require.NoError(t, SaveSTL(path, testMesh()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	// Binary STL: 80 byte header, 4 byte count, 50 bytes per triangle.
	assert.Equal(t, int64(84+4*50), info.Size())
}

func TestSaveSegments(t *testing.T) {
	c := &marching.Contour{
		Vertices: [][2]float64{{0, 0}, {1, 0}, {1, 1}},
		Segments: [][2]int{{0, 1}, {1, 2}, {2, 0}},
	}
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, SaveSegments(path, c))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "0 0 1 0\n1 0 1 1\n1 1 0 0\n"
	assert.Equal(t, want, string(data))
}

func TestSaveSegmentsReportsWriteError(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full on this system")
	}
	c := &marching.Contour{
		Vertices: [][2]float64{{0, 0}, {1, 0}},
		Segments: [][2]int{{0, 1}},
	}
	assert.Error(t, SaveSegments("/dev/full", c))
}

func TestSaveSegmentsRejectsEmptyContour(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	assert.Error(t, SaveSegments(path, &marching.Contour{}))
}

func TestSaveSTLRejectsEmptyMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	err := SaveSTL(path, &marching.Mesh{})
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
