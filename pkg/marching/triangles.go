package marching

import "sync"

// Triangle cells split each square along one diagonal, adding a third edge
// direction. Cell edge 4 is the diagonal; the remaining edges and corner
// bits match the square variant. The split removes the saddle ambiguity:
// each half-cell has three corners and a single triangulation per pattern.
var (
	triangleDirs = []edgeDirection{
		{step: []int{1, 0}},
		{step: []int{0, 1}},
		{step: []int{1, 1}},
	}

	triangleRevDirs = []edgeDirection{
		{step: []int{1, 0}},
		{step: []int{0, 1}},
		{step: []int{1, -1}},
	}

	triangleEdges = []cellEdge{
		{delta: []int{0, 0}, dir: 0},
		{delta: []int{1, 0}, dir: 1},
		{delta: []int{0, 1}, dir: 0},
		{delta: []int{0, 0}, dir: 1},
		{delta: []int{0, 0}, dir: 2},
	}

	triangleRevEdges = []cellEdge{
		{delta: []int{0, 0}, dir: 0},
		{delta: []int{1, 0}, dir: 1},
		{delta: []int{0, 1}, dir: 0},
		{delta: []int{0, 0}, dir: 1},
		{delta: []int{0, 1}, dir: 2},
	}
)

// triangleRows covers the split along the minimum-corner diagonal. The
// half-cell below the diagonal contributes its segment first. Saddle codes
// 5 and 10 fall apart into two unambiguous half-cells, so the table has no
// extended codes.
var triangleRows = [][]int{
	0:  {},
	1:  {0, 4, 4, 3},
	2:  {1, 0},
	3:  {1, 4, 4, 3},
	4:  {4, 1, 2, 4},
	5:  {0, 1, 2, 3},
	6:  {4, 0, 2, 4},
	7:  {2, 3},
	8:  {3, 2},
	9:  {0, 4, 4, 2},
	10: {1, 0, 3, 2},
	11: {1, 4, 4, 2},
	12: {4, 1, 3, 4},
	13: {0, 1},
	14: {4, 0, 3, 4},
	15: {},
}

// triangleRevRows covers the split along the opposite diagonal, which runs
// from the cell's top-left corner down to its bottom-right.
var triangleRevRows = [][]int{
	0:  {},
	1:  {0, 3},
	2:  {4, 0, 1, 4},
	3:  {4, 3, 1, 4},
	4:  {2, 1},
	5:  {0, 3, 2, 1},
	6:  {4, 0, 2, 4},
	7:  {4, 3, 2, 4},
	8:  {3, 4, 4, 2},
	9:  {0, 4, 4, 2},
	10: {3, 0, 1, 2},
	11: {1, 2},
	12: {3, 4, 4, 1},
	13: {0, 4, 4, 1},
	14: {3, 0},
	15: {},
}

var (
	trianglePrimsOnce sync.Once
	trianglePrims     map[uint16][][]cellEdge

	triangleRevPrimsOnce sync.Once
	triangleRevPrims     map[uint16][][]cellEdge
)

func triangleTable() map[uint16][][]cellEdge {
	trianglePrimsOnce.Do(func() {
		trianglePrims = buildPrims(triangleRows, triangleEdges, 2)
	})
	return trianglePrims
}

func triangleRevTable() map[uint16][][]cellEdge {
	triangleRevPrimsOnce.Do(func() {
		triangleRevPrims = buildPrims(triangleRevRows, triangleRevEdges, 2)
	})
	return triangleRevPrims
}
