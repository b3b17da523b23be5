package marching

import "sync"

// Square cells use two edge directions and four corners. Corner bit order
// runs counterclockwise from the cell's minimum corner; cell edges are
// numbered along the corner cycle, so edge n joins corners n and n+1.
var (
	squareDirs = []edgeDirection{
		{step: []int{1, 0}},
		{step: []int{0, 1}},
	}

	squareCorners = [][]int{
		{0, 0},
		{1, 0},
		{1, 1},
		{0, 1},
	}

	squareEdges = []cellEdge{
		{delta: []int{0, 0}, dir: 0},
		{delta: []int{1, 0}, dir: 1},
		{delta: []int{0, 1}, dir: 0},
		{delta: []int{0, 0}, dir: 1},
	}
)

// squareRows maps each type code to its segments as pairs of cell edge
// numbers. Segments are directed with the inside region on the left.
// Codes 5 and 10 hold the separated saddle; codes 16 and 17 are their
// connected forms, selected by the resolver.
var squareRows = [][]int{
	0:  {},
	1:  {0, 3},
	2:  {1, 0},
	3:  {1, 3},
	4:  {2, 1},
	5:  {2, 1, 0, 3},
	6:  {2, 0},
	7:  {2, 3},
	8:  {3, 2},
	9:  {0, 2},
	10: {3, 2, 1, 0},
	11: {1, 2},
	12: {3, 1},
	13: {0, 1},
	14: {3, 0},
	15: {},
	16: {2, 3, 0, 1},
	17: {1, 2, 3, 0},
}

var (
	squarePrimsOnce sync.Once
	squarePrims     map[uint16][][]cellEdge
)

func squareTable() map[uint16][][]cellEdge {
	squarePrimsOnce.Do(func() {
		squarePrims = buildPrims(squareRows, squareEdges, 2)
	})
	return squarePrims
}

// resolveSquares rewrites the two saddle codes in place. The sign of the
// level-referenced corner product comparison decides which diagonal pair
// connects; a tie keeps the minimum-corner diagonal connected.
func resolveSquares(codes []uint16, v *Volume, level float64) {
	cs := cellShape(v.shape)
	ci := 0
	for x := 0; x < cs[0]; x++ {
		for y := 0; y < cs[1]; y++ {
			code := codes[ci]
			if code == 5 || code == 10 {
				v00 := v.At(x, y) - level
				v10 := v.At(x+1, y) - level
				v11 := v.At(x+1, y+1) - level
				v01 := v.At(x, y+1) - level
				t := v00*v11 < v01*v10
				if code == 5 && !t {
					codes[ci] = 16
				} else if code == 10 && t {
					codes[ci] = 17
				}
			}
			ci++
		}
	}
}
