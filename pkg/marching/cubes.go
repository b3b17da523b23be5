package marching

import "sync"

// Cube cells use three edge directions, eight corners and the classic
// twelve-edge numbering. Corner bits 0..3 run counterclockwise around the
// bottom face starting at the cell's minimum corner; bits 4..7 repeat the
// cycle on the top face.
var (
	cubeDirs = []edgeDirection{
		{step: []int{1, 0, 0}},
		{step: []int{0, 1, 0}},
		{step: []int{0, 0, 1}},
	}

	cubeCorners = [][]int{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 1},
		{1, 1, 1},
		{0, 1, 1},
	}

	cubeEdges = []cellEdge{
		{delta: []int{0, 0, 0}, dir: 0},
		{delta: []int{1, 0, 0}, dir: 1},
		{delta: []int{0, 1, 0}, dir: 0},
		{delta: []int{0, 0, 0}, dir: 1},
		{delta: []int{0, 0, 1}, dir: 0},
		{delta: []int{1, 0, 1}, dir: 1},
		{delta: []int{0, 1, 1}, dir: 0},
		{delta: []int{0, 0, 1}, dir: 1},
		{delta: []int{0, 0, 0}, dir: 2},
		{delta: []int{1, 0, 0}, dir: 2},
		{delta: []int{1, 1, 0}, dir: 2},
		{delta: []int{0, 1, 0}, dir: 2},
	}

	// cubeEdgeCorners lists the corner pair of each cube edge.
	cubeEdgeCorners = [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}

	// cubeFaces lists each face's corner cycle, counterclockwise when
	// viewed from outside the cube and anchored at the face's minimum
	// corner. Anchoring makes the cycle's main diagonal agree between the
	// two cells sharing a face, so the saddle tie-break does too.
	cubeFaces = [6][4]int{
		{0, 3, 2, 1},
		{4, 5, 6, 7},
		{0, 1, 5, 4},
		{3, 7, 6, 2},
		{0, 4, 7, 3},
		{1, 2, 6, 5},
	}
)

// edgeOfCorners maps an unordered corner pair to its cube edge number.
var edgeOfCorners = func() [8][8]int8 {
	var m [8][8]int8
	for i := range m {
		for j := range m[i] {
			m[i][j] = -1
		}
	}
	for e, cc := range cubeEdgeCorners {
		m[cc[0]][cc[1]] = int8(e)
		m[cc[1]][cc[0]] = int8(e)
	}
	return m
}()

// cubeTable holds the generated triangulations. Raw codes 0..255 carry the
// default (separated) saddle handling; every other connectivity choice of
// an ambiguous code gets an extended code from 256 up, one per non-zero
// face connectivity mask.
type cubeTable struct {
	prims    map[uint16][][]cellEdge
	extended map[uint16][]uint16
	ambFaces map[uint16][]int
}

var (
	cubeTableOnce sync.Once
	cubeTab       *cubeTable
)

func cubeGeometry() *cubeTable {
	cubeTableOnce.Do(func() {
		cubeTab = buildCubeTable()
	})
	return cubeTab
}

func buildCubeTable() *cubeTable {
	t := &cubeTable{
		prims:    make(map[uint16][][]cellEdge),
		extended: make(map[uint16][]uint16),
		ambFaces: make(map[uint16][]int),
	}
	next := uint16(256)
	for code := uint16(0); code < 256; code++ {
		amb := ambiguousFaces(code)
		t.prims[code] = triangulateCube(code, amb, 0)
		if len(amb) == 0 {
			continue
		}
		t.ambFaces[code] = amb
		variants := make([]uint16, 1<<len(amb))
		variants[0] = code
		for mask := 1; mask < 1<<len(amb); mask++ {
			variants[mask] = next
			t.prims[next] = triangulateCube(code, amb, mask)
			next++
		}
		t.extended[code] = variants
	}
	return t
}

func cornerInside(code uint16, corner int) bool {
	return code&(1<<corner) != 0
}

// ambiguousFaces returns the faces whose four corners alternate inside and
// outside around the cycle. Each such face admits two contour pairings.
func ambiguousFaces(code uint16) []int {
	var amb []int
	for f, cyc := range cubeFaces {
		i0 := cornerInside(code, cyc[0])
		i1 := cornerInside(code, cyc[1])
		if i0 == cornerInside(code, cyc[2]) && i1 == cornerInside(code, cyc[3]) && i0 != i1 {
			amb = append(amb, f)
		}
	}
	return amb
}

// triangulateCube builds the triangle list for one corner pattern and one
// per-face connectivity choice. Each face contributes directed contour
// segments between its crossing edges, with the inside region on the left
// viewed from outside; the segments chain tail to head into closed polygons,
// which are fan triangulated. The resulting winding matches the classic
// tables: case 1 comes out as edges 0, 8, 3.
func triangulateCube(code uint16, amb []int, mask int) [][]cellEdge {
	if code == 0 || code == 255 {
		return nil
	}
	var succ [12]int8
	for i := range succ {
		succ[i] = -1
	}
	for f, cyc := range cubeFaces {
		var edges [4]int8
		var exits [4]bool
		n := 0
		for k := 0; k < 4; k++ {
			a, b := cyc[k], cyc[(k+1)%4]
			ia, ib := cornerInside(code, a), cornerInside(code, b)
			if ia == ib {
				continue
			}
			edges[n] = edgeOfCorners[a][b]
			exits[n] = ia
			n++
		}
		switch n {
		case 0:
		case 2:
			if exits[0] {
				succ[edges[0]] = edges[1]
			} else {
				succ[edges[1]] = edges[0]
			}
		case 4:
			// Crossings alternate exit and entry around the cycle. The
			// separated pairing sends each exit to the entry just behind
			// it; the connected pairing sends it to the one ahead.
			connected := false
			for bi, af := range amb {
				if af == f {
					connected = mask&(1<<bi) != 0
				}
			}
			for k := 0; k < 4; k++ {
				if !exits[k] {
					continue
				}
				if connected {
					succ[edges[k]] = edges[(k+1)%4]
				} else {
					succ[edges[k]] = edges[(k+3)%4]
				}
			}
		}
	}

	var tris [][]cellEdge
	var done [12]bool
	for start := 0; start < 12; start++ {
		if succ[start] < 0 || done[start] {
			continue
		}
		var poly []int8
		for e := int8(start); !done[e]; e = succ[e] {
			done[e] = true
			poly = append(poly, e)
		}
		for i := 1; i+1 < len(poly); i++ {
			tris = append(tris, []cellEdge{
				cubeEdges[poly[0]],
				cubeEdges[poly[i]],
				cubeEdges[poly[i+1]],
			})
		}
	}
	return tris
}

// resolveCubes rewrites saddle codes in place using the face test: the
// sign of the cycle-diagonal product difference picks which diagonal pair
// of the face connects, with ties keeping the anchor diagonal. Both cells
// sharing a face see the same cycle, so their choices always agree.
func resolveCubes(codes []uint16, v *Volume, level float64, t *cubeTable) {
	cs := cellShape(v.shape)
	ci := 0
	for x := 0; x < cs[0]; x++ {
		for y := 0; y < cs[1]; y++ {
			for z := 0; z < cs[2]; z++ {
				code := codes[ci]
				if variants, ok := t.extended[code]; ok {
					mask := 0
					for bi, f := range t.ambFaces[code] {
						if faceConnected(v, level, x, y, z, f) {
							mask |= 1 << bi
						}
					}
					if mask != 0 {
						codes[ci] = variants[mask]
					}
				}
				ci++
			}
		}
	}
}

func faceConnected(v *Volume, level float64, x, y, z, face int) bool {
	var val [4]float64
	for k, c := range cubeFaces[face] {
		off := cubeCorners[c]
		val[k] = v.At(x+off[0], y+off[1], z+off[2]) - level
	}
	d := val[0]*val[2] - val[1]*val[3]
	return (d >= 0) == (val[0] >= 0)
}
