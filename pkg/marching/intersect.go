package marching

import "math"

// edgeDirection is one of the edge orientations of a variant. An edge is
// identified by its start coordinate and a direction index; the edge runs
// from the start to start+step.
type edgeDirection struct {
	step []int
}

// cellEdge references an edge relative to a cell's minimum corner.
type cellEdge struct {
	delta []int
	dir   int
}

// crossings holds every straddling edge of the grid: the global edge id and
// the interpolated crossing position, aligned by index. Ids are emitted in
// direction-major, row-major order, so two runs over the same input produce
// identical slices.
type crossings struct {
	ids       []uint64
	positions [][]float64
}

// edgeID folds an edge start coordinate and direction index into the global
// edge id.
func edgeID(coord []int, dir int, mult []uint64) uint64 {
	id := uint64(dir)
	for i, c := range coord {
		id += uint64(c) * mult[i]
	}
	return id
}

// findCrossings scans every edge of the grid in each direction and records
// the ones whose endpoints straddle the level. The crossing position along
// the edge is placed by the interpolation mode on the level-referenced
// endpoint samples.
func findCrossings(v *Volume, inside []bool, level float64, dirs []edgeDirection, mult []uint64, interp Interpolation) *crossings {
	rank := v.Rank()
	cr := &crossings{}
	lo := make([]int, rank)
	hi := make([]int, rank)
	start := make([]int, rank)
	end := make([]int, rank)
	for d, dir := range dirs {
		for i := 0; i < rank; i++ {
			lo[i], hi[i] = 0, v.shape[i]-1
			if dir.step[i] > 0 {
				hi[i] -= dir.step[i]
			} else if dir.step[i] < 0 {
				lo[i] -= dir.step[i]
			}
			start[i] = lo[i]
		}
		for {
			for i := 0; i < rank; i++ {
				end[i] = start[i] + dir.step[i]
			}
			si, ei := v.offset(start), v.offset(end)
			if inside[si] != inside[ei] {
				a := v.data[si] - level
				b := v.data[ei] - level
				t := interpolate(a, b, interp)
				pos := make([]float64, rank)
				for i := 0; i < rank; i++ {
					pos[i] = float64(start[i]) + t*float64(dir.step[i])
				}
				cr.ids = append(cr.ids, edgeID(start, d, mult))
				cr.positions = append(cr.positions, pos)
			}
			i := rank - 1
			for ; i >= 0; i-- {
				start[i]++
				if start[i] <= hi[i] {
					break
				}
				start[i] = lo[i]
			}
			if i < 0 {
				break
			}
		}
	}
	return cr
}

// interpolate places the crossing parameter t in [0,1] between the
// level-referenced samples a (at the edge start) and b (at the edge end).
// A degenerate denominator falls back to the midpoint.
func interpolate(a, b float64, interp Interpolation) float64 {
	switch interp {
	case Halfway:
		return 0.5
	case Cosine:
		d := b - a
		if d == 0 {
			return 0.5
		}
		return math.Acos((b+a)/d) / math.Pi
	default:
		d := a - b
		if d == 0 {
			return 0.5
		}
		return a / d
	}
}
