package marching

// cellShape returns the per-axis cell counts, one less than the sample
// counts.
func cellShape(shape []int) []int {
	cs := make([]int, len(shape))
	for i, s := range shape {
		cs[i] = s - 1
	}
	return cs
}

// classifyCells folds the corner sign pattern of every cell into a type
// code. Bit b of the code is set when corner b of the cell is inside.
// Codes are returned in row-major cell order.
func classifyCells(v *Volume, inside []bool, corners [][]int) []uint16 {
	cs := cellShape(v.shape)
	n := 1
	for _, s := range cs {
		n *= s
	}
	codes := make([]uint16, 0, n)
	cell := make([]int, len(cs))
	corner := make([]int, len(cs))
	for {
		var code uint16
		for b, off := range corners {
			for i := range cell {
				corner[i] = cell[i] + off[i]
			}
			if inside[v.offset(corner)] {
				code |= 1 << b
			}
		}
		codes = append(codes, code)
		i := len(cell) - 1
		for ; i >= 0; i-- {
			cell[i]++
			if cell[i] < cs[i] {
				break
			}
			cell[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return codes
}
