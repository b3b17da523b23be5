package marching

// lookupGeometry maps each cell's resolved type code through the primitive
// table and converts the referenced edges to vertex indices. Primitives are
// emitted in row-major cell order, in table order within a cell.
func lookupGeometry(codes []uint16, cs []int, prims map[uint16][][]cellEdge, mult []uint64, conv *converter) [][]int {
	var out [][]int
	cell := make([]int, len(cs))
	coord := make([]int, len(cs))
	for ci := range codes {
		for _, prim := range prims[codes[ci]] {
			idx := make([]int, len(prim))
			for k, e := range prim {
				for i := range coord {
					coord[i] = cell[i] + e.delta[i]
				}
				idx[k] = conv.lookup(edgeID(coord, e.dir, mult))
			}
			out = append(out, idx)
		}
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
	return out
}

// buildPrims expands a table of per-code edge number lists into cellEdge
// primitives of the given arity, using the variant's edge definitions.
func buildPrims(rows [][]int, edges []cellEdge, arity int) map[uint16][][]cellEdge {
	prims := make(map[uint16][][]cellEdge, len(rows))
	for code, row := range rows {
		var ps [][]cellEdge
		for i := 0; i+arity <= len(row); i += arity {
			p := make([]cellEdge, arity)
			for k := 0; k < arity; k++ {
				p[k] = edges[row[i+k]]
			}
			ps = append(ps, p)
		}
		prims[uint16(code)] = ps
	}
	return prims
}
