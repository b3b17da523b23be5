package marching

import "fmt"

// converter maps global edge ids to dense vertex indices. It is built once
// from the ordered crossing ids; the vertex index of an id is its position
// in that ordering.
type converter struct {
	index map[uint64]int
}

func newConverter(ids []uint64) *converter {
	c := &converter{index: make(map[uint64]int, len(ids))}
	for i, id := range ids {
		c.index[id] = i
	}
	return c
}

// lookup returns the vertex index of a crossing edge. The geometry stage
// only references edges of straddling cells, so a missing id means the
// tables and the classifier disagree; that is a bug, not bad input.
func (c *converter) lookup(id uint64) int {
	i, ok := c.index[id]
	if !ok {
		panic(fmt.Sprintf("marching: no crossing for edge id %d", id))
	}
	return i
}

// find is the non-panicking lookup used where an edge may legitimately not
// cross.
func (c *converter) find(id uint64) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}
