package marching

import (
	"errors"
	"fmt"
)

// Sentinel errors reported for malformed inputs. Internal invariant
// violations (impossible type codes, inconsistent vertex pools) panic
// instead: they indicate a table or classification bug, not bad input.
var (
	// ErrBadShape indicates the data length does not match the shape.
	ErrBadShape = errors.New("marching: data length does not match shape")
	// ErrBadRank indicates the volume rank does not fit the selected variant.
	ErrBadRank = errors.New("marching: volume rank does not match variant")
	// ErrTooSmall indicates an axis with fewer than two samples.
	ErrTooSmall = errors.New("marching: volume needs at least two samples per axis")
	// ErrBadStep indicates a non-positive step size option.
	ErrBadStep = errors.New("marching: step size must be at least 1")
)

// Volume is a scalar field sampled on a regular grid. Samples are stored
// flat in row-major order (last axis varies fastest). A Volume is read-only
// once constructed; the pipeline never mutates it, so a single Volume may
// be shared by concurrent extractions.
type Volume struct {
	shape []int
	data  []float64
}

// NewVolume wraps data with the given shape. The data slice is retained,
// not copied; the caller must not mutate it while the volume is in use.
func NewVolume(shape []int, data []float64) (*Volume, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: empty shape", ErrBadShape)
	}
	n := 1
	for _, s := range shape {
		if s < 1 {
			return nil, fmt.Errorf("%w: axis size %d", ErrBadShape, s)
		}
		n *= s
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: shape %v wants %d samples, got %d", ErrBadShape, shape, n, len(data))
	}
	cp := make([]int, len(shape))
	copy(cp, shape)
	return &Volume{shape: cp, data: data}, nil
}

// Rank returns the number of axes.
func (v *Volume) Rank() int { return len(v.shape) }

// Shape returns a copy of the per-axis sample counts.
func (v *Volume) Shape() []int {
	cp := make([]int, len(v.shape))
	copy(cp, v.shape)
	return cp
}

// At returns the sample at the given grid coordinate.
func (v *Volume) At(coord ...int) float64 {
	return v.data[v.offset(coord)]
}

// offset converts a grid coordinate to a flat index.
func (v *Volume) offset(coord []int) int {
	off := 0
	for i, c := range coord {
		off = off*v.shape[i] + c
	}
	return off
}

// test applies the level comparison once for the whole grid.
// Inside means sample >= level; this is the single place the
// inclusive/exclusive convention is decided.
func (v *Volume) test(level float64) []bool {
	t := make([]bool, len(v.data))
	for i, s := range v.data {
		t[i] = s >= level
	}
	return t
}

// downsample returns a new volume holding every step-th sample per axis.
func (v *Volume) downsample(step int) *Volume {
	shape := make([]int, len(v.shape))
	n := 1
	for i, s := range v.shape {
		shape[i] = (s + step - 1) / step
		n *= shape[i]
	}
	data := make([]float64, 0, n)
	coord := make([]int, len(shape))
	for {
		src := make([]int, len(coord))
		for i, c := range coord {
			src[i] = c * step
		}
		data = append(data, v.data[v.offset(src)])
		i := len(coord) - 1
		for ; i >= 0; i-- {
			coord[i]++
			if coord[i] < shape[i] {
				break
			}
			coord[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return &Volume{shape: shape, data: data}
}

// sizeMultiplier returns the per-axis factors that map a grid coordinate
// plus a direction index to a unique global edge id:
//
//	id = sum(coord[i]*mult[i]) + direction
//
// It is the row-major reversed cumulative product of the shape, scaled by
// the number of edge directions of the variant.
func (v *Volume) sizeMultiplier(nDirs int) []uint64 {
	mult := make([]uint64, len(v.shape))
	acc := uint64(nDirs)
	for i := len(v.shape) - 1; i >= 0; i-- {
		mult[i] = acc
		acc *= uint64(v.shape[i])
	}
	return mult
}

// checkVolume verifies rank and minimum extent before the pipeline runs.
// It is the pre-check collaborator: the stages past it assume a well-formed
// volume.
func checkVolume(v *Volume, rank, minSize int) error {
	if v.Rank() != rank {
		return fmt.Errorf("%w: want rank %d, got %d", ErrBadRank, rank, v.Rank())
	}
	for _, s := range v.shape {
		if s < minSize {
			return fmt.Errorf("%w: shape %v", ErrTooSmall, v.shape)
		}
	}
	return nil
}
