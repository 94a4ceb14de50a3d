// Package shape provides rectangular shapes, centered-offset arithmetic, and
// shaped numeric arrays for imaging problems.
//
// Shapes describe rank-1 to rank-3 grids stored in row-major order (last axis
// fastest). The package supplies the sub-region offset rules used to place a
// data region inside an object region, and shaped arrays with the zero-pad
// and cyclic-roll primitives needed to install convolution kernels.
package shape

import (
	"errors"
	"fmt"
)

// Errors returned by shape operations.
var (
	ErrEmptyShape       = errors.New("shape: empty shape")
	ErrBadDimension     = errors.New("shape: dimension must be positive")
	ErrRankMismatch     = errors.New("shape: rank mismatch")
	ErrOffsetOutOfRange = errors.New("shape: offset out of range")
	ErrLengthMismatch   = errors.New("shape: buffer length mismatch")
)

// Shape is the list of grid dimensions, slowest axis first (row-major
// storage, last axis fastest).
type Shape []int

// New validates dims and returns them as a Shape.
func New(dims ...int) (Shape, error) {
	if len(dims) == 0 {
		return nil, ErrEmptyShape
	}
	for k, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("%w: dims[%d] = %d", ErrBadDimension, k, d)
		}
	}
	s := make(Shape, len(dims))
	copy(s, dims)
	return s, nil
}

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// Dim returns the length of axis k.
func (s Shape) Dim(k int) int {
	return s[k]
}

// Len returns the total number of grid elements.
func (s Shape) Len() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Equal reports whether s and o have identical rank and dimensions.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if s[k] != o[k] {
			return false
		}
	}
	return true
}

// Contains reports whether o fits inside s along every axis.
// Shapes of different rank never contain each other.
func (s Shape) Contains(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if o[k] > s[k] {
			return false
		}
	}
	return true
}

// Strides returns the row-major element strides: the last axis has stride 1.
func (s Shape) Strides() []int {
	str := make([]int, len(s))
	acc := 1
	for k := len(s) - 1; k >= 0; k-- {
		str[k] = acc
		acc *= s[k]
	}
	return str
}

// Clone returns an independent copy of s.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Centered returns the per-axis offset that centers sub inside object:
// object[k]/2 - sub[k]/2. Returns an error when ranks differ or sub exceeds
// object along any axis.
func Centered(object, sub Shape) ([]int, error) {
	if len(object) != len(sub) {
		return nil, fmt.Errorf("%w: object rank %d, sub rank %d", ErrRankMismatch, len(object), len(sub))
	}

	offset := make([]int, len(object))
	for k := range object {
		if sub[k] > object[k] {
			return nil, fmt.Errorf("%w: axis %d: sub %d > object %d", ErrOffsetOutOfRange, k, sub[k], object[k])
		}
		offset[k] = object[k]/2 - sub[k]/2
	}
	return offset, nil
}

// CheckOffset validates an explicit sub-region offset against
// 0 <= offset[k] <= object[k]-sub[k] for every axis.
func CheckOffset(object, sub Shape, offset []int) error {
	if len(object) != len(sub) {
		return fmt.Errorf("%w: object rank %d, sub rank %d", ErrRankMismatch, len(object), len(sub))
	}
	if len(offset) != len(object) {
		return fmt.Errorf("%w: offset length %d, rank %d", ErrRankMismatch, len(offset), len(object))
	}

	for k := range object {
		if sub[k] > object[k] {
			return fmt.Errorf("%w: axis %d: sub %d > object %d", ErrOffsetOutOfRange, k, sub[k], object[k])
		}
		if offset[k] < 0 || offset[k] > object[k]-sub[k] {
			return fmt.Errorf("%w: axis %d: offset %d not in [0, %d]",
				ErrOffsetOutOfRange, k, offset[k], object[k]-sub[k])
		}
	}
	return nil
}

// FlatOffset returns the row-major flat index of the given multi-index.
// Indices are trusted; callers validate through CheckOffset first.
func FlatOffset(s Shape, idx []int) int {
	flat := 0
	for k, str := range s.Strides() {
		flat += idx[k] * str
	}
	return flat
}

// eachRow invokes fn with every multi-index over the slow axes dims[:rank-1],
// in row-major order. The index slice is reused between calls.
func eachRow(dims []int, fn func(idx []int)) {
	rank := len(dims)
	idx := make([]int, rank-1)
	for {
		fn(idx)

		k := rank - 2
		for k >= 0 {
			idx[k]++
			if idx[k] < dims[k] {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return
		}
	}
}
