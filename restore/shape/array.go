package shape

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Array is a shaped numeric array backed by a flat row-major buffer.
//
// The type parameter F selects the element precision (float32 or float64).
type Array[F algofft.Float] struct {
	shape Shape
	data  []F
}

// NewArray allocates a zero-filled array of the given shape.
func NewArray[F algofft.Float](s Shape) (*Array[F], error) {
	if len(s) == 0 {
		return nil, ErrEmptyShape
	}
	return &Array[F]{shape: s.Clone(), data: make([]F, s.Len())}, nil
}

// FromSlice wraps an existing flat row-major buffer as a shaped array.
// The buffer is referenced, not copied.
func FromSlice[F algofft.Float](data []F, dims ...int) (*Array[F], error) {
	s, err := New(dims...)
	if err != nil {
		return nil, err
	}
	if len(data) != s.Len() {
		return nil, fmt.Errorf("%w: %d elements for shape of %d", ErrLengthMismatch, len(data), s.Len())
	}
	return &Array[F]{shape: s, data: data}, nil
}

// Shape returns the array's shape.
func (a *Array[F]) Shape() Shape {
	return a.shape
}

// Rank returns the number of axes.
func (a *Array[F]) Rank() int {
	return a.shape.Rank()
}

// Dim returns the length of axis k.
func (a *Array[F]) Dim(k int) int {
	return a.shape.Dim(k)
}

// Len returns the number of elements.
func (a *Array[F]) Len() int {
	return len(a.data)
}

// Data returns the flat row-major backing buffer.
func (a *Array[F]) Data() []F {
	return a.data
}

// At returns the element at the given multi-index. Indices are trusted.
func (a *Array[F]) At(idx ...int) F {
	return a.data[FlatOffset(a.shape, idx)]
}

// Clone returns an independent copy of the array.
func (a *Array[F]) Clone() *Array[F] {
	data := make([]F, len(a.data))
	copy(data, a.data)
	return &Array[F]{shape: a.shape.Clone(), data: data}
}

// Sum returns the sum of all elements, accumulated in float64.
func (a *Array[F]) Sum() float64 {
	var sum float64
	for _, v := range a.data {
		sum += float64(v)
	}
	return sum
}

// Scale multiplies every element by s in place.
func (a *Array[F]) Scale(s float64) {
	if d, ok := any(a.data).([]float64); ok {
		vecmath.ScaleBlockInPlace(d, s)
		return
	}
	for i := range a.data {
		a.data[i] = F(float64(a.data[i]) * s)
	}
}

// ToFloat64 converts the array to float64 precision.
// The conversion is lazy: a float64 array is returned unchanged.
func ToFloat64[F algofft.Float](a *Array[F]) *Array[float64] {
	if same, ok := any(a).(*Array[float64]); ok {
		return same
	}
	out := make([]float64, len(a.data))
	for i, v := range a.data {
		out[i] = float64(v)
	}
	return &Array[float64]{shape: a.shape.Clone(), data: out}
}

// ToFloat32 converts the array to float32 precision.
// The conversion is lazy: a float32 array is returned unchanged.
func ToFloat32[F algofft.Float](a *Array[F]) *Array[float32] {
	if same, ok := any(a).(*Array[float32]); ok {
		return same
	}
	out := make([]float32, len(a.data))
	for i, v := range a.data {
		out[i] = float32(v)
	}
	return &Array[float32]{shape: a.shape.Clone(), data: out}
}

// PadTo embeds the array into a zero-filled array of the target shape, with
// the first element placed at the per-axis origin.
func (a *Array[F]) PadTo(target Shape, origin []int) (*Array[F], error) {
	rank := a.shape.Rank()
	if target.Rank() != rank || len(origin) != rank {
		return nil, fmt.Errorf("%w: array rank %d, target rank %d, origin length %d",
			ErrRankMismatch, rank, target.Rank(), len(origin))
	}
	for k := range origin {
		if origin[k] < 0 || origin[k]+a.shape[k] > target[k] {
			return nil, fmt.Errorf("%w: axis %d: origin %d with extent %d exceeds %d",
				ErrOffsetOutOfRange, k, origin[k], a.shape[k], target[k])
		}
	}

	out := &Array[F]{shape: target.Clone(), data: make([]F, target.Len())}
	srcStrides := a.shape.Strides()
	dstStrides := target.Strides()
	rowLen := a.shape[rank-1]

	eachRow(a.shape, func(idx []int) {
		srcBase := 0
		dstBase := origin[rank-1]
		for k := range idx {
			srcBase += idx[k] * srcStrides[k]
			dstBase += (origin[k] + idx[k]) * dstStrides[k]
		}
		copy(out.data[dstBase:dstBase+rowLen], a.data[srcBase:srcBase+rowLen])
	})

	return out, nil
}

// Roll cyclically rotates the array by shift[k] elements along every axis.
// Negative and out-of-range shifts wrap.
func (a *Array[F]) Roll(shift []int) (*Array[F], error) {
	rank := a.shape.Rank()
	if len(shift) != rank {
		return nil, fmt.Errorf("%w: shift length %d, rank %d", ErrRankMismatch, len(shift), rank)
	}

	wrapped := make([]int, rank)
	for k := range shift {
		n := a.shape[k]
		wrapped[k] = ((shift[k] % n) + n) % n
	}

	out := &Array[F]{shape: a.shape.Clone(), data: make([]F, len(a.data))}
	strides := a.shape.Strides()
	rowLen := a.shape[rank-1]
	rowShift := wrapped[rank-1]

	eachRow(a.shape, func(idx []int) {
		srcBase := 0
		dstBase := 0
		for k := range idx {
			srcBase += idx[k] * strides[k]
			dstBase += ((idx[k] + wrapped[k]) % a.shape[k]) * strides[k]
		}
		// Rotate the contiguous row by rowShift.
		copy(out.data[dstBase+rowShift:dstBase+rowLen], a.data[srcBase:srcBase+rowLen-rowShift])
		copy(out.data[dstBase:dstBase+rowShift], a.data[srcBase+rowLen-rowShift:srcBase+rowLen])
	})

	return out, nil
}
