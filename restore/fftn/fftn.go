// Package fftn provides in-place multi-dimensional complex FFTs for rank-1
// to rank-3 grids, built from one-dimensional algo-fft plans applied along
// every axis of a flat row-major buffer.
//
// The inverse transform carries the engine's 1/N normalization, so
// Inverse(Forward(z)) recovers z. Transforms are not safe for concurrent use:
// each instance owns its plans and their scratch space, and instances must
// not be shared between concurrently running operators.
package fftn

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-restore/restore/shape"
)

// Errors returned by multi-dimensional transforms.
var (
	ErrUnsupportedRank = errors.New("fftn: rank must be between 1 and 3")
	ErrLengthMismatch  = errors.New("fftn: buffer length mismatch")
)

// maxRank is a structural limit shared with the convolution operators.
const maxRank = 3

// TransformT computes forward and inverse FFTs over a fixed multi-dimensional
// grid. The type parameter C selects the complex precision.
type TransformT[C algofft.Complex] struct {
	dims    shape.Shape
	strides []int
	n       int

	// 1-D plans, lazily created and cached per distinct axis length.
	plans map[int]*algofft.Plan[C]
}

// Transform is the complex128 specialization of TransformT.
type Transform = TransformT[complex128]

// Transform32 is the complex64 specialization of TransformT.
type Transform32 = TransformT[complex64]

// NewTransformT creates a transform for the given grid dimensions.
func NewTransformT[C algofft.Complex](dims ...int) (*TransformT[C], error) {
	s, err := shape.New(dims...)
	if err != nil {
		return nil, fmt.Errorf("fftn: %w", err)
	}
	if s.Rank() > maxRank {
		return nil, fmt.Errorf("%w: got rank %d", ErrUnsupportedRank, s.Rank())
	}

	return &TransformT[C]{
		dims:    s,
		strides: s.Strides(),
		n:       s.Len(),
		plans:   make(map[int]*algofft.Plan[C]),
	}, nil
}

// NewTransform creates a complex128 transform.
func NewTransform(dims ...int) (*Transform, error) {
	return NewTransformT[complex128](dims...)
}

// NewTransform32 creates a complex64 transform.
func NewTransform32(dims ...int) (*Transform32, error) {
	return NewTransformT[complex64](dims...)
}

// Dims returns the grid dimensions.
func (t *TransformT[C]) Dims() shape.Shape {
	return t.dims
}

// Len returns the total number of grid elements.
func (t *TransformT[C]) Len() int {
	return t.n
}

// Forward computes the forward FFT of buf in place.
// buf must hold exactly Len() elements in row-major order.
func (t *TransformT[C]) Forward(buf []C) error {
	return t.transform(buf, false)
}

// Inverse computes the inverse FFT of buf in place, scaled by 1/Len().
func (t *TransformT[C]) Inverse(buf []C) error {
	return t.transform(buf, true)
}

func (t *TransformT[C]) transform(buf []C, inverse bool) error {
	if len(buf) != t.n {
		return fmt.Errorf("%w: got %d elements, expected %d", ErrLengthMismatch, len(buf), t.n)
	}

	for axis, n := range t.dims {
		plan, err := t.plan(n)
		if err != nil {
			return err
		}

		stride := t.strides[axis]
		outer := 1
		for _, d := range t.dims[:axis] {
			outer *= d
		}

		// One strided 1-D transform per grid line along this axis.
		for o := 0; o < outer; o++ {
			for i := 0; i < stride; i++ {
				line := buf[o*n*stride+i:]
				if err := plan.TransformStrided(line, line, stride, inverse); err != nil {
					return fmt.Errorf("fftn: axis %d transform failed: %w", axis, err)
				}
			}
		}
	}

	return nil
}

// plan returns the cached 1-D plan for length n, creating it on first use.
func (t *TransformT[C]) plan(n int) (*algofft.Plan[C], error) {
	if p, ok := t.plans[n]; ok {
		return p, nil
	}

	p, err := algofft.NewPlanT[C](n)
	if err != nil {
		return nil, fmt.Errorf("fftn: failed to create FFT plan for length %d: %w", n, err)
	}
	t.plans[n] = p
	return p, nil
}
