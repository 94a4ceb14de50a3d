// Package vecspace provides rectangular vector spaces and their member
// vectors for imaging inverse problems.
//
// A space is defined by a shape (rank 1-3 grid) and an element precision;
// vectors are flat row-major buffers belonging to exactly one space. All
// public vector operations validate space membership; the low-level kernels
// trust their inputs and are reached only through the checked entry points.
package vecspace

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-restore/restore/shape"
)

// Errors returned by space and vector operations.
var (
	ErrSpaceMismatch = errors.New("vecspace: vector does not belong to this space")
	ErrNilVector     = errors.New("vecspace: nil vector")
)

// SpaceT is a vector space over a rectangular grid.
//
// Two vectors belong to the same space only when they were created from the
// same SpaceT instance; equality of shapes is not sufficient.
type SpaceT[F algofft.Float] struct {
	shape shape.Shape
}

// Space is the float64 specialization of SpaceT.
type Space = SpaceT[float64]

// Space32 is the float32 specialization of SpaceT.
type Space32 = SpaceT[float32]

// NewSpaceT creates a vector space over the given grid dimensions.
func NewSpaceT[F algofft.Float](dims ...int) (*SpaceT[F], error) {
	s, err := shape.New(dims...)
	if err != nil {
		return nil, fmt.Errorf("vecspace: %w", err)
	}
	return &SpaceT[F]{shape: s}, nil
}

// NewSpace creates a float64 vector space.
func NewSpace(dims ...int) (*Space, error) {
	return NewSpaceT[float64](dims...)
}

// NewSpace32 creates a float32 vector space.
func NewSpace32(dims ...int) (*Space32, error) {
	return NewSpaceT[float32](dims...)
}

// Shape returns the grid shape of the space.
func (s *SpaceT[F]) Shape() shape.Shape {
	return s.shape
}

// Rank returns the number of grid axes.
func (s *SpaceT[F]) Rank() int {
	return s.shape.Rank()
}

// Dim returns the length of axis k.
func (s *SpaceT[F]) Dim(k int) int {
	return s.shape.Dim(k)
}

// Len returns the number of elements of member vectors.
func (s *SpaceT[F]) Len() int {
	return s.shape.Len()
}

// Create returns a new zero-filled member vector.
func (s *SpaceT[F]) Create() *VectorT[F] {
	return &VectorT[F]{space: s, data: make([]F, s.shape.Len())}
}

// Wrap adopts an existing flat row-major buffer as a member vector.
// The buffer is referenced, not copied.
func (s *SpaceT[F]) Wrap(data []F) (*VectorT[F], error) {
	if len(data) != s.shape.Len() {
		return nil, fmt.Errorf("vecspace: %w: %d elements for space of %d",
			shape.ErrLengthMismatch, len(data), s.shape.Len())
	}
	return &VectorT[F]{space: s, data: data}, nil
}

// CheckMember returns ErrSpaceMismatch unless v belongs to s.
func (s *SpaceT[F]) CheckMember(v *VectorT[F]) error {
	if v == nil {
		return ErrNilVector
	}
	if v.space != s {
		return ErrSpaceMismatch
	}
	return nil
}
