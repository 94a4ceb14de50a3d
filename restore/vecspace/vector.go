package vecspace

import (
	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-restore/restore/core"
	"github.com/cwbudde/algo-restore/restore/shape"
)

// VectorT is a member vector of a SpaceT.
type VectorT[F algofft.Float] struct {
	space *SpaceT[F]
	data  []F
}

// Vector is the float64 specialization of VectorT.
type Vector = VectorT[float64]

// Vector32 is the float32 specialization of VectorT.
type Vector32 = VectorT[float32]

// Space returns the space the vector belongs to.
func (v *VectorT[F]) Space() *SpaceT[F] {
	return v.space
}

// Belongs reports whether v is a member of s.
func (v *VectorT[F]) Belongs(s *SpaceT[F]) bool {
	return v.space == s
}

// Shape returns the grid shape of the vector's space.
func (v *VectorT[F]) Shape() shape.Shape {
	return v.space.shape
}

// Len returns the number of elements.
func (v *VectorT[F]) Len() int {
	return len(v.data)
}

// Data returns the flat row-major backing buffer.
func (v *VectorT[F]) Data() []F {
	return v.data
}

// At returns element i of the flat buffer.
func (v *VectorT[F]) At(i int) F {
	return v.data[i]
}

// SetAt stores x at flat index i.
func (v *VectorT[F]) SetAt(i int, x F) {
	v.data[i] = x
}

// Fill sets every element to x.
func (v *VectorT[F]) Fill(x F) {
	for i := range v.data {
		v.data[i] = x
	}
}

// Zero sets every element to 0.
func (v *VectorT[F]) Zero() {
	core.Zero(v.data)
}

// Clone returns an independent copy of v in the same space.
func (v *VectorT[F]) Clone() *VectorT[F] {
	out := v.space.Create()
	core.CopyInto(out.data, v.data)
	return out
}

// CopyFrom copies src into v. Both vectors must belong to the same space.
func (v *VectorT[F]) CopyFrom(src *VectorT[F]) error {
	if err := v.space.CheckMember(src); err != nil {
		return err
	}
	core.CopyInto(v.data, src.data)
	return nil
}

// Dot returns the inner product of v and o, accumulated in float64.
func (v *VectorT[F]) Dot(o *VectorT[F]) (float64, error) {
	if err := v.space.CheckMember(o); err != nil {
		return 0, err
	}
	return dotBlock(v.data, o.data), nil
}

// Norm2 returns the Euclidean norm of v.
func (v *VectorT[F]) Norm2() float64 {
	return norm2Block(v.data)
}

// Scale multiplies every element by alpha in place.
func (v *VectorT[F]) Scale(alpha float64) {
	scaleBlock(v.data, alpha)
}

// Combine stores alpha*x + beta*y into v. All three vectors must belong to
// the same space.
func (v *VectorT[F]) Combine(alpha float64, x *VectorT[F], beta float64, y *VectorT[F]) error {
	if err := v.space.CheckMember(x); err != nil {
		return err
	}
	if err := v.space.CheckMember(y); err != nil {
		return err
	}
	combineBlock(v.data, alpha, x.data, beta, y.data)
	return nil
}
