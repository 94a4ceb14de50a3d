package conv

import (
	"fmt"
	"time"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-restore/restore/fftn"
	"github.com/cwbudde/algo-restore/restore/shape"
	"github.com/cwbudde/algo-restore/restore/vecspace"
)

// maxRank is the structural rank limit of the operator family.
const maxRank = 3

// OperatorT is a cyclic convolution operator between an object space and a
// data space whose grid fits inside the object grid at a fixed offset.
//
// The operator is invalid until a PSF has been installed through SetPSF or
// SetCenteredPSF; applying an uninitialized operator returns ErrNoPSF.
// Every call mutates the shared workspace in place, so calls on one instance
// must be serialized by the caller.
type OperatorT[F algofft.Float, C algofft.Complex] struct {
	object *vecspace.SpaceT[F]
	data   *vecspace.SpaceT[F]

	offset     []int // data-region origin inside the object grid, per axis
	objStrides []int

	fft *fftn.TransformT[C]
	wsp []C // complex workspace, object-space extent
	mtf []C // cached PSF transform, valid iff ready

	ready bool

	elapsed    time.Duration
	elapsedFFT time.Duration
}

// Operator is the float64 specialization of OperatorT.
type Operator = OperatorT[float64, complex128]

// Operator32 is the float32 specialization of OperatorT.
type Operator32 = OperatorT[float32, complex64]

// NewT creates a convolution operator between object and data spaces.
//
// offset gives the position of the data region's first element inside the
// object grid; nil derives the centered default objectDim/2 - dataDim/2 per
// axis. Explicit offsets must satisfy 0 <= offset[k] <= objectDim[k]-dataDim[k].
func NewT[F algofft.Float, C algofft.Complex](object, data *vecspace.SpaceT[F], offset []int) (*OperatorT[F, C], error) {
	if object == nil || data == nil {
		return nil, ErrNilSpace
	}
	if object.Rank() > maxRank {
		return nil, fmt.Errorf("%w: got rank %d", ErrUnsupportedRank, object.Rank())
	}

	if offset == nil {
		derived, err := shape.Centered(object.Shape(), data.Shape())
		if err != nil {
			return nil, fmt.Errorf("conv: %w", err)
		}
		offset = derived
	} else {
		if err := shape.CheckOffset(object.Shape(), data.Shape(), offset); err != nil {
			return nil, fmt.Errorf("conv: %w", err)
		}
		offset = append([]int(nil), offset...)
	}

	fft, err := fftn.NewTransformT[C](object.Shape()...)
	if err != nil {
		return nil, fmt.Errorf("conv: %w", err)
	}

	n := object.Len()
	return &OperatorT[F, C]{
		object:     object,
		data:       data,
		offset:     offset,
		objStrides: object.Shape().Strides(),
		fft:        fft,
		wsp:        make([]C, n),
		mtf:        make([]C, n),
	}, nil
}

// New creates a float64 convolution operator.
func New(object, data *vecspace.Space, offset []int) (*Operator, error) {
	return NewT[float64, complex128](object, data, offset)
}

// New32 creates a float32 convolution operator.
func New32(object, data *vecspace.Space32, offset []int) (*Operator32, error) {
	return NewT[float32, complex64](object, data, offset)
}

// ObjectSpace returns the operator's object (unknown) space.
func (op *OperatorT[F, C]) ObjectSpace() *vecspace.SpaceT[F] {
	return op.object
}

// DataSpace returns the operator's data (observation) space.
func (op *OperatorT[F, C]) DataSpace() *vecspace.SpaceT[F] {
	return op.data
}

// Offset returns the per-axis origin of the data region inside the object
// grid.
func (op *OperatorT[F, C]) Offset() []int {
	return append([]int(nil), op.offset...)
}

// Ready reports whether a PSF has been installed.
func (op *OperatorT[F, C]) Ready() bool {
	return op.ready
}

// MTF returns the cached PSF transform. The buffer is owned by the operator:
// it must not be mutated and is invalidated by the next SetPSF call.
func (op *OperatorT[F, C]) MTF() ([]C, error) {
	if !op.ready {
		return nil, ErrNoPSF
	}
	return op.mtf, nil
}

// Elapsed returns the accumulated wall time of Apply, cost, and Deconvolve
// calls. Advisory bookkeeping only.
func (op *OperatorT[F, C]) Elapsed() time.Duration {
	return op.elapsed
}

// ElapsedFFT returns the accumulated wall time spent inside FFT transforms.
func (op *OperatorT[F, C]) ElapsedFFT() time.Duration {
	return op.elapsedFFT
}

// ResetTimers clears both elapsed-time counters.
func (op *OperatorT[F, C]) ResetTimers() {
	op.elapsed = 0
	op.elapsedFFT = 0
}

// Apply computes dst = H(src) for the Direct job or dst = H*(src) for the
// Adjoint job. Direct maps the object space to the data space; Adjoint maps
// the data space back to the object space. Any other job, including Inverse,
// returns ErrUnsupportedJob.
func (op *OperatorT[F, C]) Apply(dst, src *vecspace.VectorT[F], job Job) error {
	start := time.Now()
	defer func() { op.elapsed += time.Since(start) }()

	if !op.ready {
		return ErrNoPSF
	}

	switch job {
	case Direct:
		if err := op.object.CheckMember(src); err != nil {
			return err
		}
		if err := op.data.CheckMember(dst); err != nil {
			return err
		}
	case Adjoint:
		if err := op.data.CheckMember(src); err != nil {
			return err
		}
		if err := op.object.CheckMember(dst); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedJob, job)
	}

	adjoint := job == Adjoint
	op.push(src.Data(), adjoint)
	if err := op.convolve(adjoint); err != nil {
		return err
	}
	op.pull(dst.Data(), adjoint)
	return nil
}

// push loads src into the workspace. Direct: src spans the object grid.
// Adjoint: src spans the data region, scattered at the region offset with
// the remainder of the workspace zeroed.
func (op *OperatorT[F, C]) push(src []F, adjoint bool) {
	if !adjoint {
		packRealRow(op.wsp, src)
		return
	}

	clear(op.wsp)
	rowLen := op.data.Dim(op.data.Rank() - 1)
	op.regionRows(func(wbase, dbase int) {
		packRealRow(op.wsp[wbase:wbase+rowLen], src[dbase:dbase+rowLen])
	})
}

// convolve transforms the workspace to the frequency domain, multiplies by
// the MTF (conjugated for the adjoint), and transforms back. The inverse
// transform carries the 1/N normalization, so no extra scaling is applied.
func (op *OperatorT[F, C]) convolve(adjoint bool) error {
	start := time.Now()
	err := op.fft.Forward(op.wsp)
	op.elapsedFFT += time.Since(start)
	if err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	if adjoint {
		conjMulRow(op.wsp, op.mtf)
	} else {
		mulRow(op.wsp, op.mtf)
	}

	start = time.Now()
	err = op.fft.Inverse(op.wsp)
	op.elapsedFFT += time.Since(start)
	if err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}
	return nil
}

// pull extracts the real part of the workspace into dst. Direct: the data
// region at the offset. Adjoint: the full object extent.
func (op *OperatorT[F, C]) pull(dst []F, adjoint bool) {
	if adjoint {
		extractRealRow(dst, op.wsp)
		return
	}

	rowLen := op.data.Dim(op.data.Rank() - 1)
	op.regionRows(func(wbase, dbase int) {
		extractRealRow(dst[dbase:dbase+rowLen], op.wsp[wbase:wbase+rowLen])
	})
}

// regionRows invokes fn once per contiguous row of the data region, with the
// workspace base index and the data-buffer base index of that row. Rows are
// visited in row-major order for every rank.
func (op *OperatorT[F, C]) regionRows(fn func(wbase, dbase int)) {
	d := op.data.Shape()
	off := op.offset
	str := op.objStrides

	switch d.Rank() {
	case 1:
		fn(off[0], 0)
	case 2:
		for i0 := 0; i0 < d[0]; i0++ {
			fn((off[0]+i0)*str[0]+off[1], i0*d[1])
		}
	case 3:
		for i0 := 0; i0 < d[0]; i0++ {
			for i1 := 0; i1 < d[1]; i1++ {
				fn((off[0]+i0)*str[0]+(off[1]+i1)*str[1]+off[2], (i0*d[1]+i1)*d[2])
			}
		}
	}
}

// zeroOutsideRegion clears every workspace element outside the data region.
func (op *OperatorT[F, C]) zeroOutsideRegion() {
	obj := op.object.Shape()
	d := op.data.Shape()
	off := op.offset
	ws := op.wsp

	switch obj.Rank() {
	case 1:
		clear(ws[:off[0]])
		clear(ws[off[0]+d[0]:])
	case 2:
		n1 := obj[1]
		for i0 := 0; i0 < obj[0]; i0++ {
			row := ws[i0*n1 : (i0+1)*n1]
			if i0 < off[0] || i0 >= off[0]+d[0] {
				clear(row)
				continue
			}
			clear(row[:off[1]])
			clear(row[off[1]+d[1]:])
		}
	case 3:
		n1, n2 := obj[1], obj[2]
		for i0 := 0; i0 < obj[0]; i0++ {
			for i1 := 0; i1 < n1; i1++ {
				row := ws[(i0*n1+i1)*n2 : (i0*n1+i1+1)*n2]
				if i0 < off[0] || i0 >= off[0]+d[0] || i1 < off[1] || i1 >= off[1]+d[1] {
					clear(row)
					continue
				}
				clear(row[:off[2]])
				clear(row[off[2]+d[2]:])
			}
		}
	}
}
