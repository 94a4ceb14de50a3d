package conv

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-restore/restore/shape"
	"github.com/cwbudde/algo-restore/restore/vecspace"
)

// PSFOptions configures PSF installation.
type PSFOptions struct {
	// Center is the index of the PSF's center sample, per axis.
	// Nil selects the geometric center dim/2.
	Center []int

	// Normalize divides the PSF by its sum before installation, so the
	// operator preserves flux.
	Normalize bool
}

// DefaultPSFOptions returns the default installation options: geometric
// center, no normalization.
func DefaultPSFOptions() PSFOptions {
	return PSFOptions{}
}

// SetPSF installs a point spread function given as an arbitrary-shaped array
// no larger than the object grid along any axis.
//
// The PSF is zero-padded to the object shape and cyclically rolled so that
// its center sample lands at grid index 0, which makes the cyclic convolution
// theorem apply without a spatial shift. The padded PSF is then transformed
// once into the cached MTF; any previous MTF is replaced. Arrays of a
// different precision convert through shape.ToFloat64 / shape.ToFloat32
// before the call (a no-op when precisions already agree).
func (op *OperatorT[F, C]) SetPSF(psf *shape.Array[F], opts PSFOptions) error {
	if psf == nil {
		return ErrNilPSF
	}

	objShape := op.object.Shape()
	psfShape := psf.Shape()
	rank := objShape.Rank()

	if psfShape.Rank() != rank {
		return fmt.Errorf("conv: %w: PSF rank %d, object rank %d",
			shape.ErrRankMismatch, psfShape.Rank(), rank)
	}
	if !objShape.Contains(psfShape) {
		return fmt.Errorf("%w: PSF %v, object %v", ErrPSFTooLarge, psfShape, objShape)
	}

	center := opts.Center
	if center == nil {
		center = make([]int, rank)
		for k := range center {
			center[k] = psfShape.Dim(k) / 2
		}
	} else {
		if len(center) != rank {
			return fmt.Errorf("conv: %w: center length %d, rank %d",
				shape.ErrRankMismatch, len(center), rank)
		}
		for k := range center {
			if center[k] < 0 || center[k] >= psfShape.Dim(k) {
				return fmt.Errorf("%w: axis %d: center %d, support %d",
					ErrBadCenter, k, center[k], psfShape.Dim(k))
			}
		}
	}

	work := psf
	if opts.Normalize {
		sum := psf.Sum()
		if sum == 0 {
			return ErrZeroPSF
		}
		work = psf.Clone()
		work.Scale(1 / sum)
	}

	// Pad the PSF to the object shape at the centered margin, then roll the
	// center sample to index 0.
	margin := make([]int, rank)
	shift := make([]int, rank)
	for k := range margin {
		margin[k] = objShape.Dim(k)/2 - psfShape.Dim(k)/2
		shift[k] = -(margin[k] + center[k])
	}

	padded, err := work.PadTo(objShape, margin)
	if err != nil {
		return fmt.Errorf("conv: PSF padding failed: %w", err)
	}
	rolled, err := padded.Roll(shift)
	if err != nil {
		return fmt.Errorf("conv: PSF centering failed: %w", err)
	}

	return op.installMTF(rolled.Data())
}

// SetCenteredPSF installs a PSF that is already object-space-shaped and
// FFT-centered (center sample at grid index 0): the padding and rolling of
// SetPSF are skipped and the vector is transformed directly into the MTF.
func (op *OperatorT[F, C]) SetCenteredPSF(psf *vecspace.VectorT[F]) error {
	if psf == nil {
		return ErrNilPSF
	}
	if err := op.object.CheckMember(psf); err != nil {
		return err
	}
	return op.installMTF(psf.Data())
}

// installMTF recomputes the cached MTF from a padded, centered PSF.
// The operator stays invalid if the transform fails.
func (op *OperatorT[F, C]) installMTF(psf []F) error {
	op.ready = false

	packRealRow(op.mtf, psf)

	start := time.Now()
	err := op.fft.Forward(op.mtf)
	op.elapsedFFT += time.Since(start)
	if err != nil {
		return fmt.Errorf("conv: PSF transform failed: %w", err)
	}

	op.ready = true
	return nil
}
