package conv

import (
	"time"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-restore/restore/vecspace"
)

// DeconvMethod specifies the regularized deconvolution method.
type DeconvMethod int

const (
	// DeconvRegularized adds a small epsilon to the spectral division:
	// x = IFFT(FFT(y) * conj(H) / (|H|^2 + epsilon)).
	DeconvRegularized DeconvMethod = iota

	// DeconvWiener applies Wiener deconvolution, replacing epsilon by the
	// noise-to-signal ratio. Optimal in the MSE sense when the variances
	// are known.
	DeconvWiener
)

// DeconvOptions configures Deconvolve.
type DeconvOptions struct {
	// Method specifies the deconvolution algorithm.
	Method DeconvMethod

	// Epsilon is the regularization parameter for DeconvRegularized.
	// Typical values: 1e-6 to 1e-3 depending on SNR. Non-positive values
	// fall back to 1e-6.
	Epsilon float64

	// NoiseVariance is the estimated noise variance for Wiener
	// deconvolution. If zero, a 1% fraction of the signal variance is
	// assumed.
	NoiseVariance float64

	// SignalVariance is the estimated signal variance for Wiener
	// deconvolution. If zero, it is estimated from the data.
	SignalVariance float64
}

// DefaultDeconvOptions returns default deconvolution options.
func DefaultDeconvOptions() DeconvOptions {
	return DeconvOptions{
		Method:  DeconvRegularized,
		Epsilon: 1e-6,
	}
}

// Deconvolve computes a regularized closed-form deconvolution of the data
// through the installed MTF, storing the object-space estimate into dst.
//
// This is an ill-posed inversion: the unregularized form is refused by Apply
// (the Inverse job). The regularized estimate here is mainly useful as an
// initial guess for the iterative solvers built on WeightedCost.
func (op *OperatorT[F, C]) Deconvolve(dst, data *vecspace.VectorT[F], opts DeconvOptions) error {
	start := time.Now()
	defer func() { op.elapsed += time.Since(start) }()

	if !op.ready {
		return ErrNoPSF
	}
	if err := op.data.CheckMember(data); err != nil {
		return err
	}
	if err := op.object.CheckMember(dst); err != nil {
		return err
	}

	lambda := opts.Epsilon
	if lambda <= 0 {
		lambda = 1e-6
	}

	if opts.Method == DeconvWiener {
		signalVar := opts.SignalVariance
		if signalVar <= 0 {
			signalVar = sampleVariance(data.Data())
		}
		noiseVar := opts.NoiseVariance
		if noiseVar <= 0 {
			// Rough heuristic; in practice the noise should be measured.
			noiseVar = signalVar * 0.01
		}
		if signalVar > 0 {
			lambda = noiseVar / signalVar
		}
		if lambda <= 0 {
			lambda = 1e-6
		}
	}

	// Zero-pad the data into the workspace at the region offset, divide in
	// the frequency domain, and transform back over the full object grid.
	op.push(data.Data(), true)

	fftStart := time.Now()
	err := op.fft.Forward(op.wsp)
	op.elapsedFFT += time.Since(fftStart)
	if err != nil {
		return err
	}

	wienerDivideRow(op.wsp, op.mtf, lambda)

	fftStart = time.Now()
	err = op.fft.Inverse(op.wsp)
	op.elapsedFFT += time.Since(fftStart)
	if err != nil {
		return err
	}

	op.pull(dst.Data(), true)
	return nil
}

// sampleVariance estimates the variance of a data vector in float64.
func sampleVariance[F algofft.Float](data []F) float64 {
	if d, ok := any(data).([]float64); ok {
		return stat.Variance(d, nil)
	}

	tmp := make([]float64, len(data))
	for i, v := range data {
		tmp[i] = float64(v)
	}
	return stat.Variance(tmp, nil)
}
