package vecspace

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Low-level kernels. float64 slices take the accelerated gonum/vecmath
// paths; float32 falls back to scalar loops with float64 accumulation.

func dotBlock[F algofft.Float](a, b []F) float64 {
	if a64, ok := any(a).([]float64); ok {
		return floats.Dot(a64, any(b).([]float64))
	}

	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm2Block[F algofft.Float](a []F) float64 {
	if a64, ok := any(a).([]float64); ok {
		return floats.Norm(a64, 2)
	}

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func scaleBlock[F algofft.Float](a []F, alpha float64) {
	if a64, ok := any(a).([]float64); ok {
		vecmath.ScaleBlockInPlace(a64, alpha)
		return
	}

	for i := range a {
		a[i] = F(float64(a[i]) * alpha)
	}
}

func combineBlock[F algofft.Float](dst []F, alpha float64, x []F, beta float64, y []F) {
	if dst64, ok := any(dst).([]float64); ok {
		floats.ScaleTo(dst64, alpha, any(x).([]float64))
		floats.AddScaled(dst64, beta, any(y).([]float64))
		return
	}

	for i := range dst {
		dst[i] = F(alpha*float64(x[i]) + beta*float64(y[i]))
	}
}
