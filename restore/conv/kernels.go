package conv

import algofft "github.com/MeKo-Christian/algo-fft"

// Typed row kernels shared by the operator and the cost. The complex builtins
// (real, imag, complex) are not available on type parameters, so each kernel
// dispatches once per row on the concrete complex type; element loops stay
// monomorphic and identical in order for every rank.

// packRealRow stores src into the real parts of dst; imaginary parts are
// cleared.
func packRealRow[F algofft.Float, C algofft.Complex](dst []C, src []F) {
	switch d := any(dst).(type) {
	case []complex64:
		for i := range src {
			d[i] = complex(float32(src[i]), 0)
		}
	case []complex128:
		for i := range src {
			d[i] = complex(float64(src[i]), 0)
		}
	}
}

// extractRealRow stores the real parts of src into dst.
func extractRealRow[F algofft.Float, C algofft.Complex](dst []F, src []C) {
	switch s := any(src).(type) {
	case []complex64:
		for i := range dst {
			dst[i] = F(real(s[i]))
		}
	case []complex128:
		for i := range dst {
			dst[i] = F(real(s[i]))
		}
	}
}

// extractScaledRealRow stores (or accumulates, when add is set) alpha times
// the real parts of src into dst.
func extractScaledRealRow[F algofft.Float, C algofft.Complex](dst []F, src []C, alpha float64, add bool) {
	switch s := any(src).(type) {
	case []complex64:
		if add {
			for i := range dst {
				dst[i] += F(alpha * float64(real(s[i])))
			}
		} else {
			for i := range dst {
				dst[i] = F(alpha * float64(real(s[i])))
			}
		}
	case []complex128:
		if add {
			for i := range dst {
				dst[i] += F(alpha * real(s[i]))
			}
		} else {
			for i := range dst {
				dst[i] = F(alpha * real(s[i]))
			}
		}
	}
}

// mulRow multiplies dst by h elementwise: dst[i] = h[i]*dst[i].
func mulRow[C algofft.Complex](dst, h []C) {
	for i := range dst {
		dst[i] *= h[i]
	}
}

// conjMulRow multiplies dst by the conjugate of h: dst[i] = conj(h[i])*dst[i].
func conjMulRow[C algofft.Complex](dst, h []C) {
	switch d := any(dst).(type) {
	case []complex64:
		hh := any(h).([]complex64)
		for i := range d {
			d[i] *= complex(real(hh[i]), -imag(hh[i]))
		}
	case []complex128:
		hh := any(h).([]complex128)
		for i := range d {
			d[i] *= complex(real(hh[i]), -imag(hh[i]))
		}
	}
}

// residualRow accumulates the weighted squared residual of one data row
// against the real parts of the workspace row and, when write is set, stores
// the weighted residual back into the workspace (imaginary parts cleared).
// A nil weight row means uniform weighting.
func residualRow[F algofft.Float, C algofft.Complex](ws []C, y, w []F, write bool) float64 {
	var sum float64

	switch b := any(ws).(type) {
	case []complex64:
		for i := range y {
			r := float64(real(b[i])) - float64(y[i])
			wi := 1.0
			if w != nil {
				wi = float64(w[i])
			}
			sum += wi * r * r
			if write {
				b[i] = complex(float32(wi*r), 0)
			}
		}
	case []complex128:
		for i := range y {
			r := real(b[i]) - float64(y[i])
			wi := 1.0
			if w != nil {
				wi = float64(w[i])
			}
			sum += wi * r * r
			if write {
				b[i] = complex(wi*r, 0)
			}
		}
	}

	return sum
}

// wienerDivideRow applies the regularized spectral division
// dst[i] = dst[i]*conj(h[i]) / (|h[i]|^2 + lambda) in place.
func wienerDivideRow[C algofft.Complex](dst, h []C, lambda float64) {
	switch d := any(dst).(type) {
	case []complex64:
		hh := any(h).([]complex64)
		l := float32(lambda)
		for i := range d {
			re, im := real(hh[i]), imag(hh[i])
			d[i] = d[i] * complex(re, -im) / complex(re*re+im*im+l, 0)
		}
	case []complex128:
		hh := any(h).([]complex128)
		for i := range d {
			re, im := real(hh[i]), imag(hh[i])
			d[i] = d[i] * complex(re, -im) / complex(re*re+im*im+lambda, 0)
		}
	}
}
