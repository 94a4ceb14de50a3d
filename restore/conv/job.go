package conv

// Job selects how an operator is applied.
type Job int

const (
	// Direct applies the operator itself: dst = H(src).
	Direct Job = iota

	// Adjoint applies the adjoint operator: dst = H*(src).
	Adjoint

	// Inverse names the closed-form inverse application. It is never
	// supported by Apply: cyclic deconvolution without regularization is
	// numerically unsound. Use Deconvolve for the regularized forms.
	Inverse
)

// String returns the job name.
func (j Job) String() string {
	switch j {
	case Direct:
		return "direct"
	case Adjoint:
		return "adjoint"
	case Inverse:
		return "inverse"
	default:
		return "unknown"
	}
}
