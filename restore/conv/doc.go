// Package conv provides cyclic FFT-based convolution operators and their
// weighted least-squares cost for imaging inverse problems.
//
// The central type is the convolution operator H = R·F*·diag(F·h)·F·S: a
// point-spread function h is zero-padded, cyclically recentered and
// transformed once into a cached modulation transfer function (MTF); each
// application then costs one forward FFT, one spectral multiply, and one
// inverse FFT, with the result restricted to a data sub-region at a
// configurable offset inside the object grid.
//
// # Usage
//
// Build an operator from an object space (the unknown image) and a data
// space (the observations), install a PSF, and apply it:
//
//	op, _ := conv.New(object, data, nil)      // nil offset = centered
//	_ = op.SetPSF(psf, conv.PSFOptions{Normalize: true})
//	_ = op.Apply(dst, src, conv.Direct)       // dst = H(src)
//	_ = op.Apply(grad, res, conv.Adjoint)     // grad = H*(res)
//
// For regularized objectives, wrap the operator in a WeightedCost which
// evaluates alpha/2 * sum(w*(H(x)-y)^2) and its gradient in a single shared
// workspace:
//
//	cost, _ := conv.NewWeightedCost(op)
//	_ = cost.SetWeightsAndData(weights, observed)
//	f, _ := cost.CostAndGradient(1, x, grad, true)
//
// # Precision and rank
//
// All types are generic over the element precision: Operator / WeightedCost
// are the float64 specializations, Operator32 / WeightedCost32 the float32
// ones. Grids of rank 1 to 3 are supported; the loop order over grid rows is
// identical for every rank, so results are reproducible across ranks.
//
// # Concurrency
//
// An operator owns one complex workspace and one MTF buffer which every call
// mutates in place. Calls on the same operator must be serialized by the
// caller; independent operators may run concurrently since they share no
// state, including their FFT plans.
package conv
