package conv

import (
	"math"
	"time"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-restore/restore/vecspace"
)

// WeightedCostT is the weighted quadratic misfit built on a convolution
// operator:
//
//	f(x) = alpha/2 * sum_i w_i * (H(x)_i - y_i)^2
//
// over the operator's data region, with gradient alpha * H*(w*(H(x)-y)).
// A nil weight vector means uniform weighting (ordinary least squares);
// a zero weight marks a missing or invalid sample.
//
// The cost shares the operator's workspace, so the same serialization rule
// applies: one goroutine per operator/cost pair.
type WeightedCostT[F algofft.Float, C algofft.Complex] struct {
	op      *OperatorT[F, C]
	weights *vecspace.VectorT[F] // nil = uniform
	data    *vecspace.VectorT[F]
}

// WeightedCost is the float64 specialization of WeightedCostT.
type WeightedCost = WeightedCostT[float64, complex128]

// WeightedCost32 is the float32 specialization of WeightedCostT.
type WeightedCost32 = WeightedCostT[float32, complex64]

// NewWeightedCostT wraps an operator in a weighted misfit cost.
// Data and weights are installed separately through SetWeightsAndData.
func NewWeightedCostT[F algofft.Float, C algofft.Complex](op *OperatorT[F, C]) (*WeightedCostT[F, C], error) {
	if op == nil {
		return nil, ErrNilSpace
	}
	return &WeightedCostT[F, C]{op: op}, nil
}

// NewWeightedCost wraps a float64 operator in a weighted misfit cost.
func NewWeightedCost(op *Operator) (*WeightedCost, error) {
	return NewWeightedCostT(op)
}

// NewWeightedCost32 wraps a float32 operator in a weighted misfit cost.
func NewWeightedCost32(op *Operator32) (*WeightedCost32, error) {
	return NewWeightedCostT(op)
}

// Operator returns the wrapped convolution operator.
func (c *WeightedCostT[F, C]) Operator() *OperatorT[F, C] {
	return c.op
}

// SetWeightsAndData installs the observed data vector and an optional weight
// vector, both members of the operator's data space.
//
// Every weight must be finite and non-negative; on violation the call fails
// atomically and neither vector is installed. The vectors are referenced,
// not copied: the caller must not mutate them while the cost is in use.
func (c *WeightedCostT[F, C]) SetWeightsAndData(weights, data *vecspace.VectorT[F]) error {
	if err := c.op.data.CheckMember(data); err != nil {
		return err
	}

	if weights != nil {
		if err := c.op.data.CheckMember(weights); err != nil {
			return err
		}
		for _, w := range weights.Data() {
			f := float64(w)
			if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
				return ErrInvalidWeight
			}
		}
	}

	c.weights = weights
	c.data = data
	return nil
}

// Cost evaluates f(x) = alpha/2 * sum(w*(H(x)-y)^2).
//
// alpha == 0 short-circuits to exactly 0 without touching the workspace or
// performing any FFT.
func (c *WeightedCostT[F, C]) Cost(alpha float64, x *vecspace.VectorT[F]) (float64, error) {
	start := time.Now()
	defer func() { c.op.elapsed += time.Since(start) }()

	if err := c.op.object.CheckMember(x); err != nil {
		return 0, err
	}
	if c.data == nil {
		return 0, ErrNoData
	}
	if alpha == 0 {
		return 0, nil
	}
	if !c.op.ready {
		return 0, ErrNoPSF
	}

	c.op.push(x.Data(), false)
	if err := c.op.convolve(false); err != nil {
		return 0, err
	}

	return 0.5 * alpha * c.residual(false), nil
}

// CostAndGradient evaluates the cost and its gradient with respect to x.
//
// The gradient alpha*H*(w*(H(x)-y)) is stored into gx when clear is true and
// accumulated into gx otherwise. alpha == 0 short-circuits to 0 without FFT
// work, zeroing gx when clear is set.
func (c *WeightedCostT[F, C]) CostAndGradient(alpha float64, x, gx *vecspace.VectorT[F], clear bool) (float64, error) {
	start := time.Now()
	defer func() { c.op.elapsed += time.Since(start) }()

	if err := c.op.object.CheckMember(x); err != nil {
		return 0, err
	}
	if err := c.op.object.CheckMember(gx); err != nil {
		return 0, err
	}
	if c.data == nil {
		return 0, ErrNoData
	}
	if alpha == 0 {
		if clear {
			gx.Zero()
		}
		return 0, nil
	}
	if !c.op.ready {
		return 0, ErrNoPSF
	}

	c.op.push(x.Data(), false)
	if err := c.op.convolve(false); err != nil {
		return 0, err
	}

	// Write the weighted residual back into the data region of the
	// workspace and wipe the complement, then run the adjoint in place.
	sum := c.residual(true)
	c.op.zeroOutsideRegion()
	if err := c.op.convolve(true); err != nil {
		return 0, err
	}

	extractScaledRealRow(gx.Data(), c.op.wsp, alpha, !clear)

	return 0.5 * alpha * sum, nil
}

// residual accumulates sum(w*(H(x)-y)^2) over the data region, reading the
// convolution result from the workspace. When write is set, the weighted
// residual w*(H(x)-y) replaces the workspace content at the region.
func (c *WeightedCostT[F, C]) residual(write bool) float64 {
	y := c.data.Data()
	var w []F
	if c.weights != nil {
		w = c.weights.Data()
	}

	rowLen := c.op.data.Dim(c.op.data.Rank() - 1)
	var sum float64
	c.op.regionRows(func(wbase, dbase int) {
		var wRow []F
		if w != nil {
			wRow = w[dbase : dbase+rowLen]
		}
		sum += residualRow(c.op.wsp[wbase:wbase+rowLen], y[dbase:dbase+rowLen], wRow, write)
	})
	return sum
}
