// Package solve provides iterative minimizers for the weighted quadratic
// costs built in restore/conv.
//
// Two entry points are offered: GradientDescent, a dependency-free steepest
// descent with Armijo backtracking, and LBFGS, which drives gonum's
// quasi-Newton implementation through the same Objective interface. Both
// operate on float64 vector spaces.
package solve

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-restore/restore/vecspace"
)

var (
	ErrNilObjective = errors.New("solve: nil objective")
	ErrNilStart     = errors.New("solve: nil starting point")
	ErrBadOptions   = errors.New("solve: invalid options")
	ErrLineSearch   = errors.New("solve: line search failed to make progress")
)

// Objective is the cost interface consumed by the minimizers. It matches the
// method set of conv.WeightedCost.
type Objective interface {
	// Cost evaluates alpha-scaled cost at x.
	Cost(alpha float64, x *vecspace.Vector) (float64, error)

	// CostAndGradient evaluates the cost and writes the gradient into gx.
	// clear selects overwrite (true) or accumulate (false) semantics.
	CostAndGradient(alpha float64, x, gx *vecspace.Vector, clear bool) (float64, error)
}

// Options controls the minimization loop.
type Options struct {
	// MaxIterations bounds the number of descent steps.
	MaxIterations int

	// Tolerance stops the loop once the relative cost decrease between
	// consecutive iterations falls below it.
	Tolerance float64

	// GradientTolerance stops the loop once the Euclidean norm of the
	// gradient falls below it.
	GradientTolerance float64

	// InitialStep is the first trial step length of each line search.
	InitialStep float64

	// Shrink is the backtracking factor applied when a trial step fails
	// the sufficient-decrease test. Must lie in (0, 1).
	Shrink float64

	// Armijo is the sufficient-decrease constant of the line search.
	Armijo float64
}

// DefaultOptions returns the settings used when callers pass the zero value.
func DefaultOptions() Options {
	return Options{
		MaxIterations:     200,
		Tolerance:         1e-9,
		GradientTolerance: 1e-10,
		InitialStep:       1,
		Shrink:            0.5,
		Armijo:            1e-4,
	}
}

func (o Options) withDefaults() (Options, error) {
	def := DefaultOptions()
	if o.MaxIterations == 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = def.Tolerance
	}
	if o.GradientTolerance == 0 {
		o.GradientTolerance = def.GradientTolerance
	}
	if o.InitialStep == 0 {
		o.InitialStep = def.InitialStep
	}
	if o.Shrink == 0 {
		o.Shrink = def.Shrink
	}
	if o.Armijo == 0 {
		o.Armijo = def.Armijo
	}

	switch {
	case o.MaxIterations < 0:
		return o, fmt.Errorf("%w: MaxIterations %d", ErrBadOptions, o.MaxIterations)
	case o.Tolerance < 0:
		return o, fmt.Errorf("%w: Tolerance %g", ErrBadOptions, o.Tolerance)
	case o.GradientTolerance < 0:
		return o, fmt.Errorf("%w: GradientTolerance %g", ErrBadOptions, o.GradientTolerance)
	case o.InitialStep <= 0:
		return o, fmt.Errorf("%w: InitialStep %g", ErrBadOptions, o.InitialStep)
	case o.Shrink <= 0 || o.Shrink >= 1:
		return o, fmt.Errorf("%w: Shrink %g", ErrBadOptions, o.Shrink)
	case o.Armijo <= 0 || o.Armijo >= 1:
		return o, fmt.Errorf("%w: Armijo %g", ErrBadOptions, o.Armijo)
	}
	return o, nil
}

// Result reports the outcome of a minimization.
type Result struct {
	// X is the final iterate.
	X *vecspace.Vector

	// Cost is the objective value at X.
	Cost float64

	// Iterations counts completed descent steps.
	Iterations int

	// Evaluations counts objective evaluations, gradient calls included.
	Evaluations int

	// Converged reports whether the tolerance test triggered before the
	// iteration budget ran out.
	Converged bool
}

// GradientDescent minimizes obj starting from x0 using steepest descent with
// Armijo backtracking. x0 is not modified.
func GradientDescent(obj Objective, x0 *vecspace.Vector, opts Options) (*Result, error) {
	if obj == nil {
		return nil, ErrNilObjective
	}
	if x0 == nil {
		return nil, ErrNilStart
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	space := x0.Space()
	x := x0.Clone()
	gx := space.Create()
	trial := space.Create()

	res := &Result{X: x}

	f, err := obj.CostAndGradient(1, x, gx, true)
	if err != nil {
		return nil, err
	}
	res.Evaluations++
	res.Cost = f

	step := opts.InitialStep
	for iter := 0; iter < opts.MaxIterations; iter++ {
		gnorm2, err := gx.Dot(gx)
		if err != nil {
			return nil, err
		}
		if gnorm2 <= opts.GradientTolerance*opts.GradientTolerance {
			res.Converged = true
			return res, nil
		}

		// Backtrack until the sufficient-decrease condition holds.
		accepted := false
		var fTrial float64
		for k := 0; k < 60; k++ {
			if err := trial.Combine(1, x, -step, gx); err != nil {
				return nil, err
			}
			fTrial, err = obj.Cost(1, trial)
			if err != nil {
				return nil, err
			}
			res.Evaluations++

			if fTrial <= f-opts.Armijo*step*gnorm2 {
				accepted = true
				break
			}
			step *= opts.Shrink
		}
		if !accepted {
			return res, ErrLineSearch
		}

		if err := x.CopyFrom(trial); err != nil {
			return nil, err
		}
		res.Iterations++

		prev := f
		f, err = obj.CostAndGradient(1, x, gx, true)
		if err != nil {
			return nil, err
		}
		res.Evaluations++
		res.Cost = f

		if math.Abs(prev-fTrial) <= opts.Tolerance*math.Max(1, math.Abs(prev)) {
			res.Converged = true
			return res, nil
		}

		// A successful step earns a more ambitious next trial.
		step *= 2
		if step > opts.InitialStep {
			step = opts.InitialStep
		}
	}

	return res, nil
}
