package solve

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-restore/restore/vecspace"
)

// problemAdapter bridges an Objective to gonum's flat-slice callbacks.
// gonum's Func and Grad cannot return errors, so the adapter records the
// first failure and reports +Inf until the driver gives up.
type problemAdapter struct {
	obj   Objective
	space *vecspace.Space
	err   error
}

func (p *problemAdapter) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *problemAdapter) funcEval(x []float64) float64 {
	v, err := p.space.Wrap(x)
	if err != nil {
		p.fail(err)
		return math.Inf(1)
	}
	f, err := p.obj.Cost(1, v)
	if err != nil {
		p.fail(err)
		return math.Inf(1)
	}
	return f
}

func (p *problemAdapter) gradEval(grad, x []float64) {
	v, err := p.space.Wrap(x)
	if err != nil {
		p.fail(err)
		return
	}
	g, err := p.space.Wrap(grad)
	if err != nil {
		p.fail(err)
		return
	}
	if _, err := p.obj.CostAndGradient(1, v, g, true); err != nil {
		p.fail(err)
	}
}

// NewProblem wraps obj as a gonum optimize.Problem over the given space,
// suitable for any of gonum's gradient-based methods.
func NewProblem(obj Objective, space *vecspace.Space) (optimize.Problem, error) {
	if obj == nil {
		return optimize.Problem{}, ErrNilObjective
	}
	if space == nil {
		return optimize.Problem{}, ErrNilStart
	}
	adapter := &problemAdapter{obj: obj, space: space}
	return optimize.Problem{
		Func: adapter.funcEval,
		Grad: adapter.gradEval,
	}, nil
}

// LBFGS minimizes obj from x0 using gonum's limited-memory BFGS. Only
// MaxIterations and Tolerance from opts are consulted; line search behavior
// is gonum's own. x0 is not modified.
func LBFGS(obj Objective, x0 *vecspace.Vector, opts Options) (*Result, error) {
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
	adapter := &problemAdapter{obj: obj, space: space}
	problem := optimize.Problem{
		Func: adapter.funcEval,
		Grad: adapter.gradEval,
	}

	settings := &optimize.Settings{
		MajorIterations: opts.MaxIterations,
	}

	init := append([]float64(nil), x0.Data()...)
	result, err := optimize.Minimize(problem, init, settings, &optimize.LBFGS{})
	if adapter.err != nil {
		return nil, adapter.err
	}
	if err != nil {
		return nil, err
	}

	x, wrapErr := space.Wrap(result.X)
	if wrapErr != nil {
		return nil, wrapErr
	}
	return &Result{
		X:           x,
		Cost:        result.F,
		Iterations:  result.Stats.MajorIterations,
		Evaluations: result.Stats.FuncEvaluations + result.Stats.GradEvaluations,
		Converged: result.Status == optimize.GradientThreshold ||
			result.Status == optimize.FunctionConvergence ||
			result.Status == optimize.StepConvergence,
	}, nil
}
