package solve_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-restore/restore/conv"
	"github.com/cwbudde/algo-restore/restore/shape"
	"github.com/cwbudde/algo-restore/restore/vecspace"
	"github.com/cwbudde/algo-restore/solve"
)

// deblurProblem builds an 8x8 deblurring objective: data manufactured by
// blurring a known object with a normalized 3x3 averaging kernel, uniform
// weights, full data coverage.
func deblurProblem(t *testing.T) (*conv.WeightedCost, *vecspace.Vector) {
	t.Helper()

	object, err := vecspace.NewSpace(8, 8)
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}
	op, err := conv.New(object, object, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	psf, _ := shape.NewArray[float64](shape.Shape{3, 3})
	for i := range psf.Data() {
		psf.Data()[i] = 1
	}
	if err := op.SetPSF(psf, conv.PSFOptions{Normalize: true}); err != nil {
		t.Fatalf("SetPSF failed: %v", err)
	}

	rng := rand.New(rand.NewSource(99))
	truth := object.Create()
	for i := range truth.Data() {
		truth.Data()[i] = rng.Float64()
	}

	blurred := object.Create()
	if err := op.Apply(blurred, truth, conv.Direct); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	cost, err := conv.NewWeightedCost(op)
	if err != nil {
		t.Fatalf("NewWeightedCost failed: %v", err)
	}
	weights := object.Create()
	weights.Fill(1)
	if err := cost.SetWeightsAndData(weights, blurred); err != nil {
		t.Fatalf("SetWeightsAndData failed: %v", err)
	}

	return cost, truth
}

func TestGradientDescentDecreasesCost(t *testing.T) {
	cost, truth := deblurProblem(t)
	object := truth.Space()

	x0 := object.Create()
	x0.Fill(0.5)
	f0, err := cost.Cost(1, x0)
	if err != nil {
		t.Fatalf("Cost failed: %v", err)
	}

	res, err := solve.GradientDescent(cost, x0, solve.Options{MaxIterations: 50})
	if err != nil {
		t.Fatalf("GradientDescent failed: %v", err)
	}

	if res.Cost >= f0 {
		t.Errorf("final cost %v not below initial cost %v", res.Cost, f0)
	}
	if res.Iterations == 0 {
		t.Error("expected at least one descent step")
	}
	if x0.At(0) != 0.5 {
		t.Error("starting point must not be modified")
	}
}

func TestGradientDescentConvergesAtMinimum(t *testing.T) {
	cost, truth := deblurProblem(t)

	// Starting at the global minimum the gradient vanishes immediately.
	res, err := solve.GradientDescent(cost, truth, solve.DefaultOptions())
	if err != nil {
		t.Fatalf("GradientDescent failed: %v", err)
	}
	if !res.Converged {
		t.Error("expected convergence at the minimum")
	}
	if res.Cost > 1e-12 {
		t.Errorf("cost at minimum = %v", res.Cost)
	}
}

func TestGradientDescentValidation(t *testing.T) {
	cost, truth := deblurProblem(t)

	if _, err := solve.GradientDescent(nil, truth, solve.DefaultOptions()); !errors.Is(err, solve.ErrNilObjective) {
		t.Errorf("expected ErrNilObjective, got %v", err)
	}
	if _, err := solve.GradientDescent(cost, nil, solve.DefaultOptions()); !errors.Is(err, solve.ErrNilStart) {
		t.Errorf("expected ErrNilStart, got %v", err)
	}
	if _, err := solve.GradientDescent(cost, truth, solve.Options{Shrink: 1.5}); !errors.Is(err, solve.ErrBadOptions) {
		t.Errorf("expected ErrBadOptions, got %v", err)
	}
}

func TestLBFGSRecoversObject(t *testing.T) {
	cost, truth := deblurProblem(t)
	object := truth.Space()

	x0 := object.Create()
	x0.Fill(0.5)

	res, err := solve.LBFGS(cost, x0, solve.Options{MaxIterations: 500})
	if err != nil {
		t.Fatalf("LBFGS failed: %v", err)
	}

	if res.Cost > 1e-8 {
		t.Errorf("final cost %v too large", res.Cost)
	}
	for i := 0; i < object.Len(); i++ {
		if math.Abs(res.X.At(i)-truth.At(i)) > 1e-2 {
			t.Fatalf("x[%d] = %v, truth %v", i, res.X.At(i), truth.At(i))
		}
	}
}

func TestNewProblem(t *testing.T) {
	cost, truth := deblurProblem(t)
	object := truth.Space()

	problem, err := solve.NewProblem(cost, object)
	if err != nil {
		t.Fatalf("NewProblem failed: %v", err)
	}

	x := append([]float64(nil), truth.Data()...)
	if f := problem.Func(x); f > 1e-12 {
		t.Errorf("Func at truth = %v, expected ~0", f)
	}

	grad := make([]float64, len(x))
	problem.Grad(grad, x)
	for i, g := range grad {
		if math.Abs(g) > 1e-9 {
			t.Fatalf("grad[%d] = %v at the minimum", i, g)
		}
	}
}
