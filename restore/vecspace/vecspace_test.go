package vecspace

import (
	"errors"
	"math"
	"testing"
)

func TestCreateAndMembership(t *testing.T) {
	s, err := NewSpace(4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := s.Create()
	if v.Len() != 16 {
		t.Fatalf("Len = %d, expected 16", v.Len())
	}
	if !v.Belongs(s) {
		t.Error("created vector should belong to its space")
	}

	// A space with the same shape is still a different space.
	other, _ := NewSpace(4, 4)
	if v.Belongs(other) {
		t.Error("vector must not belong to a different space of equal shape")
	}
	if err := other.CheckMember(v); !errors.Is(err, ErrSpaceMismatch) {
		t.Errorf("expected ErrSpaceMismatch, got %v", err)
	}
	if err := s.CheckMember(nil); !errors.Is(err, ErrNilVector) {
		t.Errorf("expected ErrNilVector, got %v", err)
	}
}

func TestWrap(t *testing.T) {
	s, _ := NewSpace(3)

	v, err := s.Wrap([]float64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.At(2) != 3 {
		t.Errorf("At(2) = %v, expected 3", v.At(2))
	}

	if _, err := s.Wrap([]float64{1, 2}); err == nil {
		t.Error("expected error wrapping a short buffer")
	}
}

func TestDot(t *testing.T) {
	s, _ := NewSpace(4)
	x, _ := s.Wrap([]float64{1, 2, 3, 4})
	y, _ := s.Wrap([]float64{4, 3, 2, 1})

	dot, err := x.Dot(y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dot != 20 {
		t.Errorf("Dot = %v, expected 20", dot)
	}

	other, _ := NewSpace(4)
	z := other.Create()
	if _, err := x.Dot(z); !errors.Is(err, ErrSpaceMismatch) {
		t.Errorf("expected ErrSpaceMismatch, got %v", err)
	}
}

func TestDot32(t *testing.T) {
	s, _ := NewSpace32(3)
	x, _ := s.Wrap([]float32{1, 2, 3})
	y, _ := s.Wrap([]float32{2, 2, 2})

	dot, err := x.Dot(y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dot != 12 {
		t.Errorf("Dot = %v, expected 12", dot)
	}
}

func TestScaleCombineNorm(t *testing.T) {
	s, _ := NewSpace(3)
	x, _ := s.Wrap([]float64{1, 2, 2})

	if n := x.Norm2(); math.Abs(n-3) > 1e-12 {
		t.Errorf("Norm2 = %v, expected 3", n)
	}

	x.Scale(2)
	if x.At(1) != 4 {
		t.Errorf("scaled x = %v", x.Data())
	}

	y, _ := s.Wrap([]float64{1, 1, 1})
	dst := s.Create()
	if err := dst.Combine(0.5, x, -1, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{0, 1, 1}
	for i, v := range expected {
		if dst.At(i) != v {
			t.Fatalf("Combine result = %v, expected %v", dst.Data(), expected)
		}
	}

	other, _ := NewSpace(3)
	if err := dst.Combine(1, other.Create(), 1, y); !errors.Is(err, ErrSpaceMismatch) {
		t.Errorf("expected ErrSpaceMismatch, got %v", err)
	}
}

func TestCloneAndFill(t *testing.T) {
	s, _ := NewSpace32(2, 2)
	v := s.Create()
	v.Fill(3)

	c := v.Clone()
	c.SetAt(0, 7)
	if v.At(0) != 3 {
		t.Error("Clone must not alias the original buffer")
	}
	if !c.Belongs(s) {
		t.Error("clone should belong to the same space")
	}

	v.Zero()
	if v.At(3) != 0 {
		t.Error("Zero left nonzero elements")
	}
}
