package fftn

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
)

// naiveDFT computes the rank-N forward DFT by direct summation.
func naiveDFT(src []complex128, dims []int) []complex128 {
	n := len(src)
	strides := make([]int, len(dims))
	acc := 1
	for k := len(dims) - 1; k >= 0; k-- {
		strides[k] = acc
		acc *= dims[k]
	}

	unflatten := func(flat int) []int {
		idx := make([]int, len(dims))
		for k := range dims {
			idx[k] = (flat / strides[k]) % dims[k]
		}
		return idx
	}

	dst := make([]complex128, n)
	for out := 0; out < n; out++ {
		kIdx := unflatten(out)
		var sum complex128
		for in := 0; in < n; in++ {
			iIdx := unflatten(in)
			phase := 0.0
			for k := range dims {
				phase += float64(kIdx[k]*iIdx[k]) / float64(dims[k])
			}
			sum += src[in] * cmplx.Exp(complex(0, -2*math.Pi*phase))
		}
		dst[out] = sum
	}
	return dst
}

func randomComplex(n int, seed int64) []complex128 {
	rng := rand.New(rand.NewSource(seed))
	buf := make([]complex128, n)
	for i := range buf {
		buf[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return buf
}

func TestForwardMatchesNaiveDFT(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dims []int
	}{
		{"rank1", []int{8}},
		{"rank2", []int{4, 8}},
		{"rank2 square", []int{4, 4}},
		{"rank3", []int{2, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr, err := NewTransform(tt.dims...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			buf := randomComplex(tr.Len(), 1)
			want := naiveDFT(buf, tt.dims)

			if err := tr.Forward(buf); err != nil {
				t.Fatalf("Forward failed: %v", err)
			}

			for i := range want {
				if cmplx.Abs(buf[i]-want[i]) > 1e-9*float64(tr.Len()) {
					t.Fatalf("bin %d: got %v, expected %v", i, buf[i], want[i])
				}
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tr, err := NewTransform(4, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf := randomComplex(tr.Len(), 2)
	original := make([]complex128, len(buf))
	copy(original, buf)

	if err := tr.Forward(buf); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if err := tr.Inverse(buf); err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}

	for i := range original {
		if cmplx.Abs(buf[i]-original[i]) > 1e-10 {
			t.Fatalf("round trip mismatch at %d: got %v, expected %v", i, buf[i], original[i])
		}
	}
}

func TestRoundTrip32(t *testing.T) {
	t.Parallel()

	tr, err := NewTransform32(8, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(3))
	buf := make([]complex64, tr.Len())
	original := make([]complex64, tr.Len())
	for i := range buf {
		buf[i] = complex(rng.Float32()*2-1, rng.Float32()*2-1)
		original[i] = buf[i]
	}

	if err := tr.Forward(buf); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if err := tr.Inverse(buf); err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}

	for i := range original {
		if cmplx.Abs(complex128(buf[i]-original[i])) > 1e-4 {
			t.Fatalf("round trip mismatch at %d: got %v, expected %v", i, buf[i], original[i])
		}
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewTransform(2, 2, 2, 2); !errors.Is(err, ErrUnsupportedRank) {
		t.Errorf("expected ErrUnsupportedRank for rank 4, got %v", err)
	}
	if _, err := NewTransform(); err == nil {
		t.Error("expected error for empty dims")
	}
	if _, err := NewTransform(8, 0); err == nil {
		t.Error("expected error for zero dimension")
	}

	tr, _ := NewTransform(4, 4)
	if err := tr.Forward(make([]complex128, 8)); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}
