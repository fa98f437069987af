package polyfit

import (
	"errors"
	"testing"

	"github.com/mtmslab/fieldbench/internal/testutil"
)

func TestFitErrors(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{1, 2, 3}

	if _, err := Fit(nil, nil, 2); !errors.Is(err, ErrBadInput) {
		t.Fatalf("empty input: got %v, want ErrBadInput", err)
	}

	if _, err := Fit(x, y[:2], 1); !errors.Is(err, ErrBadInput) {
		t.Fatalf("length mismatch: got %v, want ErrBadInput", err)
	}

	if _, err := Fit(x, y, 3); !errors.Is(err, ErrDegreeTooHigh) {
		t.Fatalf("degree == n: got %v, want ErrDegreeTooHigh", err)
	}

	if _, err := Fit(x, y, -1); !errors.Is(err, ErrDegreeTooHigh) {
		t.Fatalf("negative degree: got %v, want ErrDegreeTooHigh", err)
	}
}

func TestFitRecoversQuadratic(t *testing.T) {
	// y = 2x² - 3x + 1 sampled on an awkwardly offset axis.
	f := func(x float64) float64 { return 2*x*x - 3*x + 1 }

	x := make([]float64, 15)
	y := make([]float64, 15)
	for i := range x {
		x[i] = 80 + 2.5*float64(i)
		y[i] = f(x[i])
	}

	p, err := Fit(x, y, 2)
	if err != nil {
		t.Fatal(err)
	}

	if p.Degree() != 2 {
		t.Fatalf("Degree() = %d, want 2", p.Degree())
	}

	// Exact on the samples and in between.
	for _, probe := range []float64{80, 91.3, 100, 108.7, 115} {
		testutil.RequireNearlyEqual(t, p.Eval(probe), f(probe), 1e-8)
	}
}

func TestFitInterpolatesAtFullDegree(t *testing.T) {
	// degree = n-1 must reproduce the samples exactly, oscillations or not.
	x := []float64{-100, -90, -80, -70, -60, -50, -40, -30, -20, -10, 0}
	y := []float64{0.1, -0.4, 0.9, 0.2, 0.5, -0.1, 0.3, 0.8, -0.6, 0.4, 1.0}

	p, err := Fit(x, y, len(x)-1)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, p.EvalAll(x), y, 1e-6)
}

func TestFitHighDegreeStaysFinite(t *testing.T) {
	// Degree 20 over ±100: ill-conditioned in the raw basis, fine when scaled.
	pos, amp := testutil.GaussianProfile(-100, 2, 0, 25, 101)

	p, err := Fit(pos, amp, 20)
	if err != nil {
		t.Fatal(err)
	}

	fit := p.EvalAll(pos)
	testutil.RequireFinite(t, fit)

	// The fit must track the data closely away from the edges.
	for i := 10; i < len(pos)-10; i++ {
		testutil.RequireNearlyEqual(t, fit[i], amp[i], 1e-3)
	}
}

func TestFitConstantAxis(t *testing.T) {
	// Degenerate axis span must not divide by zero.
	x := []float64{5, 5, 5}
	y := []float64{1, 1, 1}

	p, err := Fit(x, y, 0)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNearlyEqual(t, p.Eval(5), 1, 1e-12)
}
