package focality

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/mtmslab/fieldbench/internal/testutil"
)

func TestEstimateGaussianAccuracy(t *testing.T) {
	// For a Gaussian lobe the width at the 1/√2 level is 2σ√(ln 2).
	const sigma = 15.0

	pos, amp := testutil.GaussianProfile(-60, 1, 0, sigma, 121)

	res, err := Estimate(pos, amp, Config{})
	if err != nil {
		t.Fatal(err)
	}

	want := 2 * sigma * math.Sqrt(math.Ln2)
	testutil.RequireNearlyEqual(t, res.FWHM, want, 0.5)

	// Step is 1, so index-space and position-space widths coincide.
	testutil.RequireNearlyEqual(t, res.FWHMIndex, res.FWHM, 1e-9)

	if res.Left >= res.Right {
		t.Fatalf("boundary indices not ordered: left %d, right %d", res.Left, res.Right)
	}

	if len(res.Peaks) == 0 {
		t.Fatal("no peaks reported")
	}
}

func TestEstimateIdempotent(t *testing.T) {
	pos, amp := testutil.GaussianProfile(-60, 1, 0, 12, 121)

	first, err := Estimate(pos, amp, Config{})
	if err != nil {
		t.Fatal(err)
	}

	second, err := Estimate(pos, amp, Config{})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestEstimateAmplitudeScaleInvariance(t *testing.T) {
	pos, amp := testutil.GaussianProfile(-60, 1, 0, 15, 121)

	scaled := make([]float64, len(amp))
	for i, v := range amp {
		scaled[i] = 2.5 * v
	}

	base, err := Estimate(pos, amp, Config{})
	if err != nil {
		t.Fatal(err)
	}

	res, err := Estimate(pos, scaled, Config{})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNearlyEqual(t, res.FWHM, base.FWHM, 0.1)
}

func TestEstimateFlatLineDegenerate(t *testing.T) {
	pos := make([]float64, 21)
	for i := range pos {
		pos[i] = float64(i)
	}

	_, err := Estimate(pos, testutil.DC(1, 21), Config{})
	if !errors.Is(err, ErrDegenerateFit) {
		t.Fatalf("got %v, want ErrDegenerateFit", err)
	}
}

func TestEstimateInvalidDegree(t *testing.T) {
	pos := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	amp := []float64{0, 1, 2, 3, 4, 5, 4, 3, 2, 1}

	if _, err := Estimate(pos, amp, Config{Degree: 10}); !errors.Is(err, ErrInvalidDegree) {
		t.Fatalf("degree == n: got %v, want ErrInvalidDegree", err)
	}

	if _, err := Estimate(pos, amp, Config{Degree: -3}); !errors.Is(err, ErrInvalidDegree) {
		t.Fatalf("negative degree: got %v, want ErrInvalidDegree", err)
	}
}

func TestEstimateNoPeak(t *testing.T) {
	// A monotonic ramp has its maximum at the edge, not at an interior
	// local maximum.
	pos := make([]float64, 21)
	amp := make([]float64, 21)
	for i := range pos {
		pos[i] = float64(i)
		amp[i] = float64(i) / 20
	}

	_, err := Estimate(pos, amp, Config{Degree: 1})
	if !errors.Is(err, ErrNoPeakDetected) {
		t.Fatalf("got %v, want ErrNoPeakDetected", err)
	}
}

func TestEstimateInputValidation(t *testing.T) {
	if _, err := Estimate([]float64{1}, []float64{1}, Config{}); !errors.Is(err, ErrTooFewSamples) {
		t.Fatalf("single sample: got %v, want ErrTooFewSamples", err)
	}

	if _, err := Estimate([]float64{0, 1, 2}, []float64{1, 2}, Config{}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("length mismatch: got %v, want ErrLengthMismatch", err)
	}

	if _, err := Estimate([]float64{0, 0, 0}, []float64{1, 2, 3}, Config{}); !errors.Is(err, ErrNonUniformStep) {
		t.Fatalf("zero step: got %v, want ErrNonUniformStep", err)
	}

	if _, err := Estimate([]float64{0, 1, 3}, []float64{1, 2, 3}, Config{Degree: 1}); !errors.Is(err, ErrNonUniformStep) {
		t.Fatalf("uneven step: got %v, want ErrNonUniformStep", err)
	}
}

func TestEstimateTriangleLobe(t *testing.T) {
	// 21 points from -100 to 100 (step 10), a triangular lobe peaking at 0
	// with value 1 and reaching zero at ±50.
	pos, amp := testutil.TriangleLobe(-100, 10, 0, 50, 1, 21)

	// Default relative height measures the -3 dB width: the triangle
	// crosses 1/√2 at ±50·(1−1/√2), giving 100·(1−1/√2) ≈ 29.3.
	res, err := Estimate(pos, amp, Config{})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNearlyEqual(t, res.FWHM, 100*(1-1/math.Sqrt2), 0.5)
	testutil.RequireNearlyEqual(t, res.Height, 1/math.Sqrt2, 0.01)

	if res.Left != 9 || res.Right != 11 {
		t.Fatalf("boundary indices (%d, %d), want (9, 11)", res.Left, res.Right)
	}

	// Measured at half the peak height instead, the same lobe is 50 wide.
	res, err = Estimate(pos, amp, Config{RelHeight: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNearlyEqual(t, res.FWHM, 50, 0.5)
	testutil.RequireNearlyEqual(t, res.Height, 0.5, 0.01)
}

func TestEstimateReportsAllPeaks(t *testing.T) {
	// |cos(πx/50)| on ±100 has lobes at -50, 0 and +50 after
	// rectification (the endpoints do not count).
	n := 101

	pos := make([]float64, n)
	amp := make([]float64, n)
	for i := range pos {
		x := -100 + 2*float64(i)
		pos[i] = x
		amp[i] = math.Cos(math.Pi * x / 50)
	}

	res, err := Estimate(pos, amp, Config{})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Peaks) != 3 {
		t.Fatalf("got %d peaks, want 3", len(res.Peaks))
	}

	wantPeaks := []int{25, 50, 75}
	for i, w := range res.Peaks {
		if w.Peak < wantPeaks[i]-1 || w.Peak > wantPeaks[i]+1 {
			t.Fatalf("peak %d at index %d, want ≈%d", i, w.Peak, wantPeaks[i])
		}
	}

	// Headline scalars come from the first (lowest-index) lobe.
	testutil.RequireNearlyEqual(t, res.FWHM, res.Peaks[0].WidthPos, 1e-12)

	// Each |cos| lobe is 25 position units wide at the 1/√2 level. The
	// edge lobes measure slightly narrower: their prominence base sits at
	// the truncated boundary rather than at a zero crossing.
	testutil.RequireNearlyEqual(t, res.Peaks[1].WidthPos, 25, 0.5)
	testutil.RequireNearlyEqual(t, res.Peaks[0].WidthPos, 25, 1.0)
	testutil.RequireNearlyEqual(t, res.Peaks[2].WidthPos, 25, 1.0)

	for i, w := range res.Peaks {
		if w.WidthPos <= 0 {
			t.Fatalf("peak %d: non-positive width %v", i, w.WidthPos)
		}
	}
}

func TestEstimateVisualizer(t *testing.T) {
	pos, amp := testutil.GaussianProfile(-60, 1, 0, 15, 121)

	baseline, err := Estimate(pos, amp, Config{})
	if err != nil {
		t.Fatal(err)
	}

	var captured *Diagnostic

	res, err := Estimate(pos, amp, Config{
		Visualizer: func(d Diagnostic) { captured = &d },
	})
	if err != nil {
		t.Fatal(err)
	}

	if captured == nil {
		t.Fatal("visualizer not invoked")
	}

	if !reflect.DeepEqual(res, baseline) {
		t.Fatal("visualizer changed the returned result")
	}

	if len(captured.Fitted) != len(pos) || len(captured.Peaks) == 0 {
		t.Fatalf("incomplete diagnostic: %d fitted samples, %d peaks",
			len(captured.Fitted), len(captured.Peaks))
	}

	if captured.Step != 1 {
		t.Fatalf("diagnostic step %v, want 1", captured.Step)
	}
}

func TestEstimateVisualizerNotCalledOnError(t *testing.T) {
	called := false

	pos := make([]float64, 21)
	for i := range pos {
		pos[i] = float64(i)
	}

	_, err := Estimate(pos, testutil.DC(1, 21), Config{
		Visualizer: func(Diagnostic) { called = true },
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if called {
		t.Fatal("visualizer invoked on a failed estimation")
	}
}

func TestEstimatorReuse(t *testing.T) {
	e := NewEstimator(Config{})

	pos, amp := testutil.GaussianProfile(-60, 1, 0, 10, 121)

	first, err := e.Estimate(pos, amp)
	if err != nil {
		t.Fatal(err)
	}

	second, err := e.Estimate(pos, amp)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("estimator results differ across calls")
	}
}

func TestFitErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &FitError{Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("FitError does not unwrap to its cause")
	}
}
