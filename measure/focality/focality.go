package focality

import (
	"errors"
	"math"

	"github.com/mtmslab/fieldbench/dsp/polyfit"
)

// Default estimation parameters.
const (
	// DefaultDegree is the polynomial degree of the smoothing fit.
	DefaultDegree = 20

	// DefaultPeakHeight is the minimum rectified height for a peak to count,
	// on the rescaled curve whose maximum is 1.
	DefaultPeakHeight = 0.5

	// DefaultRelHeight is the fraction of the peak prominence below the peak
	// at which the width is measured. 1-1/√2 puts the width line at the
	// -3 dB level of a zero-baseline lobe.
	DefaultRelHeight = 1 - 1/math.Sqrt2
)

// Errors returned by the estimator.
var (
	ErrTooFewSamples  = errors.New("focality: profile needs at least two samples")
	ErrLengthMismatch = errors.New("focality: positions and amplitudes differ in length")
	ErrNonUniformStep = errors.New("focality: positions must be uniformly spaced with a nonzero step")
	ErrInvalidDegree  = errors.New("focality: polynomial degree must be positive and less than the sample count")
	ErrDegenerateFit  = errors.New("focality: fitted curve has zero range")
	ErrNoPeakDetected = errors.New("focality: no peak above the height threshold")
)

// FitError reports a failure inside the polynomial regression. The
// underlying cause is available via errors.Unwrap.
type FitError struct {
	Err error
}

func (e *FitError) Error() string {
	return "focality: polynomial fit failed: " + e.Err.Error()
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// Visualizer receives the intermediate curves of an estimation for
// diagnostic plotting. It is only called when set on the Config and has no
// influence on the returned values.
type Visualizer func(Diagnostic)

// Diagnostic carries the data a Visualizer needs to render an estimation:
// the raw profile, the rescaled fitted curve, the detected peak indices and
// the measured width lines.
type Diagnostic struct {
	Positions []float64
	Raw       []float64
	Fitted    []float64 // rescaled fit, before rectification
	Peaks     []int
	Widths    []Width
	Step      float64
}

// Config holds estimation parameters. The zero value selects the defaults.
type Config struct {
	// Degree of the smoothing polynomial. 0 selects DefaultDegree.
	Degree int

	// PeakHeight is the detection threshold on the rectified rescaled
	// curve. 0 selects DefaultPeakHeight.
	PeakHeight float64

	// RelHeight is the fraction of the peak prominence below the peak at
	// which the width is measured. 0 selects DefaultRelHeight.
	RelHeight float64

	// Visualizer, when non-nil, is invoked once per successful estimation
	// with the intermediate curves.
	Visualizer Visualizer
}

// Width holds the half-width measurement of one detected peak.
type Width struct {
	Peak     int     // sample index of the peak
	Height   float64 // height level of the width line
	Width    float64 // width in index units
	WidthPos float64 // width in position units
	Left     int     // left crossing index, rounded to nearest
	Right    int     // right crossing index, rounded to nearest
}

// Result holds the focality estimate. The scalar fields describe the first
// (lowest-index) detected peak; Peaks lists every detected peak in index
// order.
type Result struct {
	FWHM      float64 // width of the first peak in position units
	FWHMIndex float64 // width of the first peak in index units
	Height    float64 // height level of the first peak's width line
	Left      int
	Right     int
	Peaks     []Width
}

// Estimator computes focality estimates with a fixed configuration.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an estimator. Zero-valued Config fields select the
// package defaults.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate is a one-shot focality estimation with the given configuration.
func Estimate(positions, amplitudes []float64, cfg Config) (Result, error) {
	return NewEstimator(cfg).Estimate(positions, amplitudes)
}

// Estimate computes the FWHM of the dominant peak in the profile.
//
// positions must be uniformly spaced with a nonzero step; the step is the
// conversion factor from index-space widths to position-space widths.
func (e *Estimator) Estimate(positions, amplitudes []float64) (Result, error) {
	n := len(positions)
	if n < 2 {
		return Result{}, ErrTooFewSamples
	}

	if len(amplitudes) != n {
		return Result{}, ErrLengthMismatch
	}

	step := positions[1] - positions[0]
	if step == 0 {
		return Result{}, ErrNonUniformStep
	}

	for i := 1; i < n-1; i++ {
		d := positions[i+1] - positions[i]
		if math.Abs(d-step) > 1e-6*math.Abs(step) {
			return Result{}, ErrNonUniformStep
		}
	}

	degree := e.cfg.Degree
	if degree == 0 {
		degree = DefaultDegree
	}

	if degree < 0 || degree >= n {
		return Result{}, ErrInvalidDegree
	}

	p, err := polyfit.Fit(positions, amplitudes, degree)
	if err != nil {
		if errors.Is(err, polyfit.ErrDegreeTooHigh) {
			return Result{}, ErrInvalidDegree
		}

		return Result{}, &FitError{Err: err}
	}

	fitted := p.EvalAll(positions)

	minFit, maxFit := fitted[0], fitted[0]
	for _, v := range fitted[1:] {
		if v < minFit {
			minFit = v
		}
		if v > maxFit {
			maxFit = v
		}
	}

	// A flat profile fits to a numerically constant curve; its span is
	// rounding noise, not shape. Treat it as degenerate instead of
	// dividing by it.
	span := maxFit - minFit
	if span <= 1e-10*math.Max(math.Abs(maxFit), math.Abs(minFit)) {
		return Result{}, ErrDegenerateFit
	}

	// Rescale so the maximum becomes exactly 1 while the minimum stays
	// fixed. Smoothing can shave the true peak of an already-normalized
	// measurement below 1; this restores comparable peak heights across
	// runs without shifting the baseline.
	for i, v := range fitted {
		fitted[i] = minFit + (v-minFit)*(1-minFit)/span
	}

	// Rectify so a lobe dipping negative still counts with its full
	// magnitude; the baseline of interest is zero, not the most negative
	// excursion.
	rect := make([]float64, n)
	for i, v := range fitted {
		rect[i] = math.Abs(v)
	}

	height := e.cfg.PeakHeight
	if height == 0 {
		height = DefaultPeakHeight
	}

	peaks := findPeaks(rect, height)
	if len(peaks) == 0 {
		return Result{}, ErrNoPeakDetected
	}

	relHeight := e.cfg.RelHeight
	if relHeight == 0 {
		relHeight = DefaultRelHeight
	}

	absStep := math.Abs(step)

	widths := make([]Width, len(peaks))
	for i, pk := range peaks {
		w := measureWidth(rect, pk, relHeight)
		w.WidthPos = w.Width * absStep
		widths[i] = w
	}

	first := widths[0]

	res := Result{
		FWHM:      first.WidthPos,
		FWHMIndex: first.Width,
		Height:    first.Height,
		Left:      first.Left,
		Right:     first.Right,
		Peaks:     widths,
	}

	if e.cfg.Visualizer != nil {
		e.cfg.Visualizer(Diagnostic{
			Positions: positions,
			Raw:       amplitudes,
			Fitted:    fitted,
			Peaks:     peaks,
			Widths:    widths,
			Step:      step,
		})
	}

	return res, nil
}
