// Package waveform conditions oscilloscope captures of coil current and
// induced E-field pulses and extracts summary pulse metrics.
//
// Captures arrive in probe units: the E-field channel in volts from the
// pickup probe, the current channel in volts from a Rogowski coil. The
// E-field is calibrated against a reference amplitude measured during a
// known epoch of the pulse; the current scales by the fixed probe
// sensitivity.
package waveform

import (
	"errors"
	"math"

	"github.com/mtmslab/fieldbench/dsp/filter/zerophase"
	"github.com/mtmslab/fieldbench/dsp/spectrum"
)

// RogowskiKiloamps converts Rogowski coil probe volts to kiloamperes
// (0.5 mV/A probe sensitivity).
const RogowskiKiloamps = (1 / 0.5e-3) / 1e3

// Default conditioning parameters.
const (
	// DefaultCutoffHz is the display smoothing cutoff.
	DefaultCutoffHz = 1e6

	// DefaultOrder is the one-way order of the smoothing filter.
	DefaultOrder = 2

	// DefaultReferenceVm is the known E-field amplitude of the
	// calibration pulse.
	DefaultReferenceVm = 20.0

	// DefaultEpochStartMicros and DefaultEpochEndMicros bound the flat
	// part of the calibration pulse. The stimulator gates the pulse out
	// about 100 µs after the trigger.
	DefaultEpochStartMicros = 112.0
	DefaultEpochEndMicros   = 162.0
)

// Errors returned by waveform conditioning.
var (
	ErrEmptyCapture  = errors.New("waveform: capture has no samples")
	ErrBadTimeAxis   = errors.New("waveform: time axis must be uniformly increasing")
	ErrBadEpoch      = errors.New("waveform: calibration epoch outside the capture")
	ErrZeroEpochMean = errors.New("waveform: calibration epoch mean is zero")
)

// Epoch is a time window in microseconds after the capture start.
type Epoch struct {
	StartMicros float64
	EndMicros   float64
}

// Capture is a raw oscilloscope export: time in seconds, channels in
// probe volts.
type Capture struct {
	Time    []float64
	Current []float64
	EField  []float64
	Trigger []float64
}

// Config holds conditioning parameters. Zero values select the defaults.
type Config struct {
	CutoffHz    float64
	Order       int
	ReferenceVm float64
	Epoch       Epoch
}

// Trace is a conditioned capture in physical units: time in microseconds,
// E-field in V/m, current in kA. The Smoothed* series carry the zero-phase
// lowpass used for display; the unsmoothed series keep full bandwidth for
// metric extraction.
type Trace struct {
	TimeMicros      []float64
	EFieldVm        []float64
	CurrentKA       []float64
	SmoothedEField  []float64
	SmoothedCurrent []float64

	SampleRate  float64 // Hz, derived from the time axis
	EFieldScale float64 // probe volts → V/m factor applied
}

// Metrics summarizes a conditioned pulse.
type Metrics struct {
	PeakCurrentKA     float64 // signed value of the largest |current|
	PeakCurrentMicros float64
	PeakEFieldVm      float64 // signed value of the largest |E-field|
	PeakEFieldMicros  float64
	DominantFreqHz    float64 // oscillation frequency of the current pulse
	EnergyProxy       float64 // ∫ I² dt in kA²·µs, proportional to coil heating
}

func normalizeConfig(cfg Config) Config {
	if cfg.CutoffHz <= 0 {
		cfg.CutoffHz = DefaultCutoffHz
	}

	if cfg.Order <= 0 {
		cfg.Order = DefaultOrder
	}

	if cfg.ReferenceVm == 0 {
		cfg.ReferenceVm = DefaultReferenceVm
	}

	if cfg.Epoch == (Epoch{}) {
		cfg.Epoch = Epoch{
			StartMicros: DefaultEpochStartMicros,
			EndMicros:   DefaultEpochEndMicros,
		}
	}

	return cfg
}

// CalibrationScale computes the probe-volts → V/m factor from the mean of
// the E-field channel over the calibration epoch.
func CalibrationScale(efield []float64, sampleRate float64, epoch Epoch, referenceVm float64) (float64, error) {
	lo := int(epoch.StartMicros * sampleRate / 1e6)
	hi := int(epoch.EndMicros * sampleRate / 1e6)

	if lo < 0 || hi <= lo || hi > len(efield) {
		return 0, ErrBadEpoch
	}

	mean := 0.0
	for _, v := range efield[lo:hi] {
		mean += v
	}
	mean /= float64(hi - lo)

	if mean == 0 {
		return 0, ErrZeroEpochMean
	}

	return referenceVm / mean, nil
}

// ScaleCurrent converts Rogowski probe volts to kiloamperes.
func ScaleCurrent(probe []float64) []float64 {
	out := make([]float64, len(probe))
	for i, v := range probe {
		out[i] = v * RogowskiKiloamps
	}

	return out
}

// Condition scales a raw capture to physical units and attaches zero-phase
// smoothed copies of both channels.
func Condition(c Capture, cfg Config) (Trace, error) {
	n := len(c.Time)
	if n < 2 || len(c.Current) != n || len(c.EField) != n {
		return Trace{}, ErrEmptyCapture
	}

	dt := c.Time[1] - c.Time[0]
	if dt <= 0 {
		return Trace{}, ErrBadTimeAxis
	}

	for i := 1; i < n-1; i++ {
		if math.Abs((c.Time[i+1]-c.Time[i])-dt) > 1e-6*dt {
			return Trace{}, ErrBadTimeAxis
		}
	}

	cfg = normalizeConfig(cfg)
	sampleRate := 1 / dt

	scale, err := CalibrationScale(c.EField, sampleRate, cfg.Epoch, cfg.ReferenceVm)
	if err != nil {
		return Trace{}, err
	}

	tr := Trace{
		TimeMicros:  make([]float64, n),
		EFieldVm:    make([]float64, n),
		SampleRate:  sampleRate,
		EFieldScale: scale,
	}

	for i := range c.Time {
		tr.TimeMicros[i] = c.Time[i] * 1e6
		tr.EFieldVm[i] = c.EField[i] * scale
	}

	tr.CurrentKA = ScaleCurrent(c.Current)

	tr.SmoothedEField, err = zerophase.Lowpass(tr.EFieldVm, cfg.CutoffHz, sampleRate, cfg.Order)
	if err != nil {
		return Trace{}, err
	}

	tr.SmoothedCurrent, err = zerophase.Lowpass(tr.CurrentKA, cfg.CutoffHz, sampleRate, cfg.Order)
	if err != nil {
		return Trace{}, err
	}

	return tr, nil
}

// Analyze extracts pulse metrics from a conditioned trace.
func (tr Trace) Analyze() (Metrics, error) {
	if len(tr.TimeMicros) == 0 {
		return Metrics{}, ErrEmptyCapture
	}

	ci := argMaxAbs(tr.CurrentKA)
	ei := argMaxAbs(tr.EFieldVm)

	m := Metrics{
		PeakCurrentKA:     tr.CurrentKA[ci],
		PeakCurrentMicros: tr.TimeMicros[ci],
		PeakEFieldVm:      tr.EFieldVm[ei],
		PeakEFieldMicros:  tr.TimeMicros[ei],
	}

	freq, err := spectrum.DominantFrequency(tr.CurrentKA, tr.SampleRate)
	if err != nil {
		return Metrics{}, err
	}
	m.DominantFreqHz = freq

	dtMicros := 1e6 / tr.SampleRate
	for _, v := range tr.CurrentKA {
		m.EnergyProxy += v * v * dtMicros
	}

	return m, nil
}

func argMaxAbs(buf []float64) int {
	best := 0
	for i, v := range buf {
		if math.Abs(v) > math.Abs(buf[best]) {
			best = i
		}
	}

	return best
}
