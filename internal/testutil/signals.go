package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DampedSine generates a decaying sinusoid, the canonical shape of a
// monophasic coil current pulse.
func DampedSine(freqHz, sampleRate, amplitude, decay float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		t := float64(i) / sampleRate
		out[i] = amplitude * math.Exp(-decay*t) * math.Sin(step*float64(i))
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// GaussianProfile generates a spatial profile sampled at uniform positions:
// positions from start with the given step, amplitudes exp(-x²/2σ²) centered
// at center. Returns (positions, amplitudes).
func GaussianProfile(start, step, center, sigma float64, length int) ([]float64, []float64) {
	pos := make([]float64, length)
	amp := make([]float64, length)
	for i := range pos {
		x := start + float64(i)*step
		pos[i] = x
		d := x - center
		amp[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}
	return pos, amp
}

// TriangleLobe generates a triangular profile peaking at center with the
// given peak value, falling linearly to zero at center±halfBase and staying
// at zero beyond. Returns (positions, amplitudes).
func TriangleLobe(start, step, center, halfBase, peak float64, length int) ([]float64, []float64) {
	pos := make([]float64, length)
	amp := make([]float64, length)
	for i := range pos {
		x := start + float64(i)*step
		pos[i] = x
		v := peak * (1 - math.Abs(x-center)/halfBase)
		if v < 0 {
			v = 0
		}
		amp[i] = v
	}
	return pos, amp
}
