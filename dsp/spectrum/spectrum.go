// Package spectrum computes magnitude spectra of real-valued measurement
// signals. It is used to characterize the oscillation frequency of coil
// current pulses.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// ErrEmptySignal is returned when the input signal has no samples.
var ErrEmptySignal = errors.New("spectrum: signal is empty")

// Magnitude returns |X[k]| for the non-negative-frequency bins of a real
// signal. A Hann window is applied before the FFT and the signal is
// zero-padded to the next power of two (or to fftSize if larger).
//
// The returned slice has fftSize/2+1 bins.
func Magnitude(signal []float64, fftSize int) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	if fftSize < len(signal) {
		fftSize = nextPowerOf2(len(signal))
	}

	windowed := append([]float64(nil), signal...)
	vecmath.MulBlockInPlace(windowed, hann(len(windowed)))

	inData := make([]complex128, fftSize)
	for i, v := range windowed {
		inData[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	binCount := fftSize/2 + 1

	re := make([]float64, binCount)
	im := make([]float64, binCount)
	for i := 0; i < binCount; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, binCount)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// DominantFrequency returns the frequency in Hz of the strongest spectral
// bin above DC.
func DominantFrequency(signal []float64, sampleRate float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectrum: sample rate must be positive, got %v", sampleRate)
	}

	fftSize := nextPowerOf2(len(signal))

	mag, err := Magnitude(signal, fftSize)
	if err != nil {
		return 0, err
	}

	bestBin := 1
	for i := 2; i < len(mag); i++ {
		if mag[i] > mag[bestBin] {
			bestBin = i
		}
	}

	return float64(bestBin) * sampleRate / float64(fftSize), nil
}

// hann returns symmetric Hann window coefficients.
func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}

	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	return w
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
