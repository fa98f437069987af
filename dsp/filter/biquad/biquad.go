// Package biquad implements second-order IIR filter sections and cascades.
package biquad

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section is a single biquad filter with coefficients and internal state.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// Reset clears the internal delay state without touching the coefficients.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// SeedSteadyState sets the delay state to its steady-state value for a
// constant input x and returns the corresponding steady output x·H(1).
// A seeded section filters a constant signal without any startup
// transient.
func (s *Section) SeedSteadyState(x float64) float64 {
	den := 1 + s.A1 + s.A2

	y := x
	if den != 0 {
		y = x * (s.B0 + s.B1 + s.B2) / den
	}

	s.d0 = y - s.B0*x
	s.d1 = s.B2*x - s.A2*y

	return y
}
