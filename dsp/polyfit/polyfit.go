// Package polyfit implements least-squares polynomial regression.
package polyfit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by Fit.
var (
	ErrBadInput      = errors.New("polyfit: x and y must have the same nonzero length")
	ErrDegreeTooHigh = errors.New("polyfit: degree must be non-negative and less than the sample count")
)

// Polynomial is a fitted polynomial. Internally the abscissa is affinely
// mapped onto [-1, 1] before fitting: a degree-20 Vandermonde matrix over a
// raw millimeter axis is numerically singular, the scaled one is not.
type Polynomial struct {
	coeffs []float64 // ascending powers of the scaled variable
	shift  float64
	scale  float64
}

// Fit computes the least-squares polynomial of the given degree through
// (x, y) using a QR decomposition of the scaled Vandermonde matrix.
func Fit(x, y []float64, degree int) (*Polynomial, error) {
	n := len(x)
	if n == 0 || len(y) != n {
		return nil, ErrBadInput
	}

	if degree < 0 || degree >= n {
		return nil, ErrDegreeTooHigh
	}

	minX, maxX := x[0], x[0]
	for _, v := range x[1:] {
		if v < minX {
			minX = v
		}
		if v > maxX {
			maxX = v
		}
	}

	shift := (minX + maxX) / 2

	scale := (maxX - minX) / 2
	if scale == 0 {
		scale = 1
	}

	a := mat.NewDense(n, degree+1, nil)
	for i := 0; i < n; i++ {
		t := (x[i] - shift) / scale

		p := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, p)
			p *= t
		}
	}

	b := mat.NewVecDense(n, y)
	c := mat.NewVecDense(degree+1, nil)

	var qr mat.QR
	qr.Factorize(a)

	if err := qr.SolveVecTo(c, false, b); err != nil {
		return nil, fmt.Errorf("polyfit: QR solve failed: %w", err)
	}

	coeffs := make([]float64, degree+1)
	for j := range coeffs {
		coeffs[j] = c.AtVec(j)
	}

	return &Polynomial{coeffs: coeffs, shift: shift, scale: scale}, nil
}

// Degree returns the degree of the fitted polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coeffs) - 1
}

// Eval evaluates the polynomial at x using Horner's scheme.
func (p *Polynomial) Eval(x float64) float64 {
	t := (x - p.shift) / p.scale

	v := 0.0
	for j := len(p.coeffs) - 1; j >= 0; j-- {
		v = v*t + p.coeffs[j]
	}

	return v
}

// EvalAll evaluates the polynomial at every position in x.
func (p *Polynomial) EvalAll(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = p.Eval(v)
	}

	return out
}
