// Package fieldmap loads 3-D E-field vector maps recorded with the field
// characterizer: one sample per line, probe position followed by the field
// vector. The probe reports the field with inverted sign, so vectors are
// flipped on load.
package fieldmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Errors returned while loading maps.
var (
	ErrEmptyMap = errors.New("fieldmap: no samples in map")
)

// Sample is one probe measurement: position in meters, E-field vector,
// its norm and unit direction. Unit vectors give every arrow the same
// length in quiver-style plots.
type Sample struct {
	Pos   [3]float64
	Field [3]float64
	Unit  [3]float64
	Norm  float64
}

// Map is a set of samples sorted by ascending Z coordinate.
type Map struct {
	Samples []Sample
}

// ReadFile loads a map from a whitespace-separated text file.
func ReadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fieldmap: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("fieldmap: %s: %w", path, err)
	}

	return m, nil
}

// Parse reads samples from r: six columns per line (x y z Ex Ey Ez),
// blank lines ignored. Field vectors are sign-flipped; samples are sorted
// by ascending Z.
func Parse(r io.Reader) (*Map, error) {
	var samples []Sample

	sc := bufio.NewScanner(r)

	line := 0
	for sc.Scan() {
		line++

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		if len(fields) < 6 {
			return nil, fmt.Errorf("fieldmap: line %d: want 6 columns, got %d", line, len(fields))
		}

		var vals [6]float64
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("fieldmap: line %d: column %d: %w", line, i+1, err)
			}
			vals[i] = v
		}

		s := Sample{
			Pos:   [3]float64{vals[0], vals[1], vals[2]},
			Field: [3]float64{-vals[3], -vals[4], -vals[5]},
		}

		s.Norm = math.Sqrt(s.Field[0]*s.Field[0] + s.Field[1]*s.Field[1] + s.Field[2]*s.Field[2])
		if s.Norm > 0 {
			for i := range s.Unit {
				s.Unit[i] = s.Field[i] / s.Norm
			}
		}

		samples = append(samples, s)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fieldmap: %w", err)
	}

	if len(samples) == 0 {
		return nil, ErrEmptyMap
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Pos[2] < samples[j].Pos[2]
	})

	return &Map{Samples: samples}, nil
}

// ScalePositions multiplies every position coordinate by factor, e.g.
// 1000 to convert meters to millimeters.
func (m *Map) ScalePositions(factor float64) {
	for i := range m.Samples {
		for j := range m.Samples[i].Pos {
			m.Samples[i].Pos[j] *= factor
		}
	}
}

// NormalizedNorms returns the field norms min-max mapped onto [0, 1].
// A map with zero norm spread returns all zeros.
func (m *Map) NormalizedNorms() []float64 {
	out := make([]float64, len(m.Samples))
	if len(out) == 0 {
		return out
	}

	minN, maxN := m.Samples[0].Norm, m.Samples[0].Norm
	for _, s := range m.Samples[1:] {
		if s.Norm < minN {
			minN = s.Norm
		}
		if s.Norm > maxN {
			maxN = s.Norm
		}
	}

	span := maxN - minN
	if span == 0 {
		return out
	}

	for i, s := range m.Samples {
		out[i] = (s.Norm - minN) / span
	}

	return out
}

// XY returns the in-plane coordinates of all samples, for 2-D projections.
func (m *Map) XY() (xs, ys []float64) {
	xs = make([]float64, len(m.Samples))
	ys = make([]float64, len(m.Samples))

	for i, s := range m.Samples {
		xs[i] = s.Pos[0]
		ys[i] = s.Pos[1]
	}

	return xs, ys
}
