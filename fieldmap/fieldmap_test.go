package fieldmap

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mtmslab/fieldbench/internal/testutil"
)

const sampleMap = `0.01 0.02 0.003 -1.0 0.0 0.0
0.00 0.00 0.001 0.0 -2.0 0.0

-0.01 0.02 0.002 -1.0 -2.0 -2.0
`

func TestParse(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleMap))
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(m.Samples))
	}

	// Sorted by ascending Z: 0.001, 0.002, 0.003.
	zs := []float64{m.Samples[0].Pos[2], m.Samples[1].Pos[2], m.Samples[2].Pos[2]}
	for i := 1; i < len(zs); i++ {
		if zs[i] < zs[i-1] {
			t.Fatalf("samples not sorted by Z: %v", zs)
		}
	}

	// Field sign is flipped on load: recorded (0,-2,0) becomes (0,2,0).
	first := m.Samples[0]
	if first.Field != [3]float64{0, 2, 0} {
		t.Fatalf("field = %v, want (0,2,0)", first.Field)
	}

	testutil.RequireNearlyEqual(t, first.Norm, 2, 1e-12)

	if first.Unit != [3]float64{0, 1, 0} {
		t.Fatalf("unit = %v, want (0,1,0)", first.Unit)
	}

	// Norm of the recorded (-1,-2,-2) sample is 3.
	testutil.RequireNearlyEqual(t, m.Samples[1].Norm, 3, 1e-12)
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); !errors.Is(err, ErrEmptyMap) {
		t.Fatalf("empty input: got %v, want ErrEmptyMap", err)
	}

	if _, err := Parse(strings.NewReader("1 2 3 4 5\n")); err == nil {
		t.Fatal("expected error for short line")
	}

	if _, err := Parse(strings.NewReader("1 2 3 4 5 six\n")); err == nil {
		t.Fatal("expected error for non-numeric column")
	}
}

func TestScalePositions(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleMap))
	if err != nil {
		t.Fatal(err)
	}

	m.ScalePositions(1000)

	// 0.001 m → 1 mm on the lowest-Z sample.
	testutil.RequireNearlyEqual(t, m.Samples[0].Pos[2], 1, 1e-9)
}

func TestNormalizedNorms(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleMap))
	if err != nil {
		t.Fatal(err)
	}

	norms := m.NormalizedNorms()

	minN, maxN := math.Inf(1), math.Inf(-1)
	for _, v := range norms {
		if v < minN {
			minN = v
		}
		if v > maxN {
			maxN = v
		}
	}

	testutil.RequireNearlyEqual(t, minN, 0, 1e-12)
	testutil.RequireNearlyEqual(t, maxN, 1, 1e-12)
}

func TestNormalizedNormsFlat(t *testing.T) {
	flat := "0 0 0 1 0 0\n1 0 0 1 0 0\n"

	m, err := Parse(strings.NewReader(flat))
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range m.NormalizedNorms() {
		if v != 0 {
			t.Fatalf("index %d: got %v, want 0", i, v)
		}
	}
}

func TestXY(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleMap))
	if err != nil {
		t.Fatal(err)
	}

	xs, ys := m.XY()
	if len(xs) != 3 || len(ys) != 3 {
		t.Fatalf("got %d/%d coordinates, want 3/3", len(xs), len(ys))
	}

	// Lowest-Z sample sits at the origin in-plane.
	if xs[0] != 0 || ys[0] != 0 {
		t.Fatalf("first sample at (%v, %v), want (0, 0)", xs[0], ys[0])
	}
}
