package focality

import (
	"math"
	"reflect"
	"testing"
)

func TestFindPeaks(t *testing.T) {
	cases := []struct {
		name      string
		y         []float64
		minHeight float64
		want      []int
	}{
		{"single peak", []float64{0, 1, 0}, 0.5, []int{1}},
		{"below threshold", []float64{0, 0.4, 0}, 0.5, nil},
		{"threshold inclusive", []float64{0, 0.5, 0}, 0.5, []int{1}},
		{"two peaks", []float64{0, 1, 0, 0.8, 0}, 0.5, []int{1, 3}},
		{"plateau midpoint", []float64{0, 1, 1, 0}, 0.5, []int{1}},
		{"wide plateau", []float64{0, 1, 1, 1, 0}, 0.5, []int{2}},
		{"edge maxima ignored", []float64{1, 0.5, 0, 0.5, 1}, 0.5, nil},
		{"monotonic", []float64{0, 1, 2, 3}, 0.5, nil},
		{"empty", nil, 0.5, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := findPeaks(tc.y, tc.minHeight)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("findPeaks = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProminenceIsolatedPeak(t *testing.T) {
	y := []float64{0, 0.2, 1, 0.3, 0}

	prom, left, right := prominence(y, 2)
	if prom != 1 {
		t.Fatalf("prominence %v, want 1", prom)
	}

	if left != 0 || right != 4 {
		t.Fatalf("bases (%d, %d), want (0, 4)", left, right)
	}
}

func TestProminenceShoulderPeak(t *testing.T) {
	// The smaller peak at index 5 is bounded on the left by the valley at
	// index 4 (0.4), so its prominence is measured from there.
	y := []float64{0, 1, 0.4, 0.4, 0.4, 0.8, 0.1}

	prom, _, _ := prominence(y, 5)
	if math.Abs(prom-0.4) > 1e-12 {
		t.Fatalf("prominence %v, want 0.4", prom)
	}
}

func TestMeasureWidthTriangle(t *testing.T) {
	// Symmetric triangle of height 1 on a zero baseline.
	y := []float64{0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25, 0}

	// Width at half prominence: crossings at 2 and 6, width 4.
	w := measureWidth(y, 4, 0.5)
	if math.Abs(w.Width-4) > 1e-12 {
		t.Fatalf("width %v, want 4", w.Width)
	}

	if w.Height != 0.5 {
		t.Fatalf("height %v, want 0.5", w.Height)
	}

	if w.Left != 2 || w.Right != 6 {
		t.Fatalf("bounds (%d, %d), want (2, 6)", w.Left, w.Right)
	}
}

func TestMeasureWidthInterpolatedCrossing(t *testing.T) {
	y := []float64{0, 0.2, 1, 0.2, 0}

	// Level 0.5 crosses between samples; expect linear interpolation:
	// left at 1 + (0.5-0.2)/0.8 = 1.375, right at 2 + 0.5/0.8 = 2.625.
	w := measureWidth(y, 2, 0.5)
	if math.Abs(w.Width-1.25) > 1e-12 {
		t.Fatalf("width %v, want 1.25", w.Width)
	}

	if w.Left != 1 || w.Right != 3 {
		t.Fatalf("bounds (%d, %d), want (1, 3)", w.Left, w.Right)
	}
}
