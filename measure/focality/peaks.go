package focality

import "math"

// findPeaks returns the indices of local maxima in y whose value is at
// least minHeight. Endpoints never qualify. A flat plateau counts as a
// single peak at its midpoint.
func findPeaks(y []float64, minHeight float64) []int {
	var peaks []int

	i := 1
	for i < len(y)-1 {
		if y[i-1] >= y[i] {
			i++
			continue
		}

		// Ascent found; skip across any plateau.
		j := i
		for j < len(y)-1 && y[j+1] == y[j] {
			j++
		}

		if j < len(y)-1 && y[j+1] < y[j] {
			mid := (i + j) / 2
			if y[mid] >= minHeight {
				peaks = append(peaks, mid)
			}
		}

		i = j + 1
	}

	return peaks
}

// prominence computes the peak prominence and the indices bounding its
// base: on each side, walk until a sample higher than the peak (or the
// signal edge) and take the minimum over that stretch. The prominence is
// the peak height above the higher of the two minima.
func prominence(y []float64, peak int) (prom float64, leftBase, rightBase int) {
	h := y[peak]

	leftMin := h
	leftBase = peak
	for i := peak - 1; i >= 0; i-- {
		if y[i] > h {
			break
		}

		if y[i] < leftMin {
			leftMin = y[i]
			leftBase = i
		}
	}

	rightMin := h
	rightBase = peak
	for i := peak + 1; i < len(y); i++ {
		if y[i] > h {
			break
		}

		if y[i] < rightMin {
			rightMin = y[i]
			rightBase = i
		}
	}

	base := leftMin
	if rightMin > base {
		base = rightMin
	}

	return h - base, leftBase, rightBase
}

// measureWidth measures the width of the peak at the height level
// peak - prominence*relHeight. Crossings between samples are located by
// linear interpolation; the reported Left/Right indices are rounded to the
// nearest sample.
func measureWidth(y []float64, peak int, relHeight float64) Width {
	prom, leftBase, rightBase := prominence(y, peak)
	level := y[peak] - prom*relHeight

	leftIP := float64(leftBase)
	for i := peak; i > leftBase; i-- {
		if y[i-1] <= level {
			leftIP = float64(i-1) + (level-y[i-1])/(y[i]-y[i-1])
			break
		}
	}

	rightIP := float64(rightBase)
	for i := peak; i < rightBase; i++ {
		if y[i+1] <= level {
			rightIP = float64(i) + (y[i]-level)/(y[i]-y[i+1])
			break
		}
	}

	return Width{
		Peak:   peak,
		Height: level,
		Width:  rightIP - leftIP,
		Left:   int(math.Round(leftIP)),
		Right:  int(math.Round(rightIP)),
	}
}
