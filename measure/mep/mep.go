// Package mep summarizes motor-evoked-potential amplitude and latency
// tables recorded during orientation-controlled stimulation: two
// hemispheres, two recording paws, eight coil orientations in 45° steps.
package mep

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrNoRecords is returned when a summary is requested for an empty table.
var ErrNoRecords = errors.New("mep: no records to summarize")

// Side labels which body side a response belongs to relative to the
// stimulated hemisphere.
type Side string

// Response sides.
const (
	Ipsilateral   Side = "ipsilateral"
	Contralateral Side = "contralateral"
)

// Record is one MEP observation.
type Record struct {
	Brain          string  // stimulated hemisphere ("left"/"right")
	Paw            string  // recording forepaw ("left"/"right")
	OrientationDeg float64 // coil orientation, 0–315 in 45° steps
	AmplitudeUv    float64 // peak-to-peak amplitude in µV
	LatencyMs      float64 // response latency in ms; 0 marks no response
}

// FoldOrientation maps orientations above 180° to their signed
// equivalents so 315° plots as −45° next to 0°.
func FoldOrientation(deg float64) float64 {
	if deg > 180 {
		return deg - 360
	}

	return deg
}

// ResponseSide labels a (hemisphere, paw) pair: same side is ipsilateral,
// opposite is contralateral.
func ResponseSide(brain, paw string) Side {
	if brain == paw {
		return Ipsilateral
	}

	return Contralateral
}

// Summary holds the per-group medians for one (brain, side, orientation)
// cell.
type Summary struct {
	Brain          string
	Side           Side
	OrientationDeg float64 // folded to (−180, 180]

	MedianAmplitudeUv float64
	MedianLatencyMs   float64

	// Amplitude spread for error bars.
	AmplitudeQ1Uv float64
	AmplitudeQ3Uv float64

	N        int // observations in the cell
	NLatency int // observations with a nonzero latency
}

// Summarize groups records by hemisphere, response side and folded
// orientation and reports median amplitude and latency per group. Zero
// latencies mark absent responses and are excluded from the latency
// median, mirroring how the measurement was logged.
//
// Summaries are sorted by brain, side, then orientation.
func Summarize(records []Record) ([]Summary, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	type key struct {
		brain       string
		side        Side
		orientation float64
	}

	groups := make(map[key]*Summary)

	amplitudes := make(map[key][]float64)
	latencies := make(map[key][]float64)

	for _, r := range records {
		k := key{
			brain:       r.Brain,
			side:        ResponseSide(r.Brain, r.Paw),
			orientation: FoldOrientation(r.OrientationDeg),
		}

		s, ok := groups[k]
		if !ok {
			s = &Summary{Brain: k.brain, Side: k.side, OrientationDeg: k.orientation}
			groups[k] = s
		}

		s.N++
		amplitudes[k] = append(amplitudes[k], r.AmplitudeUv)

		if r.LatencyMs != 0 {
			s.NLatency++
			latencies[k] = append(latencies[k], r.LatencyMs)
		}
	}

	out := make([]Summary, 0, len(groups))
	for k, s := range groups {
		amps := sorted(amplitudes[k])
		s.MedianAmplitudeUv = median(amps)
		s.AmplitudeQ1Uv = stat.Quantile(0.25, stat.Empirical, amps, nil)
		s.AmplitudeQ3Uv = stat.Quantile(0.75, stat.Empirical, amps, nil)

		s.MedianLatencyMs = median(sorted(latencies[k]))
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Brain != out[j].Brain {
			return out[i].Brain < out[j].Brain
		}
		if out[i].Side != out[j].Side {
			return out[i].Side < out[j].Side
		}
		return out[i].OrientationDeg < out[j].OrientationDeg
	})

	return out, nil
}

func sorted(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)

	return out
}

// median of an already-sorted slice, midpoint convention for even counts.
func median(sortedValues []float64) float64 {
	n := len(sortedValues)
	if n == 0 {
		return 0
	}

	if n%2 == 1 {
		return sortedValues[n/2]
	}

	return (sortedValues[n/2-1] + sortedValues[n/2]) / 2
}
