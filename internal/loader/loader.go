// Package loader reads the measurement CSV formats produced during the
// characterization campaign.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mtmslab/fieldbench/measure/waveform"
)

// Profile is a spatial E-field profile measured along one axis for both
// coils of the transducer.
type Profile struct {
	XMm    []float64
	Top    []float64
	Bottom []float64
}

// ReadProfile loads a profile CSV with columns x_mm, efield_top,
// efield_bottom.
func ReadProfile(r io.Reader) (Profile, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return Profile{}, fmt.Errorf("loader: reading profile header: %w", err)
	}

	col, err := columnIndex(header, "x_mm", "efield_top", "efield_bottom")
	if err != nil {
		return Profile{}, err
	}

	var p Profile

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Profile{}, fmt.Errorf("loader: reading profile row: %w", err)
		}
		line++

		vals, err := parseColumns(row, line, col["x_mm"], col["efield_top"], col["efield_bottom"])
		if err != nil {
			return Profile{}, err
		}

		p.XMm = append(p.XMm, vals[0])
		p.Top = append(p.Top, vals[1])
		p.Bottom = append(p.Bottom, vals[2])
	}

	if len(p.XMm) == 0 {
		return Profile{}, fmt.Errorf("loader: profile has no samples")
	}

	return p, nil
}

// ReadProfileFile loads a profile CSV from disk.
func ReadProfileFile(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	p, err := ReadProfile(f)
	if err != nil {
		return Profile{}, fmt.Errorf("loader: %s: %w", path, err)
	}

	return p, nil
}

// ReadScope loads an oscilloscope CSV export. The header names the
// channels (x-axis, 1, 2, 4); the two metadata rows that follow it are
// skipped. Channel 1 is the Rogowski current probe, channel 2 the E-field
// probe and channel 4 the stimulator trigger.
func ReadScope(r io.Reader) (waveform.Capture, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return waveform.Capture{}, fmt.Errorf("loader: reading scope header: %w", err)
	}

	col, err := columnIndex(header, "x-axis", "1", "2")
	if err != nil {
		return waveform.Capture{}, err
	}

	trigger := -1
	for i, name := range header {
		if name == "4" {
			trigger = i
		}
	}

	// Unit and range metadata rows.
	for skip := 0; skip < 2; skip++ {
		if _, err := cr.Read(); err != nil {
			return waveform.Capture{}, fmt.Errorf("loader: skipping scope metadata: %w", err)
		}
	}

	var c waveform.Capture

	line := 3
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return waveform.Capture{}, fmt.Errorf("loader: reading scope row: %w", err)
		}
		line++

		vals, err := parseColumns(row, line, col["x-axis"], col["1"], col["2"])
		if err != nil {
			return waveform.Capture{}, err
		}

		c.Time = append(c.Time, vals[0])
		c.Current = append(c.Current, vals[1])
		c.EField = append(c.EField, vals[2])

		if trigger >= 0 && trigger < len(row) {
			v, err := strconv.ParseFloat(row[trigger], 64)
			if err != nil {
				return waveform.Capture{}, fmt.Errorf("loader: line %d: bad trigger value: %w", line, err)
			}
			c.Trigger = append(c.Trigger, v)
		}
	}

	if len(c.Time) == 0 {
		return waveform.Capture{}, fmt.Errorf("loader: scope capture has no samples")
	}

	return c, nil
}

// ReadScopeFile loads an oscilloscope CSV from disk.
func ReadScopeFile(path string) (waveform.Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return waveform.Capture{}, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	c, err := ReadScope(f)
	if err != nil {
		return waveform.Capture{}, fmt.Errorf("loader: %s: %w", path, err)
	}

	return c, nil
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("loader: missing column %q", name)
		}
	}

	return col, nil
}

func parseColumns(row []string, line int, idx ...int) ([]float64, error) {
	out := make([]float64, len(idx))

	for i, j := range idx {
		if j >= len(row) {
			return nil, fmt.Errorf("loader: line %d: row too short", line)
		}

		v, err := strconv.ParseFloat(row[j], 64)
		if err != nil {
			return nil, fmt.Errorf("loader: line %d: bad value %q: %w", line, row[j], err)
		}
		out[i] = v
	}

	return out, nil
}
