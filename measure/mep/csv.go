package mep

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ReadCSV parses an MEP table. The header row names the columns; brain,
// paw, orientation, amplitude and latency are required, extra columns are
// ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("mep: reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	for _, name := range []string{"brain", "paw", "orientation", "amplitude", "latency"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("mep: missing column %q", name)
		}
	}

	var records []Record

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mep: reading row: %w", err)
		}
		line++

		rec := Record{
			Brain: row[col["brain"]],
			Paw:   row[col["paw"]],
		}

		if rec.OrientationDeg, err = strconv.ParseFloat(row[col["orientation"]], 64); err != nil {
			return nil, fmt.Errorf("mep: line %d: bad orientation: %w", line, err)
		}

		if rec.AmplitudeUv, err = strconv.ParseFloat(row[col["amplitude"]], 64); err != nil {
			return nil, fmt.Errorf("mep: line %d: bad amplitude: %w", line, err)
		}

		if rec.LatencyMs, err = strconv.ParseFloat(row[col["latency"]], 64); err != nil {
			return nil, fmt.Errorf("mep: line %d: bad latency: %w", line, err)
		}

		records = append(records, rec)
	}

	return records, nil
}
