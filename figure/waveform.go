package figure

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mtmslab/fieldbench/measure/waveform"
)

// Waveform renders a conditioned pulse capture as two stacked panels:
// coil current in kA and induced E-field in V/m, both against time in µs.
// The smoothed curves overlay the raw ones.
func Waveform(path, title string, tr waveform.Trace, opt Options) error {
	current := plot.New()
	current.Title.Text = title
	current.Y.Label.Text = "Coil current (kA)"

	if err := addTracePanel(current, tr.TimeMicros, tr.CurrentKA, tr.SmoothedCurrent); err != nil {
		return err
	}

	efield := plot.New()
	efield.X.Label.Text = "Time (µs)"
	efield.Y.Label.Text = "E-field (V/m)"

	if err := addTracePanel(efield, tr.TimeMicros, tr.EFieldVm, tr.SmoothedEField); err != nil {
		return err
	}

	return saveStackedPNG([]*plot.Plot{current, efield}, path, opt)
}

func addTracePanel(p *plot.Plot, t, raw, smoothed []float64) error {
	rawLine, err := plotter.NewLine(xyPairs(t, raw))
	if err != nil {
		return fmt.Errorf("figure: %w", err)
	}

	rawLine.LineStyle.Color = colorMuted
	rawLine.LineStyle.Width = vg.Points(0.75)
	p.Add(rawLine)
	p.Legend.Add("raw", rawLine)

	if smoothed != nil {
		smLine, err := plotter.NewLine(xyPairs(t, smoothed))
		if err != nil {
			return fmt.Errorf("figure: %w", err)
		}

		smLine.LineStyle.Color = colorPrimary
		smLine.LineStyle.Width = vg.Points(1.5)
		p.Add(smLine)
		p.Legend.Add("filtered", smLine)
	}

	p.Legend.Top = true

	return nil
}
