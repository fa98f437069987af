package figure

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mtmslab/fieldbench/measure/focality"
)

// DiagnosticRenderer renders focality estimations as diagnostic figures:
// raw samples, the rescaled fitted curve, peak markers and the measured
// width lines. Its Visualize method satisfies focality.Visualizer, which
// cannot return an error, so the first render failure is kept in Err.
type DiagnosticRenderer struct {
	Path string
	Opt  Options

	Err error
}

// Visualize renders one estimation to the configured path.
func (r *DiagnosticRenderer) Visualize(d focality.Diagnostic) {
	if err := renderDiagnostic(r.Path, d, r.Opt); err != nil && r.Err == nil {
		r.Err = err
	}
}

func renderDiagnostic(path string, d focality.Diagnostic, opt Options) error {
	p := plot.New()
	p.Title.Text = "Focality fit"
	p.X.Label.Text = "Position (mm)"
	p.Y.Label.Text = "Normalized E-field"

	raw, err := plotter.NewScatter(xyPairs(d.Positions, d.Raw))
	if err != nil {
		return fmt.Errorf("figure: %w", err)
	}

	raw.GlyphStyle.Color = colorMuted
	raw.GlyphStyle.Radius = vg.Points(2)
	raw.Shape = draw.CircleGlyph{}
	p.Add(raw)
	p.Legend.Add("measured", raw)

	fit, err := plotter.NewLine(xyPairs(d.Positions, d.Fitted))
	if err != nil {
		return fmt.Errorf("figure: %w", err)
	}

	fit.LineStyle.Color = colorPrimary
	fit.LineStyle.Width = vg.Points(1.5)
	p.Add(fit)
	p.Legend.Add("fit", fit)

	peaks := make(plotter.XYs, len(d.Peaks))
	for i, pk := range d.Peaks {
		peaks[i].X = d.Positions[pk]
		peaks[i].Y = d.Fitted[pk]
	}

	marks, err := plotter.NewScatter(peaks)
	if err != nil {
		return fmt.Errorf("figure: %w", err)
	}

	marks.GlyphStyle.Color = colorAccent
	marks.GlyphStyle.Radius = vg.Points(4)
	marks.Shape = draw.PyramidGlyph{}
	p.Add(marks)
	p.Legend.Add("peaks", marks)

	for _, w := range d.Widths {
		span := plotter.XYs{
			{X: d.Positions[w.Left], Y: w.Height},
			{X: d.Positions[w.Right], Y: w.Height},
		}

		line, err := plotter.NewLine(span)
		if err != nil {
			return fmt.Errorf("figure: %w", err)
		}

		line.LineStyle.Color = colorSecondary
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(line)
	}

	p.Legend.Top = true

	return savePNG(p, path, opt)
}
