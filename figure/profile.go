package figure

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ProfileSeries is one coil's measured and smoothed profile along an axis.
type ProfileSeries struct {
	Label    string
	Raw      []float64
	Smoothed []float64 // optional overlay; may be nil
}

// Profile renders a stacked panel per series: normalized E-field against
// position, raw samples as points with an optional smoothed overlay line.
func Profile(path, axisLabel string, positions []float64, series []ProfileSeries, opt Options) error {
	if len(series) == 0 {
		return fmt.Errorf("figure: profile needs at least one series")
	}

	plots := make([]*plot.Plot, len(series))

	for i, s := range series {
		p := plot.New()
		p.Title.Text = s.Label
		p.X.Label.Text = axisLabel
		p.Y.Label.Text = "Normalized E-field"

		pts, err := plotter.NewScatter(xyPairs(positions, s.Raw))
		if err != nil {
			return fmt.Errorf("figure: %w", err)
		}

		pts.GlyphStyle.Color = colorPrimary
		pts.GlyphStyle.Radius = vg.Points(2)
		pts.Shape = draw.CircleGlyph{}
		p.Add(pts)
		p.Legend.Add("measured", pts)

		if s.Smoothed != nil {
			line, err := plotter.NewLine(xyPairs(positions, s.Smoothed))
			if err != nil {
				return fmt.Errorf("figure: %w", err)
			}

			line.LineStyle.Color = colorSecondary
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
			p.Legend.Add("smoothed", line)
		}

		p.Legend.Top = true
		plots[i] = p
	}

	return saveStackedPNG(plots, path, opt)
}
