package figure

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mtmslab/fieldbench/measure/mep"
)

// MEPAmplitude renders median MEP amplitude against coil orientation, one
// series per (hemisphere, response side), with quartile error bars.
func MEPAmplitude(path string, summaries []mep.Summary, opt Options) error {
	p := plot.New()
	p.Title.Text = "MEP amplitude vs. coil orientation"
	p.X.Label.Text = "Orientation (°)"
	p.Y.Label.Text = "Median amplitude (µV)"

	err := eachSeries(summaries, func(name string, style seriesStyle, group []mep.Summary) error {
		pts := make(plotter.XYs, len(group))
		errs := make(plotter.YErrors, len(group))

		for i, s := range group {
			pts[i].X = s.OrientationDeg
			pts[i].Y = s.MedianAmplitudeUv
			errs[i].Low = s.MedianAmplitudeUv - s.AmplitudeQ1Uv
			errs[i].High = s.AmplitudeQ3Uv - s.MedianAmplitudeUv
		}

		if err := addSeries(p, name, style, pts); err != nil {
			return err
		}

		bars, err := plotter.NewYErrorBars(errPoints{XYs: pts, YErrors: errs})
		if err != nil {
			return fmt.Errorf("figure: %w", err)
		}

		bars.LineStyle.Color = style.color
		p.Add(bars)

		return nil
	})
	if err != nil {
		return err
	}

	p.Legend.Top = true

	return savePNG(p, path, opt)
}

// MEPLatency renders median MEP latency against coil orientation, one
// series per (hemisphere, response side). Cells without a single evoked
// response are skipped.
func MEPLatency(path string, summaries []mep.Summary, opt Options) error {
	p := plot.New()
	p.Title.Text = "MEP latency vs. coil orientation"
	p.X.Label.Text = "Orientation (°)"
	p.Y.Label.Text = "Median latency (ms)"

	err := eachSeries(summaries, func(name string, style seriesStyle, group []mep.Summary) error {
		var pts plotter.XYs

		for _, s := range group {
			if s.NLatency == 0 {
				continue
			}

			pts = append(pts, plotter.XY{X: s.OrientationDeg, Y: s.MedianLatencyMs})
		}

		if len(pts) == 0 {
			return nil
		}

		return addSeries(p, name, style, pts)
	})
	if err != nil {
		return err
	}

	p.Legend.Top = true

	return savePNG(p, path, opt)
}

type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

type seriesStyle struct {
	color  color.RGBA
	dashes []vg.Length
}

// eachSeries groups summaries by (brain, side) and visits the groups in a
// stable order with a distinct style per group.
func eachSeries(summaries []mep.Summary, visit func(name string, style seriesStyle, group []mep.Summary) error) error {
	type key struct {
		brain string
		side  mep.Side
	}

	groups := make(map[key][]mep.Summary)
	for _, s := range summaries {
		k := key{brain: s.Brain, side: s.Side}
		groups[k] = append(groups[k], s)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].brain != keys[j].brain {
			return keys[i].brain < keys[j].brain
		}
		return keys[i].side < keys[j].side
	})

	for _, k := range keys {
		style := seriesStyle{color: colorPrimary}
		if k.brain != "left" {
			style.color = colorSecondary
		}

		// Ipsilateral series are dashed.
		if k.side == mep.Ipsilateral {
			style.dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		}

		group := groups[k]
		sort.Slice(group, func(i, j int) bool {
			return group[i].OrientationDeg < group[j].OrientationDeg
		})

		name := k.brain + " hemisphere, " + string(k.side)
		if err := visit(name, style, group); err != nil {
			return err
		}
	}

	return nil
}

func addSeries(p *plot.Plot, name string, style seriesStyle, pts plotter.XYs) error {
	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("figure: %w", err)
	}

	line.LineStyle.Color = style.color
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = style.dashes

	scatter.GlyphStyle.Color = style.color
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.Shape = draw.CircleGlyph{}

	p.Add(line, scatter)
	p.Legend.Add(name, line, scatter)

	return nil
}
