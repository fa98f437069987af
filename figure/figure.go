// Package figure renders the publication figures of the characterization
// campaign as PNG files. Every renderer takes the data it plots plus an
// Options value; nothing in here touches global state.
package figure

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default figure geometry.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
	DefaultDPI    = 150
)

// Options controls the output geometry of a rendered figure. The zero
// value selects the defaults.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

func (o Options) normalize() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}

	return o
}

// Series colors shared by the renderers.
var (
	colorPrimary   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorSecondary = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorAccent    = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorMuted     = color.RGBA{R: 127, G: 127, B: 127, A: 255}
)

// savePNG rasterizes a single plot at the requested size and DPI.
func savePNG(p *plot.Plot, path string, opt Options) error {
	opt = opt.normalize()

	c := vgimg.NewWith(vgimg.UseWH(opt.Width, opt.Height), vgimg.UseDPI(opt.DPI))
	p.Draw(draw.New(c))

	return writeCanvas(c, path)
}

// saveStackedPNG rasterizes plots as vertically stacked panels sharing one
// canvas.
func saveStackedPNG(plots []*plot.Plot, path string, opt Options) error {
	opt = opt.normalize()

	rows := len(plots)
	grid := make([][]*plot.Plot, rows)
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}

	c := vgimg.NewWith(vgimg.UseWH(opt.Width, opt.Height), vgimg.UseDPI(opt.DPI))
	dc := draw.New(c)

	tiles := draw.Tiles{
		Rows: rows,
		Cols: 1,
		PadY: vg.Millimeter * 2,
	}

	canvases := plot.Align(grid, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}

	return writeCanvas(c, path)
}

func writeCanvas(c *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("figure: %w", err)
	}

	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("figure: writing %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("figure: %w", err)
	}

	return nil
}

func xyPairs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range pts {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}

	return pts
}
