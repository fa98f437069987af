package figure

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"github.com/mtmslab/fieldbench/fieldmap"
)

// DefaultGridSize is the per-axis resolution of the heat-map resampling
// grid.
const DefaultGridSize = 64

// FieldMap renders the normalized field strength of a scattered map as a
// heat map. The samples are resampled onto a regular in-plane grid with
// inverse-distance weighting; gridSize ≤ 0 selects DefaultGridSize.
func FieldMap(path, title string, m *fieldmap.Map, gridSize int, opt Options) error {
	if len(m.Samples) == 0 {
		return fmt.Errorf("figure: field map has no samples")
	}

	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}

	xs, ys := m.XY()
	grid, err := resample(xs, ys, m.NormalizedNorms(), gridSize)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"

	hm := plotter.NewHeatMap(grid, palette.Heat(16, 1))
	p.Add(hm)

	return savePNG(p, path, opt)
}

// grid is a regular in-plane field resampled from scattered samples.
type grid struct {
	xs, ys []float64
	z      []float64 // row-major, len(xs)*len(ys)
}

func (g *grid) Dims() (c, r int) { return len(g.xs), len(g.ys) }
func (g *grid) X(c int) float64  { return g.xs[c] }
func (g *grid) Y(r int) float64  { return g.ys[r] }

func (g *grid) Z(c, r int) float64 { return g.z[r*len(g.xs)+c] }

// resample interpolates scattered values onto an n×n grid over their
// bounding box with inverse-square-distance weights. A grid node that
// coincides with a sample takes that sample's value exactly.
func resample(xs, ys, values []float64, n int) (*grid, error) {
	if len(xs) == 0 || len(xs) != len(ys) || len(xs) != len(values) {
		return nil, fmt.Errorf("figure: resample needs equal-length nonempty coordinates")
	}

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	g := &grid{
		xs: linspace(minX, maxX, n),
		ys: linspace(minY, maxY, n),
		z:  make([]float64, n*n),
	}

	for r, gy := range g.ys {
		for c, gx := range g.xs {
			g.z[r*n+c] = idw(xs, ys, values, gx, gy)
		}
	}

	return g, nil
}

func idw(xs, ys, values []float64, x, y float64) float64 {
	var num, den float64

	for i := range xs {
		dx, dy := xs[i]-x, ys[i]-y

		d2 := dx*dx + dy*dy
		if d2 == 0 {
			return values[i]
		}

		w := 1 / d2
		num += w * values[i]
		den += w
	}

	return num / den
}

func bounds(vs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)

	for _, v := range vs {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return lo, hi
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}

	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}

	return out
}
