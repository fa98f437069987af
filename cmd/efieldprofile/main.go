// Command efieldprofile measures the focality of the stimulation field
// from spatial E-field profiles and renders the profile figure.
//
// Usage:
//
//	efieldprofile [flags]
//
// Examples:
//
//	efieldprofile -parallel parallel.csv -perpendicular perpendicular.csv
//	efieldprofile -root /data/run1 -diag
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/mtmslab/fieldbench/config"
	"github.com/mtmslab/fieldbench/dsp/filter/zerophase"
	"github.com/mtmslab/fieldbench/figure"
	"github.com/mtmslab/fieldbench/internal/loader"
	"github.com/mtmslab/fieldbench/measure/focality"
)

func main() {
	root := flag.String("root", ".", "root directory of the data layout")
	envFile := flag.String("env", "", "optional .env file overriding the layout")
	parallel := flag.String("parallel", "efield_profile_parallel.csv", "profile CSV along the coil axis, relative to the data dir")
	perpendicular := flag.String("perpendicular", "efield_profile_perpendicular.csv", "profile CSV across the coil axis, relative to the data dir")
	cutoff := flag.Float64("cutoff", 0.05, "display smoothing cutoff in cycles/mm")
	diag := flag.Bool("diag", false, "also render per-coil fit diagnostics")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: efieldprofile [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Measures FWHM focality of the E-field profiles and renders the profile figure.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := resolveConfig(*root, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.PlotDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	axes := []struct {
		name string
		file string
	}{
		{"parallel", *parallel},
		{"perpendicular", *perpendicular},
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Axis\tCoil\tFWHM [mm]\tPeaks\n")

	failed := false

	for _, axis := range axes {
		profile, err := loader.ReadProfileFile(filepath.Join(cfg.DataDir, axis.file))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			failed = true
			continue
		}

		coils := []struct {
			name string
			amps []float64
		}{
			{"top", profile.Top},
			{"bottom", profile.Bottom},
		}

		series := make([]figure.ProfileSeries, 0, len(coils))

		for _, coil := range coils {
			norm := normalizeToPeak(coil.amps)

			fcfg := focality.Config{}

			var renderer *figure.DiagnosticRenderer
			if *diag {
				renderer = &figure.DiagnosticRenderer{
					Path: filepath.Join(cfg.PlotDir, fmt.Sprintf("focality_%s_%s.png", axis.name, coil.name)),
				}
				fcfg.Visualizer = renderer.Visualize
			}

			res, err := focality.Estimate(profile.XMm, norm, fcfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %s %s coil: %v\n", axis.name, coil.name, err)
				failed = true
				continue
			}

			if renderer != nil && renderer.Err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", renderer.Err)
				failed = true
			}

			fmt.Fprintf(tw, "%s\t%s\t%.1f\t%d\n", axis.name, coil.name, res.FWHM, len(res.Peaks))

			series = append(series, figure.ProfileSeries{
				Label:    fmt.Sprintf("%s coil, %s", coil.name, axis.name),
				Raw:      norm,
				Smoothed: smoothForDisplay(norm, profile.XMm, *cutoff),
			})
		}

		if len(series) == 0 {
			continue
		}

		out := filepath.Join(cfg.PlotDir, "efield_profile_"+axis.name+".png")
		if err := figure.Profile(out, "Position (mm)", profile.XMm, series, figure.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			failed = true
		}
	}

	tw.Flush()

	if failed {
		os.Exit(1)
	}
}

func resolveConfig(root, envFile string) (config.Config, error) {
	if envFile != "" {
		return config.Load(root, envFile)
	}

	return config.FromEnv(root), nil
}

// normalizeToPeak maps a profile onto [-1, 1] by its largest magnitude.
func normalizeToPeak(amps []float64) []float64 {
	peak := 0.0
	for _, v := range amps {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	out := make([]float64, len(amps))
	if peak == 0 {
		return out
	}

	for i, v := range amps {
		out[i] = v / peak
	}

	return out
}

// smoothForDisplay lowpasses the profile along its spatial axis, with the
// minimum anchored so the smoothed peak returns to 1. Returns nil when the
// profile cannot be smoothed; the figure then shows raw samples only.
func smoothForDisplay(norm, positions []float64, cutoff float64) []float64 {
	if len(positions) < 2 {
		return nil
	}

	step := math.Abs(positions[1] - positions[0])
	if step == 0 {
		return nil
	}

	sm, err := zerophase.Lowpass(norm, cutoff, 1/step, 2)
	if err != nil {
		return nil
	}

	minV, maxV := sm[0], sm[0]
	for _, v := range sm[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	span := maxV - minV
	if span == 0 {
		return sm
	}

	for i, v := range sm {
		sm[i] = minV + (v-minV)*(1-minV)/span
	}

	return sm
}
