// Command meporient summarizes the motor-evoked-potential table of an
// orientation sweep and renders the amplitude and latency figures.
//
// Usage:
//
//	meporient [flags]
//
// Examples:
//
//	meporient -in mep.csv
//	meporient -root /data/run1 -env run1.env
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/mtmslab/fieldbench/config"
	"github.com/mtmslab/fieldbench/figure"
	"github.com/mtmslab/fieldbench/measure/mep"
)

func main() {
	root := flag.String("root", ".", "root directory of the data layout")
	envFile := flag.String("env", "", "optional .env file overriding the layout")
	in := flag.String("in", "mep.csv", "MEP table CSV, relative to the MEP dir")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: meporient [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Summarizes MEP responses per coil orientation and renders figures.\n\n")
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

	path := *in
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.MEPDir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	records, err := mep.ReadCSV(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
		os.Exit(1)
	}

	summaries, err := mep.Summarize(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Brain\tSide\tOrientation [°]\tMedian amp [µV]\tQ1\tQ3\tMedian lat [ms]\tN\tN lat\n")

	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.1f\t%.1f\t%.1f\t%.1f\t%d\t%d\n",
			s.Brain,
			s.Side,
			s.OrientationDeg,
			s.MedianAmplitudeUv,
			s.AmplitudeQ1Uv,
			s.AmplitudeQ3Uv,
			s.MedianLatencyMs,
			s.N,
			s.NLatency,
		)
	}

	tw.Flush()

	failed := false

	amp := filepath.Join(cfg.PlotDir, "mep_amplitude.png")
	if err := figure.MEPAmplitude(amp, summaries, figure.Options{}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		failed = true
	}

	lat := filepath.Join(cfg.PlotDir, "mep_latency.png")
	if err := figure.MEPLatency(lat, summaries, figure.Options{}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		failed = true
	}

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
