// Command efieldwaveform conditions oscilloscope pulse captures, prints
// the pulse metrics and renders the waveform figure for each coil.
//
// Usage:
//
//	efieldwaveform [flags]
//
// Examples:
//
//	efieldwaveform -bottom scope_bottom.csv -top scope_top.csv
//	efieldwaveform -root /data/run1 -cutoff 2e6
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/mtmslab/fieldbench/config"
	"github.com/mtmslab/fieldbench/figure"
	"github.com/mtmslab/fieldbench/internal/loader"
	"github.com/mtmslab/fieldbench/measure/waveform"
)

func main() {
	root := flag.String("root", ".", "root directory of the data layout")
	envFile := flag.String("env", "", "optional .env file overriding the layout")
	bottom := flag.String("bottom", "scope_bottom.csv", "bottom coil scope CSV, relative to the data dir")
	top := flag.String("top", "scope_top.csv", "top coil scope CSV, relative to the data dir")
	cutoff := flag.Float64("cutoff", waveform.DefaultCutoffHz, "display smoothing cutoff in Hz")
	order := flag.Int("order", waveform.DefaultOrder, "one-way order of the smoothing filter")
	reference := flag.Float64("reference", waveform.DefaultReferenceVm, "calibration pulse amplitude in V/m")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: efieldwaveform [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Conditions pulse captures, prints metrics and renders waveform figures.\n\n")
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

	wcfg := waveform.Config{
		CutoffHz:    *cutoff,
		Order:       *order,
		ReferenceVm: *reference,
	}

	coils := []struct {
		name string
		file string
	}{
		{"bottom", *bottom},
		{"top", *top},
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Coil\tPeak I [kA]\tat [µs]\tPeak E [V/m]\tat [µs]\tf0 [kHz]\t∫I²dt [kA²µs]\n")

	failed := false

	for _, coil := range coils {
		capture, err := loader.ReadScopeFile(filepath.Join(cfg.DataDir, coil.file))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			failed = true
			continue
		}

		tr, err := waveform.Condition(capture, wcfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s coil: %v\n", coil.name, err)
			failed = true
			continue
		}

		m, err := tr.Analyze()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s coil: %v\n", coil.name, err)
			failed = true
			continue
		}

		fmt.Fprintf(tw, "%s\t%.2f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			coil.name,
			m.PeakCurrentKA,
			m.PeakCurrentMicros,
			m.PeakEFieldVm,
			m.PeakEFieldMicros,
			m.DominantFreqHz/1e3,
			m.EnergyProxy,
		)

		out := filepath.Join(cfg.PlotDir, "efield_waveform_"+coil.name+".png")
		title := fmt.Sprintf("Pulse waveform, %s coil", coil.name)
		if err := figure.Waveform(out, title, tr, figure.Options{}); err != nil {
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
