// Command efieldmap renders heat maps of the measured 3-D E-field
// distribution, one figure per coil orientation.
//
// Usage:
//
//	efieldmap [flags] [map-file ...]
//
// Without arguments it loads the standard 0°, 45° and 90° maps from the
// data directory.
//
// Examples:
//
//	efieldmap
//	efieldmap -grid 128 efield_map_00deg.txt
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mtmslab/fieldbench/config"
	"github.com/mtmslab/fieldbench/fieldmap"
	"github.com/mtmslab/fieldbench/figure"
)

var defaultMaps = []string{
	"efield_map_00deg.txt",
	"efield_map_45deg.txt",
	"efield_map_90deg.txt",
}

func main() {
	root := flag.String("root", ".", "root directory of the data layout")
	envFile := flag.String("env", "", "optional .env file overriding the layout")
	grid := flag.Int("grid", figure.DefaultGridSize, "heat-map resampling grid size per axis")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: efieldmap [flags] [map-file ...]\n\n")
		fmt.Fprintf(os.Stderr, "Renders heat maps of measured E-field distributions.\n")
		fmt.Fprintf(os.Stderr, "Without arguments the standard orientation maps are loaded.\n\n")
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

	files := flag.Args()
	if len(files) == 0 {
		files = defaultMaps
	}

	failed := false

	for _, file := range files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.DataDir, file)
		}

		m, err := fieldmap.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			failed = true
			continue
		}

		// Positions are recorded in meters; figures use millimeters.
		m.ScalePositions(1000)

		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		out := filepath.Join(cfg.PlotDir, name+".png")

		if err := figure.FieldMap(out, name, m, *grid, figure.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			failed = true
			continue
		}

		fmt.Printf("%s: %d samples -> %s\n", file, len(m.Samples), out)
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
