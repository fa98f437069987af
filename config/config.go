// Package config resolves the data and output directories used by the
// analysis commands. Values come from a .env file or the process
// environment; unset keys fall back to a conventional layout under the
// root directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvDataDir     = "DATA_DIR"
	EnvMEPDir      = "MEP_DIR"
	EnvMRIDir      = "MRI_DIR"
	EnvAcousticDir = "ACOUSTIC_DIR"
	EnvPlotDir     = "PLOT_DIR"
)

// Config holds the directory layout for one analysis run.
type Config struct {
	DataDir     string // oscilloscope captures, profiles, field maps
	MEPDir      string // motor-evoked-potential tables
	MRIDir      string // anatomical scans used as plot underlays
	AcousticDir string // microphone recordings of the coil click
	PlotDir     string // rendered figures
}

// Default returns the conventional layout under root.
func Default(root string) Config {
	return Config{
		DataDir:     filepath.Join(root, "data"),
		MEPDir:      filepath.Join(root, "data", "mep"),
		MRIDir:      filepath.Join(root, "data", "mri"),
		AcousticDir: filepath.Join(root, "data", "acoustic"),
		PlotDir:     filepath.Join(root, "plots"),
	}
}

// Load reads a .env file and returns the layout it describes. Keys
// missing from the file keep their defaults relative to root.
func Load(root, envPath string) (Config, error) {
	env, err := godotenv.Read(envPath)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", envPath, err)
	}

	cfg := Default(root)
	cfg.apply(func(key string) string { return env[key] })

	return cfg, nil
}

// FromEnv returns the layout described by the process environment,
// falling back to the defaults relative to root.
func FromEnv(root string) Config {
	cfg := Default(root)
	cfg.apply(os.Getenv)

	return cfg
}

func (c *Config) apply(lookup func(string) string) {
	set := func(dst *string, key string) {
		if v := lookup(key); v != "" {
			*dst = v
		}
	}

	set(&c.DataDir, EnvDataDir)
	set(&c.MEPDir, EnvMEPDir)
	set(&c.MRIDir, EnvMRIDir)
	set(&c.AcousticDir, EnvAcousticDir)
	set(&c.PlotDir, EnvPlotDir)
}
