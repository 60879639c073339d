// Package config loads the settings of a bench: the TOML bench file, the
// PARAM_* parameters handed to a test through the environment, and the
// location of the project root.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/evolvablehardware/PUFFS/sim"
)

// BenchConfig describes one bench run.
type BenchConfig struct {
	Name    string
	Seed    uint64
	Cycles  int
	FreqMHz float64
	Log     LogConfig
	Params  Params
}

// LogConfig says where the diagnostics of a run go. Empty paths disable the
// corresponding output.
type LogConfig struct {
	Path        string
	Markers     string
	DumpFile    string
	Record      string
	TimescaleNS float64
}

// DefaultBenchConfig returns the settings used for keys a bench file leaves
// out.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Name:    "Adder",
		Cycles:  1000,
		FreqMHz: 100,
		Log: LogConfig{
			Path:        "test.log",
			Markers:     "dump.gtkw",
			DumpFile:    "dump.vcd",
			TimescaleNS: 1,
		},
		Params: Params{},
	}
}

type fileConfig struct {
	Name    string         `toml:"name"`
	Seed    uint64         `toml:"seed"`
	Cycles  int            `toml:"cycles"`
	FreqMHz float64        `toml:"freq_mhz"`
	Log     fileLogConfig  `toml:"log"`
	Params  map[string]any `toml:"params"`
}

type fileLogConfig struct {
	Path        string  `toml:"path"`
	Markers     string  `toml:"markers"`
	DumpFile    string  `toml:"dumpfile"`
	Record      string  `toml:"record"`
	TimescaleNS float64 `toml:"timescale_ns"`
}

// LoadBenchConfig reads a bench file. Keys that the file does not define
// keep their default value.
func LoadBenchConfig(path string) (BenchConfig, error) {
	cfg := DefaultBenchConfig()

	var raw fileConfig

	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return BenchConfig{}, errors.Wrapf(err, "load bench config %s", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return BenchConfig{}, errors.Newf(
			"load bench config %s: unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}

	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}

	if meta.IsDefined("cycles") {
		cfg.Cycles = raw.Cycles
	}

	if meta.IsDefined("freq_mhz") {
		cfg.FreqMHz = raw.FreqMHz
	}

	if meta.IsDefined("log", "path") {
		cfg.Log.Path = strings.TrimSpace(raw.Log.Path)
	}

	if meta.IsDefined("log", "markers") {
		cfg.Log.Markers = strings.TrimSpace(raw.Log.Markers)
	}

	if meta.IsDefined("log", "dumpfile") {
		cfg.Log.DumpFile = strings.TrimSpace(raw.Log.DumpFile)
	}

	if meta.IsDefined("log", "record") {
		cfg.Log.Record = strings.TrimSpace(raw.Log.Record)
	}

	if meta.IsDefined("log", "timescale_ns") {
		cfg.Log.TimescaleNS = raw.Log.TimescaleNS
	}

	for k, v := range raw.Params {
		cfg.Params[k] = v
	}

	if err := cfg.Validate(); err != nil {
		return BenchConfig{}, errors.Wrapf(err, "load bench config %s", path)
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c BenchConfig) Validate() error {
	switch {
	case c.Name == "":
		return errors.New("name must not be empty")
	case !sim.IsValidName(c.Name):
		return errors.Newf("name %q must be capitalized without _, - or quotes", c.Name)
	case c.Cycles < 1:
		return errors.Newf("cycles must be positive, got %d", c.Cycles)
	case c.FreqMHz <= 0:
		return errors.Newf("freq_mhz must be positive, got %v", c.FreqMHz)
	case c.Log.TimescaleNS <= 0:
		return errors.Newf("timescale_ns must be positive, got %v", c.Log.TimescaleNS)
	}

	for k, v := range c.Params {
		if !validParamName(k) {
			return errors.Newf("invalid parameter name %q", k)
		}

		switch v.(type) {
		case int64, float64, bool, string:
		default:
			return errors.Newf("parameter %s has unsupported type %T", k, v)
		}
	}

	return nil
}

// Freq returns the clock frequency.
func (c BenchConfig) Freq() sim.Freq {
	return sim.Freq(c.FreqMHz) * sim.MHz
}

// Timescale returns the duration of one simulator time step.
func (c BenchConfig) Timescale() sim.VTimeInSec {
	return sim.VTimeInSec(c.Log.TimescaleNS * 1e-9)
}
