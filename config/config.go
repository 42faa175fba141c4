// Package config loads the optional YAML batch-run file both CLI
// drivers accept, layering it underneath the pflag-parsed command line
// the way kiwi_wspr layers its CW Skimmer YAML config beneath explicit
// overrides: file values become the flag defaults, so anything actually
// passed on the command line still wins.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CombFile is the on-disk shape of an ldcomb batch config file. Fields
// mirror comb.Config plus the CLI-only I/O options, using YAML's zero
// value ("" / 0 / false) to mean "unset, fall back to the built-in
// default" rather than "explicitly zero."
type CombFile struct {
	Input       string  `yaml:"input"`
	Output      string  `yaml:"output"`
	PerFrame    bool    `yaml:"perFrame"`
	OneFrame    bool    `yaml:"oneFrame"`
	TUI         bool    `yaml:"tui"`
	Dim         int     `yaml:"dim"`
	RawLines    bool    `yaml:"rawLines"`
	BW          bool    `yaml:"bw"`
	Wide        bool    `yaml:"wide"`
	Brightness  float64 `yaml:"brightness"`
	BlackIRE    float64 `yaml:"blackIRE"`
	NRLuma      float64 `yaml:"nrLuma"`
	NRChroma    float64 `yaml:"nrChroma"`
	Pulldown    bool    `yaml:"pulldown"`
	MetricsAddr string  `yaml:"metricsAddr"`
	Source      string  `yaml:"source"`
	FrequencyHz uint64  `yaml:"frequencyHz"`
	SampleRate  float64 `yaml:"sampleRate"`
	Gain        int     `yaml:"gain"`
	LNAGain     int     `yaml:"lnaGain"`
	VGAGain     int     `yaml:"vgaGain"`
}

// EFMFile is the on-disk shape of an ldefm batch config file.
type EFMFile struct {
	Input       string `yaml:"input"`
	Audio       string `yaml:"audio"`
	Metadata    string `yaml:"metadata"`
	TUI         bool   `yaml:"tui"`
	MetricsAddr string `yaml:"metricsAddr"`
}

// LoadCombFile reads and parses an ldcomb YAML config file. A missing
// path is not an error at this layer; callers pass "" to skip loading.
func LoadCombFile(path string) (*CombFile, error) {
	if path == "" {
		return &CombFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f CombFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &f, nil
}

// LoadEFMFile reads and parses an ldefm YAML config file.
func LoadEFMFile(path string) (*EFMFile, error) {
	if path == "" {
		return &EFMFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f EFMFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &f, nil
}

// PreScanConfigPath extracts a --config/-c value from args without
// otherwise parsing or validating them, so the caller can load the YAML
// file's values as flag defaults before the real flag set is built.
func PreScanConfigPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > len("--config="):
			if a[:len("--config=")] == "--config=" {
				return a[len("--config="):]
			}
		}
	}
	return ""
}
