package efm

import (
	"github.com/spf13/pflag"

	"ldproc/config"
)

// CLIConfig carries the flag surface for the C1/section pipeline's
// command-line driver.
type CLIConfig struct {
	Input       string
	Audio       string
	Metadata    string
	TUI         bool
	MetricsAddr string
}

// ParseFlags builds a CLIConfig from os.Args-style flags. A --config/-c
// YAML file, if given, supplies flag defaults that any flag actually
// present in args still overrides.
func ParseFlags(args []string) (*CLIConfig, error) {
	file, err := config.LoadEFMFile(config.PreScanConfigPath(args))
	if err != nil {
		return nil, err
	}

	fs := pflag.NewFlagSet("ldefm", pflag.ContinueOnError)
	cfg := &CLIConfig{}

	metricsAddr := "localhost:9092"
	if file.MetricsAddr != "" {
		metricsAddr = file.MetricsAddr
	}

	var configPath string
	fs.StringVarP(&configPath, "config", "c", "", "YAML batch config file (flags override its values)")
	fs.StringVarP(&cfg.Input, "input", "i", file.Input, "input F3 frame filename (default: stdin)")
	fs.StringVarP(&cfg.Audio, "audio", "a", file.Audio, "output PCM audio filename (default: stdout)")
	fs.StringVarP(&cfg.Metadata, "metadata", "m", file.Metadata, "output YAML sidecar filename (default: none)")
	fs.BoolVarP(&cfg.TUI, "tui", "T", file.TUI, "show an interactive progress display instead of log lines")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", metricsAddr, "address to serve /metrics on (empty disables)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
