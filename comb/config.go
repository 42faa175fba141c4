package comb

import (
	"github.com/spf13/pflag"

	"ldproc/config"
)

// CLIConfig extends Config with the I/O-related flags that only make
// sense at the command-line boundary (input/output paths, per-frame
// file mode), separate from the decoder's own tunables.
type CLIConfig struct {
	Config
	Input       string
	Output      string
	PerFrame    bool
	OneFrame    bool
	TUI         bool
	MetricsAddr string
	rawLines    bool

	// Source selects where raw frames come from: "file" (default),
	// "rtlsdr" or "hackrf". The frequency/sample-rate/gain fields only
	// matter for the two live sources.
	Source       string
	FrequencyHz  uint64
	SampleRateHz float64
	Gain         int
	LNAGain      int
	VGAGain      int
}

// ParseFlags builds a CLIConfig from os.Args-style flags, using the
// short single-letter flags of the original tool alongside long forms.
// A --config/-c YAML file, if given, supplies flag defaults that any
// flag actually present in args still overrides.
func ParseFlags(args []string) (*CLIConfig, error) {
	file, err := config.LoadCombFile(config.PreScanConfigPath(args))
	if err != nil {
		return nil, err
	}

	fs := pflag.NewFlagSet("ldcomb", pflag.ContinueOnError)
	cfg := &CLIConfig{Config: DefaultConfig()}

	def := defaultsFromFile(file)

	var configPath string
	var dim int
	fs.StringVarP(&configPath, "config", "c", "", "YAML batch config file (flags override its values)")
	fs.StringVarP(&cfg.Input, "input", "i", def.Input, "input filename (default: stdin)")
	fs.StringVarP(&cfg.Output, "output", "o", def.Output, "output filename/base (default: stdout)")
	fs.BoolVarP(&cfg.PerFrame, "per-frame", "f", def.PerFrame, "write a separate file per frame")
	fs.BoolVarP(&cfg.PulldownMode, "pulldown", "p", def.PulldownMode, "use white flag/frame # for 3:2 pulldown")
	fs.IntVarP(&dim, "dim", "d", def.Dim, "comb dimension: 1, 2 or 3")
	fs.BoolVarP(&cfg.rawLines, "raw-lines", "v", def.rawLines, "output all 505 lines instead of 480")
	fs.BoolVarP(&cfg.BW, "bw", "B", def.BW, "black & white mode (drop chroma)")
	fs.BoolVarP(&cfg.Wide, "wide", "w", def.Wide, "use wide chroma low-pass")
	fs.Float64VarP(&cfg.Brightness, "brightness", "b", def.Brightness, "output brightness percentage")
	fs.Float64VarP(&cfg.BlackIRE, "black-ire", "I", def.BlackIRE, "black (setup) level in IRE")
	fs.Float64VarP(&cfg.NRLuma, "nr-luma", "n", def.NRLuma, "luma noise-reduction threshold in IRE (negative disables)")
	fs.Float64VarP(&cfg.NRChroma, "nr-chroma", "N", def.NRChroma, "chroma noise-reduction threshold in IRE (negative disables)")
	fs.BoolVarP(&cfg.OneFrame, "one-frame", "O", def.OneFrame, "process a single frame and exit")
	fs.BoolVarP(&cfg.TUI, "tui", "T", def.TUI, "show an interactive progress display instead of log lines")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", def.MetricsAddr, "address to serve /metrics on (empty disables)")
	fs.StringVarP(&cfg.Source, "source", "s", def.Source, "raw frame source: file, rtlsdr or hackrf")
	fs.Uint64VarP(&cfg.FrequencyHz, "freq", "F", def.FrequencyHz, "center frequency in Hz (rtlsdr/hackrf sources)")
	fs.Float64VarP(&cfg.SampleRateHz, "sample-rate", "R", def.SampleRateHz, "sample rate in Hz (rtlsdr/hackrf sources)")
	fs.IntVarP(&cfg.Gain, "gain", "g", def.Gain, "tuner gain in tenths of a dB (rtlsdr source)")
	fs.IntVar(&cfg.LNAGain, "lna-gain", def.LNAGain, "LNA gain in dB (hackrf source)")
	fs.IntVar(&cfg.VGAGain, "vga-gain", def.VGAGain, "VGA gain in dB (hackrf source)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Dim = Dimension(dim)
	if cfg.rawLines {
		cfg.LinesOut = RawHeight
	} else {
		cfg.LinesOut = 480
	}
	return cfg, nil
}

// combDefaults holds the resolved default for every flag before pflag
// applies the command line on top.
type combDefaults struct {
	Input, Output, MetricsAddr       string
	PerFrame, OneFrame, TUI          bool
	rawLines, BW, Wide, PulldownMode bool
	Dim                              int
	Brightness, BlackIRE             float64
	NRLuma, NRChroma                 float64
	Source                           string
	FrequencyHz                      uint64
	SampleRateHz                     float64
	Gain, LNAGain, VGAGain           int
}

func defaultsFromFile(f *config.CombFile) combDefaults {
	base := DefaultConfig()
	d := combDefaults{
		Dim:          int(base.Dim),
		Brightness:   base.Brightness,
		BlackIRE:     base.BlackIRE,
		NRLuma:       base.NRLuma,
		NRChroma:     base.NRChroma,
		MetricsAddr:  "localhost:9091",
		Source:       "file",
		SampleRateHz: 2_400_000,
		Gain:         400,
		LNAGain:      16,
		VGAGain:      20,
	}

	if f.Dim != 0 {
		d.Dim = f.Dim
	}
	d.Input = f.Input
	d.Output = f.Output
	d.PerFrame = f.PerFrame
	d.OneFrame = f.OneFrame
	d.TUI = f.TUI
	d.rawLines = f.RawLines
	d.BW = f.BW
	d.Wide = f.Wide
	d.PulldownMode = f.Pulldown
	if f.Brightness != 0 {
		d.Brightness = f.Brightness
	}
	if f.BlackIRE != 0 {
		d.BlackIRE = f.BlackIRE
	}
	if f.NRLuma != 0 {
		d.NRLuma = f.NRLuma
	}
	if f.NRChroma != 0 {
		d.NRChroma = f.NRChroma
	}
	if f.MetricsAddr != "" {
		d.MetricsAddr = f.MetricsAddr
	}
	if f.Source != "" {
		d.Source = f.Source
	}
	if f.FrequencyHz != 0 {
		d.FrequencyHz = f.FrequencyHz
	}
	if f.SampleRate != 0 {
		d.SampleRateHz = f.SampleRate
	}
	if f.Gain != 0 {
		d.Gain = f.Gain
	}
	if f.LNAGain != 0 {
		d.LNAGain = f.LNAGain
	}
	if f.VGAGain != 0 {
		d.VGAGain = f.VGAGain
	}
	return d
}
