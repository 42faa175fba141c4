// Command ldcomb decodes a raw digitized NTSC composite capture into
// RGB frames using the adaptive comb filter, mirroring the original
// standalone comb tool's CLI surface.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"ldproc/capture"
	"ldproc/comb"
	"ldproc/internal/tui"
	"ldproc/metrics"
)

func main() {
	cfg, err := comb.ParseFlags(os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("ldcomb: invalid flags")
	}

	log := logrus.WithFields(logrus.Fields{
		"component": "ldcomb",
		"dim":       cfg.Dim,
	})

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go serveMetrics(log, cfg.MetricsAddr)
	}

	src, err := openSource(cfg)
	if err != nil {
		log.WithError(err).Fatal("open input")
	}
	defer src.Close()

	sink, closeSink, err := openSink(cfg.Output, cfg.PerFrame)
	if err != nil {
		log.WithError(err).Fatal("open output")
	}
	defer closeSink()

	dec := comb.New(cfg.Config)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		<-sigCh
		log.Warn("received interrupt, stopping after current frame")
		close(done)
	}()

	var progress chan tui.Update
	if cfg.TUI {
		progress = make(chan tui.Update, 1)
		go func() {
			if err := tui.RunProgram(progress); err != nil {
				log.WithError(err).Warn("tui exited with error")
			}
		}()
		defer close(progress)
	}

	frames := 0
	for {
		select {
		case <-done:
			log.WithField("frames", frames).Info("stopped")
			return
		default:
		}

		frame, err := src.NextFrame()
		if err != nil {
			log.WithError(err).Info("input exhausted")
			return
		}
		m.FrameProcessed()

		if err := dec.Process(frame, sink); err != nil {
			log.WithError(err).Fatal("process frame")
		}
		m.FrameEmitted()
		frames++

		if progress != nil {
			select {
			case progress <- tui.Update{Label: "ldcomb", Processed: frames, Emitted: frames}:
			default:
			}
		}

		if cfg.OneFrame {
			log.Info("one-frame mode: exiting after first frame")
			return
		}
	}
}

func openSource(cfg *comb.CLIConfig) (capture.Source, error) {
	switch cfg.Source {
	case "", "file":
		return openFileSource(cfg.Input)
	case "rtlsdr":
		return capture.OpenRTLSDR(capture.RTLSDRConfig{
			FrequencyHz:  int(cfg.FrequencyHz),
			SampleRateHz: int(cfg.SampleRateHz),
			GainTenthDB:  cfg.Gain,
		})
	case "hackrf":
		return capture.OpenHackRF(capture.HackRFConfig{
			FrequencyHz:  cfg.FrequencyHz,
			SampleRateHz: cfg.SampleRateHz,
			LNAGain:      cfg.LNAGain,
			VGAGain:      cfg.VGAGain,
		})
	default:
		return nil, fmt.Errorf("unknown source %q (want file, rtlsdr or hackrf)", cfg.Source)
	}
}

func openFileSource(path string) (capture.Source, error) {
	if path == "" {
		return capture.NewFileSource(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return capture.NewFileSource(f), nil
}

func openSink(path string, perFrame bool) (comb.Sink, func(), error) {
	if perFrame {
		base := path
		if base == "" {
			base = "FRAME"
		}
		sink := comb.PerFrameSink{Open: func(frameCode int) (io.WriteCloser, error) {
			return os.Create(fmt.Sprintf("%s%d.rgb", base, frameCode))
		}}
		return sink, func() {}, nil
	}
	if path == "" {
		return comb.FileSink{W: os.Stdout}, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return comb.FileSink{W: f}, func() { f.Close() }, nil
}

func serveMetrics(log *logrus.Entry, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Debug("metrics server stopped")
	}
}
