// Command ldefm runs the C1 CIRC stage and section assembler over a
// stream of demodulated F3 frames, producing PCM audio and a YAML
// metadata sidecar the way the original tool's F2-frames-to-audio stage
// paired with its own Q-channel decode.
package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"ldproc/efm"
	"ldproc/internal/tui"
	"ldproc/metrics"
	"ldproc/section"
)

func main() {
	cfg, err := efm.ParseFlags(os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("ldefm: invalid flags")
	}

	log := logrus.WithFields(logrus.Fields{"component": "ldefm"})

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go serveMetrics(log, cfg.MetricsAddr)
	}

	src, closeSrc, err := openInput(cfg.Input)
	if err != nil {
		log.WithError(err).Fatal("open input")
	}
	defer closeSrc()

	audioOut, closeAudio, err := openAudio(cfg.Audio)
	if err != nil {
		log.WithError(err).Fatal("open audio output")
	}
	defer closeAudio()

	c1, err := efm.NewC1Decoder(log.WithField("stage", "c1"))
	if err != nil {
		log.WithError(err).Fatal("build C1 decoder")
	}
	asm := section.NewAssembler(log.WithField("stage", "section"))
	sink := section.FileAudioSink{W: audioOut}

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

	if err := run(src, c1, asm, sink, m, progress); err != nil && !errors.Is(err, io.EOF) {
		log.WithError(err).Fatal("processing failed")
	}

	stats := asm.Stats()
	log.WithFields(logrus.Fields{
		"sectionsProcessed": stats.SectionsProcessed,
		"validSamples":      stats.ValidAudioSamples,
		"invalidSamples":    stats.InvalidAudioSamples,
		"encoderRunning":    stats.EncoderRunning,
		"encoderStopped":    stats.EncoderStopped,
	}).Info("done")

	if cfg.Metadata != "" {
		if err := writeMetadata(cfg.Metadata, asm.MetadataLog()); err != nil {
			log.WithError(err).Fatal("write metadata sidecar")
		}
	}
}

// run drains src frame by frame, feeding each through the C1 corrector
// and, once every 98 frames yields a Q subcode block, through the
// section assembler.
func run(src *efm.FileF3Source, c1 *efm.C1Decoder, asm *section.Assembler, sink section.AudioSink, m *metrics.Metrics, progress chan<- tui.Update) error {
	var pending []efm.F2Frame
	framesSeen := 0
	for {
		f3, rawQ, err := src.NextF3()
		if err != nil {
			return err
		}
		framesSeen++

		if f2, ok := c1.Push(f3); ok {
			pending = append(pending, f2)
		}

		stats := c1.Stats()
		m.RecordC1(stats.Passed, stats.Corrected, stats.Failed, stats.Flushed)

		if progress != nil {
			select {
			case progress <- tui.Update{Label: "ldefm", Processed: framesSeen, Emitted: asm.Stats().SectionsProcessed, Errors: stats.Failed}:
			default:
			}
		}

		if rawQ == nil {
			continue
		}

		var raw [12]byte
		copy(raw[:], rawQ)
		sec := section.Section{QMeta: section.DecodeQChannel(raw)}

		if err := asm.Push(pending, []section.Section{sec}, sink); err != nil {
			return err
		}
		pending = pending[:0]
	}
}

func openInput(path string) (*efm.FileF3Source, func(), error) {
	if path == "" {
		return efm.NewFileF3Source(os.Stdin), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return efm.NewFileF3Source(f), func() { f.Close() }, nil
}

func openAudio(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func writeMetadata(path string, entries []section.Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return section.WriteSidecar(f, section.BuildSidecar(entries))
}

func serveMetrics(log *logrus.Entry, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Debug("metrics server stopped")
	}
}
