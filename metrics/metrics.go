// Package metrics exposes running decoder statistics as Prometheus
// collectors, so a long-running capture can be watched the way the
// rest of the pack's services expose their own counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the comb/C1/section pipeline updates.
type Metrics struct {
	framesProcessed prometheus.Counter
	framesEmitted   prometheus.Counter

	c1Passed    prometheus.Counter
	c1Corrected prometheus.Counter
	c1Failed    prometheus.Counter
	c1Flushed   prometheus.Counter

	sectionsProcessed *prometheus.CounterVec // by qmode
	audioSamples      *prometheus.CounterVec // by validity
	encoderState      *prometheus.CounterVec // by running/stopped
}

// New registers and returns the decoder's Prometheus collectors.
func New() *Metrics {
	return &Metrics{
		framesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ldproc_comb_frames_processed_total",
			Help: "Total raw frames handed to the comb decoder.",
		}),
		framesEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ldproc_comb_frames_emitted_total",
			Help: "Total RGB frames written to the output sink.",
		}),
		c1Passed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ldproc_c1_passed_total",
			Help: "C1 codewords that needed no correction.",
		}),
		c1Corrected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ldproc_c1_corrected_total",
			Help: "C1 codewords corrected via erasure decoding.",
		}),
		c1Failed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ldproc_c1_failed_total",
			Help: "C1 codewords that failed correction.",
		}),
		c1Flushed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ldproc_c1_flushed_total",
			Help: "Times the C1 interleave buffer was flushed.",
		}),
		sectionsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ldproc_sections_processed_total",
			Help: "CD sections processed by Q mode.",
		}, []string{"qmode"}),
		audioSamples: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ldproc_audio_samples_total",
			Help: "Stereo audio samples emitted by validity.",
		}, []string{"valid"}),
		encoderState: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ldproc_encoder_state_sections_total",
			Help: "Sections observed by encoder run state.",
		}, []string{"state"}),
	}
}

func (m *Metrics) FrameProcessed() { m.framesProcessed.Inc() }
func (m *Metrics) FrameEmitted()   { m.framesEmitted.Inc() }

// RecordC1 updates the C1 counters from one codeword's outcome.
func (m *Metrics) RecordC1(passed, corrected, failed, flushed int) {
	m.c1Passed.Add(float64(passed))
	m.c1Corrected.Add(float64(corrected))
	m.c1Failed.Add(float64(failed))
	m.c1Flushed.Add(float64(flushed))
}

// RecordSection updates the section-level counters for one processed
// section: its Q mode, how many valid/invalid audio samples it
// produced, and whether the encoder was running.
func (m *Metrics) RecordSection(qmode string, validSamples, invalidSamples int, encoderRunning bool) {
	m.sectionsProcessed.WithLabelValues(qmode).Inc()
	m.audioSamples.WithLabelValues("valid").Add(float64(validSamples))
	m.audioSamples.WithLabelValues("invalid").Add(float64(invalidSamples))
	state := "stopped"
	if encoderRunning {
		state = "running"
	}
	m.encoderState.WithLabelValues(state).Inc()
}

// Handler returns the /metrics HTTP handler for a promhttp scrape
// endpoint, the same exposition path the rest of the pack's services use.
func Handler() http.Handler {
	return promhttp.Handler()
}
