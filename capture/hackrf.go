package capture

import (
	"fmt"
	"sync"

	"github.com/samuel/go-hackrf/hackrf"

	"ldproc/comb"
)

// HackRFConfig mirrors the transmit-side tool's frequency/gain flags,
// generalized to HackRF's receive-side LNA/VGA gain stages.
type HackRFConfig struct {
	FrequencyHz  uint64
	SampleRateHz float64
	LNAGain      int
	VGAGain      int
}

// HackRFSource captures raw IQ from a HackRF One via its streaming RX
// callback, AM-demodulates it on the callback goroutine, and hands
// fixed-size frames to NextFrame the same way RTLSDRSource does.
type HackRFSource struct {
	dev *hackrf.Device

	mu      sync.Mutex
	cond    *sync.Cond
	pending []float64
	err     error
}

// OpenHackRF opens the first HackRF device and starts RX streaming.
func OpenHackRF(cfg HackRFConfig) (*HackRFSource, error) {
	if err := hackrf.Init(); err != nil {
		return nil, fmt.Errorf("capture: hackrf.Init: %w", err)
	}
	dev, err := hackrf.Open()
	if err != nil {
		return nil, fmt.Errorf("capture: hackrf.Open: %w", err)
	}
	if err := dev.SetFreq(cfg.FrequencyHz); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: SetFreq: %w", err)
	}
	if err := dev.SetSampleRate(cfg.SampleRateHz); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: SetSampleRate: %w", err)
	}
	if err := dev.SetLNAGain(cfg.LNAGain); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: SetLNAGain: %w", err)
	}
	if err := dev.SetVGAGain(cfg.VGAGain); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: SetVGAGain: %w", err)
	}

	s := &HackRFSource{dev: dev}
	s.cond = sync.NewCond(&s.mu)

	if err := dev.StartRX(s.onSamples); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: StartRX: %w", err)
	}
	return s, nil
}

// onSamples is HackRF's streaming callback: it runs on a library
// goroutine and must not block, so it only demodulates and appends.
func (s *HackRFSource) onSamples(iq []byte) int32 {
	demod := amDemodulate(iq)

	s.mu.Lock()
	s.pending = append(s.pending, demod...)
	s.cond.Broadcast()
	s.mu.Unlock()
	return 0
}

func (s *HackRFSource) NextFrame() (comb.RawFrame, error) {
	s.mu.Lock()
	for len(s.pending) < frameSamples && s.err == nil {
		s.cond.Wait()
	}
	if s.err != nil {
		s.mu.Unlock()
		return nil, s.err
	}
	envelope := s.pending[:frameSamples]
	s.pending = s.pending[frameSamples:]
	s.mu.Unlock()

	frame := comb.NewRawFrame()
	scaleEnvelopeInto(frame, envelope)
	return frame, nil
}

func (s *HackRFSource) Close() error {
	s.mu.Lock()
	s.err = fmt.Errorf("capture: source closed")
	s.cond.Broadcast()
	s.mu.Unlock()
	return s.dev.Close()
}
