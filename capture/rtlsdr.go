package capture

import (
	"fmt"

	rtl "github.com/jpoirier/gortlsdr"

	"ldproc/comb"
)

// RTLSDRConfig mirrors the tuning parameters the transmit-side tool
// exposes for its SDR, generalized to the receive path: center
// frequency, sample rate and manual tuner gain.
type RTLSDRConfig struct {
	FrequencyHz  int
	SampleRateHz int
	GainTenthDB  int
}

// RTLSDRSource captures raw IQ from an RTL-SDR dongle, AM-envelope
// demodulates it, and accumulates the free-running envelope stream
// into fixed RawWidth x RawHeight frames the way a coasting
// line/frame flywheel would, absent full horizontal/vertical sync
// recovery at RF.
type RTLSDRSource struct {
	dev *rtl.Context

	pending []float64
}

// OpenRTLSDR opens device 0 and configures it per cfg.
func OpenRTLSDR(cfg RTLSDRConfig) (*RTLSDRSource, error) {
	if rtl.GetDeviceCount() == 0 {
		return nil, fmt.Errorf("capture: no RTL-SDR devices found")
	}

	dev, err := rtl.Open(0)
	if err != nil {
		return nil, fmt.Errorf("capture: open RTL-SDR: %w", err)
	}
	if err := dev.SetCenterFreq(cfg.FrequencyHz); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: SetCenterFreq: %w", err)
	}
	if err := dev.SetSampleRate(cfg.SampleRateHz); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: SetSampleRate: %w", err)
	}
	if err := dev.SetTunerGainMode(true); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: SetTunerGainMode: %w", err)
	}
	if err := dev.SetTunerGain(cfg.GainTenthDB); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: SetTunerGain: %w", err)
	}
	if err := dev.ResetBuffer(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: ResetBuffer: %w", err)
	}

	return &RTLSDRSource{dev: dev}, nil
}

const frameSamples = comb.RawWidth * comb.RawHeight

func (s *RTLSDRSource) NextFrame() (comb.RawFrame, error) {
	for len(s.pending) < frameSamples {
		buf := make([]byte, 1<<18)
		n, err := s.dev.ReadSync(buf, len(buf))
		if err != nil {
			return nil, fmt.Errorf("capture: ReadSync: %w", err)
		}
		s.pending = append(s.pending, amDemodulate(buf[:n])...)
	}

	frame := comb.NewRawFrame()
	scaleEnvelopeInto(frame, s.pending[:frameSamples])
	s.pending = s.pending[frameSamples:]
	return frame, nil
}

func (s *RTLSDRSource) Close() error {
	return s.dev.Close()
}

// scaleEnvelopeInto quantizes an AM envelope (0..~180 magnitude units
// from 8-bit IQ) into the comb decoder's 16-bit sample scale, clamping
// rather than wrapping on out-of-range input.
func scaleEnvelopeInto(dst comb.RawFrame, envelope []float64) {
	const maxMag = 181.02 // sqrt(128^2 + 128^2)
	for i, v := range envelope {
		scaled := v / maxMag * 65535
		if scaled < 0 {
			scaled = 0
		}
		if scaled > 65535 {
			scaled = 65535
		}
		dst[i] = uint16(scaled)
	}
}
