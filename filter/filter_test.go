package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlackmanLowpassUnityGainAtDC(t *testing.T) {
	taps := BlackmanLowpass(9, 1_000_000, 8_000_000)
	f := NewFIR(taps)

	var out float64
	for i := 0; i < 50; i++ {
		out = f.Feed(1.0)
	}
	assert.InDelta(t, 1.0, out, 0.01)
}

func TestHighpassRejectsDC(t *testing.T) {
	lp := BlackmanLowpass(9, 1_000_000, 8_000_000)
	hp := NewFIR(Highpass(lp))

	var out float64
	for i := 0; i < 50; i++ {
		out = hp.Feed(1.0)
	}
	assert.InDelta(t, 0.0, out, 0.01)
}

func TestFIRResetClearsHistory(t *testing.T) {
	f := NewFIR([]float64{0.25, 0.5, 0.25})
	f.Feed(10)
	f.Feed(20)
	f.Reset()
	assert.Equal(t, 0.25*10, f.Feed(10))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 10))
	assert.Equal(t, 10.0, Clamp(15, 0, 10))
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
}
