package comb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantFrame(level uint16) RawFrame {
	f := NewRawFrame()
	for i := range f {
		f[i] = level
	}
	return f
}

func TestIRERoundTrip(t *testing.T) {
	for _, ire := range []float64{-40, -20, 0, 7.5, 50, 100} {
		u := IREToU16(ire)
		got := U16ToIRE(u)
		assert.InDelta(t, ire, got, 0.01)
	}
	assert.Equal(t, uint16(0), IREToU16(-100))
	assert.Equal(t, float64(-100), U16ToIRE(0))
}

func TestProcessConstantGrayFrameProducesNoChroma(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dim = Dim2D
	d := New(cfg)

	var buf bytes.Buffer
	sink := FileSink{W: &buf}

	level := IREToU16(50)
	for i := 0; i < 3; i++ {
		require.NoError(t, d.Process(constantFrame(level), sink))
	}

	assert.Greater(t, buf.Len(), 0)
}

func TestProcess3DPrimesBeforeEmitting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dim = Dim3D
	d := New(cfg)

	var buf bytes.Buffer
	sink := FileSink{W: &buf}

	level := IREToU16(50)
	require.NoError(t, d.Process(constantFrame(level), sink))
	assert.Equal(t, 0, buf.Len(), "first 3D frame should only prime history")
	require.NoError(t, d.Process(constantFrame(level), sink))
	assert.Equal(t, 0, buf.Len(), "second 3D frame should only prime history")
	require.NoError(t, d.Process(constantFrame(level), sink))
	assert.Greater(t, buf.Len(), 0, "third 3D frame should emit")
}

func TestProcessRejectsWrongSizedFrame(t *testing.T) {
	d := New(DefaultConfig())
	err := d.Process(RawFrame{1, 2, 3}, FileSink{W: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestPhaseInvertSentinelDoesNotPanic(t *testing.T) {
	cfg := DefaultConfig()
	d := New(cfg)

	f := constantFrame(IREToU16(50))
	f[24*RawWidth] = PhaseInvertSentinel

	var buf bytes.Buffer
	require.NoError(t, d.Process(f, FileSink{W: &buf}))
}

func TestReadPhilipsCodeDecodesFrameNumber(t *testing.T) {
	line := make([]uint16, RawWidth)
	for i := range line {
		line[i] = IREToU16(0)
	}
	// Leading white edge marking bit-cell zero.
	line[80] = IREToU16(100)

	var dotsPerUsec = dotClockHz / 1_000_000.0
	var bitLen = 2.0 * dotsPerUsec
	firstBit := 80 - int(dotsPerUsec)

	value := uint32(0xf12345)
	for i := 0; i < 24; i++ {
		bit := (value >> uint(23-i)) & 1
		if bit == 0 {
			continue
		}
		start := int(float64(firstBit) + bitLen*float64(i) + dotsPerUsec)
		end := int(float64(firstBit) + bitLen*float64(i+1))
		for h := start; h < end && h < len(line); h++ {
			line[h] = IREToU16(100)
		}
	}

	code := readPhilipsCode(line)
	pc := PhilipsCode{Value: code}
	n, ok := pc.FrameNumber()
	require.True(t, ok)
	assert.Equal(t, 12345, n)
}

func TestWhiteFlagLineThreshold(t *testing.T) {
	line := make([]uint16, RawWidth)
	assert.False(t, whiteFlagLine(line))

	for i := 0; i < 600; i++ {
		line[i] = 50000
	}
	assert.True(t, whiteFlagLine(line))
}
