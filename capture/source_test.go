package capture

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldproc/comb"
)

func TestFileSourceReadsExactFrame(t *testing.T) {
	var buf bytes.Buffer
	want := make([]uint16, comb.RawWidth*comb.RawHeight)
	for i := range want {
		want[i] = uint16(i % 65536)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], want[i])
		buf.Write(b[:])
	}

	src := NewFileSource(&buf)
	frame, err := src.NextFrame()
	require.NoError(t, err)
	require.Len(t, frame, len(want))
	for i := range want {
		assert.Equal(t, want[i], frame[i])
	}

	_, err = src.NextFrame()
	assert.Error(t, err, "should EOF after one frame")
}

func TestAMDemodulateMagnitude(t *testing.T) {
	iq := []byte{127 + 10, 127, 127, 127 + 10}
	out := amDemodulate(iq)
	require.Len(t, out, 2)
	assert.InDelta(t, 10.0, out[0], 0.01)
	assert.InDelta(t, 10.0, out[1], 0.01)
}

func TestScaleEnvelopeIntoClampsRange(t *testing.T) {
	frame := comb.NewRawFrame()[:4]
	scaleEnvelopeInto(frame, []float64{-5, 0, 90.5, 1000})
	assert.Equal(t, uint16(0), frame[0])
	assert.Equal(t, uint16(0), frame[1])
	assert.Equal(t, uint16(65535), frame[3])
}
