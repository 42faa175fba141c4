package efm

import (
	"testing"

	"github.com/klauspost/reedsolomon"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeC1 builds a valid interleaved C1 codeword for test fixtures
// using the same RS(32,28) instance the decoder uses, so encode/decode
// round-trip against each other rather than against the real CIRC
// generator polynomial.
func encodeC1(t *testing.T, data [28]byte) [32]byte {
	t.Helper()
	enc, err := reedsolomon.New(28, 4)
	require.NoError(t, err)

	shards := make([][]byte, 32)
	for i := 0; i < 28; i++ {
		shards[i] = []byte{data[i]}
	}
	for i := 28; i < 32; i++ {
		shards[i] = []byte{0}
	}
	require.NoError(t, enc.Encode(shards))

	var out [32]byte
	for i, s := range shards {
		out[i] = s[0]
	}
	return out
}

// deinterleaveInto splits a codeword back into two F3-shaped frames
// matching the C1 interleave: even bytes to current, odd bytes to
// previous, with Qm/Pm parity bytes inverted the way the encoder side
// would have inverted them before transmission.
func deinterleaveInto(codeword [32]byte, errAt map[int]bool) (cur, prev F3Frame) {
	inverted := codeword
	for _, i := range []int{12, 13, 14, 15, 28, 29, 30, 31} {
		inverted[i] ^= 0xFF
	}
	for i := 0; i < 32; i += 2 {
		cur.Data[i] = inverted[i]
		prev.Data[i+1] = inverted[i+1]
		cur.Errors[i] = errAt[i]
		prev.Errors[i+1] = errAt[i+1]
	}
	return cur, prev
}

func newDecoder(t *testing.T) *C1Decoder {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	d, err := NewC1Decoder(log.WithField("test", true))
	require.NoError(t, err)
	return d
}

func TestC1DecoderWarmsUpOverTwoFrames(t *testing.T) {
	d := newDecoder(t)

	var data [28]byte
	for i := range data {
		data[i] = byte(i)
	}
	codeword := encodeC1(t, data)
	cur, prev := deinterleaveInto(codeword, nil)

	_, ok := d.Push(prev)
	assert.False(t, ok)

	f2, ok := d.Push(cur)
	assert.True(t, ok)
	assert.True(t, f2.AllValid())
}

func TestC1DecoderCorrectsSingleErasure(t *testing.T) {
	d := newDecoder(t)

	var data [28]byte
	for i := range data {
		data[i] = byte(200 - i)
	}
	codeword := encodeC1(t, data)
	// corrupt one interleaved data byte and flag it as an erasure.
	codeword[3] ^= 0xAA

	cur, prev := deinterleaveInto(codeword, map[int]bool{3: true})

	d.Push(prev)
	f2, ok := d.Push(cur)
	require.True(t, ok)
	assert.True(t, f2.AllValid())
	assert.Equal(t, data, f2.Data)
	assert.Equal(t, 1, d.Stats().Corrected)
}

// encodeGF builds a valid classical RS(32,28) codeword (roots
// alpha^1..alpha^4) using this package's own GF(256) encoder, so the
// blind error-locator below has a codeword it can actually recognize
// as corrupted: a klauspost-encoded one, built under a different
// (Vandermonde) code, wouldn't validate against these syndromes even
// when uncorrupted.
func encodeGF(t *testing.T, data [28]byte) [32]byte {
	t.Helper()
	full := rsEncode(data[:], 4)
	var out [32]byte
	copy(out[:], full)
	return out
}

func TestC1DecoderCorrectsBlindSingleError(t *testing.T) {
	d := newDecoder(t)

	var data [28]byte
	for i := range data {
		data[i] = byte(50 + i)
	}
	codeword := encodeGF(t, data)
	// corrupt one interleaved byte with no erasure flagged at all.
	codeword[10] ^= 0x37

	cur, prev := deinterleaveInto(codeword, nil)

	d.Push(prev)
	f2, ok := d.Push(cur)
	require.True(t, ok)
	assert.True(t, f2.AllValid())
	assert.Equal(t, data, f2.Data)
	assert.Equal(t, 1, d.Stats().Corrected)
}

func TestC1DecoderDegradesPastFourErasures(t *testing.T) {
	d := newDecoder(t)

	var data [28]byte
	codeword := encodeC1(t, data)
	codeword[0] ^= 0x01
	codeword[2] ^= 0x01
	errs := map[int]bool{0: true, 2: true, 4: true, 6: true, 8: true}

	cur, prev := deinterleaveInto(codeword, errs)
	d.Push(prev)
	f2, ok := d.Push(cur)
	require.True(t, ok)
	assert.False(t, f2.AllValid())
	assert.Equal(t, 1, d.Stats().Failed)
}

func TestFlushResetsBufferLevel(t *testing.T) {
	d := newDecoder(t)
	d.Push(F3Frame{})
	d.Push(F3Frame{})
	d.Flush()
	_, ok := d.Push(F3Frame{})
	assert.False(t, ok, "flush should require a fresh warm-up frame")
}
