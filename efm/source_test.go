package efm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFrame(fill byte, errIdx int) []byte {
	var data [32]byte
	for i := range data {
		data[i] = fill
	}
	var flags [32]byte
	if errIdx >= 0 {
		flags[errIdx] = 1
	}
	return append(data[:], flags[:]...)
}

func TestFileF3SourceReturnsNoSubcodeMidSection(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildFrame(0x11, -1))

	src := NewFileF3Source(&buf)
	f3, rawQ, err := src.NextF3()
	require.NoError(t, err)
	assert.Nil(t, rawQ)
	assert.Equal(t, byte(0x11), f3.Data[0])
}

func TestFileF3SourceEmitsSubcodeEverySection(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < framesPerSection-1; i++ {
		buf.Write(buildFrame(byte(i), -1))
	}
	buf.Write(buildFrame(0xFF, 5))
	buf.Write(bytes.Repeat([]byte{0xAB}, 12))

	src := NewFileF3Source(&buf)
	var lastRawQ []byte
	for i := 0; i < framesPerSection; i++ {
		f3, rawQ, err := src.NextF3()
		require.NoError(t, err)
		if i == framesPerSection-1 {
			lastRawQ = rawQ
			assert.True(t, f3.Errors[5])
		} else {
			assert.Nil(t, rawQ)
		}
	}
	require.Len(t, lastRawQ, 12)
	assert.Equal(t, byte(0xAB), lastRawQ[0])
}

func TestFileF3SourceErrorsOnShortRead(t *testing.T) {
	src := NewFileF3Source(bytes.NewReader([]byte{1, 2, 3}))
	_, _, err := src.NextF3()
	assert.Error(t, err)
}
