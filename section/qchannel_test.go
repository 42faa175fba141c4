package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intToBCD(v int) byte {
	return byte((v/10)<<4 | (v % 10))
}

func TestDecodeQChannelAudioSection(t *testing.T) {
	var raw [12]byte
	raw[0] = 0x01 // control=0 (audio, stereo, no preemphasis), mode=1
	raw[1] = intToBCD(3)  // TNO
	raw[2] = intToBCD(1)  // X (index)
	raw[3] = intToBCD(2)  // track min
	raw[4] = intToBCD(15) // track sec
	raw[5] = intToBCD(30) // track frame
	raw[7] = intToBCD(10) // disc min
	raw[8] = intToBCD(0)  // disc sec
	raw[9] = intToBCD(5)  // disc frame

	q := DecodeQChannel(raw)
	assert.Equal(t, QModeCDAudio, q.Mode)
	assert.True(t, q.Control.IsAudio)
	assert.False(t, q.Data.IsLeadIn)
	assert.False(t, q.Data.IsLeadOut)
	assert.Equal(t, 3, q.Data.TrackNumber)
	assert.Equal(t, 1, q.Data.X)
	assert.Equal(t, Timecode{Minutes: 2, Seconds: 15, Frames: 30}, q.Data.TrackTime)
	assert.Equal(t, Timecode{Minutes: 10, Seconds: 0, Frames: 5}, q.Data.DiscTime)
}

func TestDecodeQChannelLeadIn(t *testing.T) {
	var raw [12]byte
	raw[0] = 0x04 // mode 4
	raw[1] = 0x00 // TNO 0 marks lead-in
	raw[2] = intToBCD(2) // point

	q := DecodeQChannel(raw)
	assert.Equal(t, QModeLDAudio, q.Mode)
	assert.True(t, q.Data.IsLeadIn)
	assert.Equal(t, 2, q.Data.Point)
}

func TestDecodeQChannelLeadOut(t *testing.T) {
	var raw [12]byte
	raw[0] = 0x01
	raw[1] = 0xAA // TNO 0xAA marks lead-out (bcd 10,10 -> not decimal but sentinel byte)

	q := DecodeQChannel(raw)
	assert.True(t, q.Data.IsLeadOut)
}
