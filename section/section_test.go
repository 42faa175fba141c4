package section

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldproc/efm"
)

func newAssembler(t *testing.T) *Assembler {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewAssembler(log.WithField("test", true))
}

func fullSectionFrames(valid bool) []efm.F2Frame {
	frames := make([]efm.F2Frame, FramesPerSection)
	for i := range frames {
		if !valid {
			frames[i].Errors[0] = true
		}
	}
	return frames
}

func TestAssemblerWritesZeroedAudioWhenEncoderStopped(t *testing.T) {
	a := newAssembler(t)
	var buf bytes.Buffer
	sink := FileAudioSink{W: &buf}

	sec := Section{QMeta: QMetadata{
		Mode: QModeCDAudio,
		Data: QData{X: 0}, // encoder paused
	}}

	err := a.Push(fullSectionFrames(true), []Section{sec}, sink)
	require.NoError(t, err)

	assert.Equal(t, BytesPerSection, buf.Len())
	for _, b := range buf.Bytes() {
		assert.Equal(t, byte(0), b)
	}
	assert.Equal(t, 1, a.Stats().EncoderStopped)
}

func TestAssemblerWritesAudioWhenEncoderRunning(t *testing.T) {
	a := newAssembler(t)
	var buf bytes.Buffer
	sink := FileAudioSink{W: &buf}

	sec := Section{QMeta: QMetadata{
		Mode: QModeLDAudio,
		Data: QData{X: 1, TrackNumber: 3},
	}}

	err := a.Push(fullSectionFrames(true), []Section{sec}, sink)
	require.NoError(t, err)

	assert.Equal(t, BytesPerSection, buf.Len())
	assert.Equal(t, 1, a.Stats().EncoderRunning)
	assert.Equal(t, FramesPerSection*6, a.Stats().ValidAudioSamples)
}

func TestAssemblerInvalidQModeDefaultsEncoderRunningTrue(t *testing.T) {
	a := newAssembler(t)
	var buf bytes.Buffer
	sink := FileAudioSink{W: &buf}

	sec := Section{QMeta: QMetadata{Mode: QMode(9)}}
	err := a.Push(fullSectionFrames(true), []Section{sec}, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, a.Stats().QModeInvalidCount)
	assert.Equal(t, 1, a.Stats().EncoderRunning)
	meta := a.MetadataLog()[0]
	assert.Equal(t, -1, meta.TrackNumber)
}

func TestAssemblerCountsInvalidF2Frames(t *testing.T) {
	a := newAssembler(t)
	var buf bytes.Buffer
	sink := FileAudioSink{W: &buf}

	sec := Section{QMeta: QMetadata{Mode: QModeCDAudio, Data: QData{X: 1}}}
	err := a.Push(fullSectionFrames(false), []Section{sec}, sink)
	require.NoError(t, err)

	assert.Equal(t, FramesPerSection*6, a.Stats().InvalidAudioSamples)
}

func TestBuildSidecarAndWriteSidecarRoundTrip(t *testing.T) {
	meta := []Metadata{
		{Mode: QModeCDAudio, TrackNumber: 1, EncoderRunning: true},
		{Mode: QMode(9), TrackNumber: -1},
	}
	sc := BuildSidecar(meta)
	require.Len(t, sc.Sections, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteSidecar(&buf, sc))
	assert.True(t, strings.Contains(buf.String(), "sections:"))
}
