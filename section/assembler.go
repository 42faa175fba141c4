package section

import (
	"ldproc/efm"

	"github.com/sirupsen/logrus"
)

// Statistics mirrors the section assembler's running counters.
type Statistics struct {
	ValidAudioSamples   int
	InvalidAudioSamples int
	SectionsProcessed   int
	EncoderRunning      int
	EncoderStopped      int
	QModeCDCount        int
	QModeLDCount        int
	QModeInvalidCount   int

	TrackNumber int
	Subdivision int
	TrackTime   Timecode
	DiscTime    Timecode
}

// Metadata is the per-section decision the assembler derives from a
// section's Q-channel data: whether the encoder was running (so the
// caller should emit real audio bytes instead of silence) and the
// track/subdivision/timecode position to record in the sidecar.
type Metadata struct {
	IsAudio         bool
	Mode            QMode
	TrackNumber     int
	Subdivision     int
	TrackTime       Timecode
	DiscTime        Timecode
	EncoderRunning  bool
	IsCorrected     bool
}

// Assembler buffers incoming F2 frames and sections until it has a
// full section's worth (98 F2 frames, one Section), then emits PCM
// audio bytes and a Metadata record for that section.
type Assembler struct {
	log *logrus.Entry

	f2Frames []efm.F2Frame
	sections []Section

	metaLog []Metadata
	stats   Statistics
}

// NewAssembler builds an empty Assembler.
func NewAssembler(log *logrus.Entry) *Assembler {
	return &Assembler{log: log}
}

// AudioSink receives one section's worth of PCM audio bytes.
type AudioSink interface {
	WriteAudio(pcm []byte) error
}

// Push appends newly decoded F2 frames and sections to the buffer and
// drains as many complete sections as are available, writing their
// audio to sink and recording their metadata for the sidecar.
func (a *Assembler) Push(f2s []efm.F2Frame, sections []Section, sink AudioSink) error {
	a.f2Frames = append(a.f2Frames, f2s...)
	a.sections = append(a.sections, sections...)

	if len(a.f2Frames) < FramesPerSection || len(a.sections) < 1 {
		return nil
	}
	return a.processAudio(sink)
}

func (a *Assembler) processAudio(sink AudioSink) error {
	sectionsToProcess := len(a.f2Frames) / FramesPerSection
	if len(a.sections) < sectionsToProcess {
		sectionsToProcess = len(a.sections)
	}

	frameIdx := 0
	for s := 0; s < sectionsToProcess; s++ {
		meta := a.sectionToMeta(a.sections[s])
		a.metaLog = append(a.metaLog, meta)

		pcm := make([]byte, 0, FramesPerSection*24)
		for i := frameIdx; i < frameIdx+FramesPerSection; i++ {
			f2 := a.f2Frames[i]
			if meta.EncoderRunning {
				if !f2.AllValid() {
					a.stats.InvalidAudioSamples += 6
				} else {
					a.stats.ValidAudioSamples += 6
				}
				pcm = append(pcm, f2.Data[:24]...)
			} else {
				pcm = append(pcm, make([]byte, 24)...)
			}
		}
		if err := sink.WriteAudio(pcm); err != nil {
			return err
		}

		frameIdx += FramesPerSection
		a.stats.SectionsProcessed++
	}

	a.f2Frames = append([]efm.F2Frame(nil), a.f2Frames[frameIdx:]...)
	a.sections = append([]Section(nil), a.sections[sectionsToProcess:]...)
	return nil
}

// sectionToMeta derives a Metadata decision from one section's
// Q-channel data. An unrecognized Q mode is treated as an audio
// section with the encoder running, matching the upstream tool's own
// (likely unintentional) default for that case rather than silencing
// it, since silently dropping unknown-mode sections would lose more
// audio than the mislabeling costs.
func (a *Assembler) sectionToMeta(s Section) Metadata {
	q := s.QMeta
	meta := Metadata{IsAudio: q.Control.IsAudio, Mode: q.Mode}

	switch q.Mode {
	case QModeCDAudio:
		a.stats.QModeCDCount++
		meta = a.decodeAudioMode(q, meta)
	case QModeLDAudio:
		a.stats.QModeLDCount++
		meta = a.decodeAudioMode(q, meta)
	default:
		a.stats.QModeInvalidCount++
		meta.TrackNumber = -1
		meta.Subdivision = -1
		meta.EncoderRunning = true
	}

	a.stats.DiscTime = meta.DiscTime
	a.stats.TrackTime = meta.TrackTime
	a.stats.Subdivision = meta.Subdivision
	a.stats.TrackNumber = meta.TrackNumber

	if meta.EncoderRunning {
		a.stats.EncoderRunning++
	} else {
		a.stats.EncoderStopped++
	}
	return meta
}

// decodeAudioMode implements the shared lead-in/lead-out/audio logic
// for both Q-mode 1 (CD audio) and Q-mode 4 (LaserDisc audio): the
// data layout is identical, only the mode tag differs.
func (a *Assembler) decodeAudioMode(q QMetadata, meta Metadata) Metadata {
	d := q.Data
	meta.TrackTime = d.TrackTime
	meta.DiscTime = d.DiscTime
	meta.TrackNumber = d.TrackNumber

	switch {
	case d.IsLeadIn:
		meta.Subdivision = d.Point
		meta.EncoderRunning = false
	case d.IsLeadOut:
		meta.Subdivision = 0
		meta.EncoderRunning = d.X != 0
	default:
		meta.Subdivision = d.X
		meta.EncoderRunning = d.X != 0
	}
	return meta
}

// Stats returns the running assembly statistics.
func (a *Assembler) Stats() Statistics { return a.stats }

// MetadataLog returns every per-section Metadata decision recorded so
// far, in section order, for sidecar serialization.
func (a *Assembler) MetadataLog() []Metadata { return a.metaLog }
