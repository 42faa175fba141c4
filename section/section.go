// Package section assembles CD/CIRC sections out of F2 frames and
// derives the per-section Q-channel metadata (track/point/timecodes,
// encoder run state) that the audio sink needs to decide whether a
// section's 588 samples are real audio or encoder-paused silence.
package section

import "fmt"

// QMode identifies which of the two Q-channel layouts a section's
// subcode carries: CD audio timecodes, or the LaserDisc-specific
// variant. Any other value is treated as non-audio/invalid.
type QMode int

const (
	QModeCDAudio QMode = 1
	QModeLDAudio QMode = 4
)

// Timecode is a CD-style minutes:seconds:frames position, as BCD-coded
// in the Q channel.
type Timecode struct {
	Minutes, Seconds, Frames int
}

// QControl carries the four control bits every Q-channel mode shares.
type QControl struct {
	IsAudio         bool
	IsStereo        bool
	IsNoPreemphasis bool
	IsCopyProtected bool
}

// QData carries the fields common to both audio Q-modes: track/point
// numbering, the lead-in/lead-out flags, the "x" subdivision counter
// (0 during an encoder pause), and the two running timecodes.
type QData struct {
	IsLeadIn    bool
	IsLeadOut   bool
	TrackNumber int
	Point       int
	X           int
	TrackTime   Timecode
	DiscTime    Timecode
}

// QMetadata is the decoded Q-channel subcode for one section.
type QMetadata struct {
	Control QControl
	Mode    QMode
	Data    QData
}

// Section is 98 F2 frames' worth of subcode: one Q-channel block plus
// the frame count it spans (588 stereo samples, 2352 bytes of audio).
type Section struct {
	QMeta QMetadata
}

// QMode returns the section's Q-channel mode, or 0 if Data carries a
// mode this decoder does not recognize as audio.
func (s Section) QMode() QMode { return s.QMeta.Mode }

// FramesPerSection is the fixed CD sector geometry: 98 F2 frames make
// one section, each F2 frame carrying 24 bytes (6 stereo sample pairs)
// of audio payload, for 588 samples (2352 bytes) per section.
const (
	FramesPerSection  = 98
	SamplesPerSection = 588
	BytesPerSection   = 2352
)

func (t Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Minutes, t.Seconds, t.Frames)
}
