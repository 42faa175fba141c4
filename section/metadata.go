package section

import (
	"io"

	"gopkg.in/yaml.v3"
)

// SidecarEntry is one section's metadata as written to the YAML
// sidecar, replacing the original tool's per-run JSON dump with a
// streaming-friendly YAML document.
type SidecarEntry struct {
	SeqNo          int    `yaml:"seqNo"`
	QMode          QMode  `yaml:"qMode"`
	IsAudio        bool   `yaml:"isAudio"`
	TrackNumber    int    `yaml:"trackNumber"`
	Subdivision    int    `yaml:"subdivision"`
	TrackTime      string `yaml:"trackTime"`
	DiscTime       string `yaml:"discTime"`
	EncoderRunning bool   `yaml:"encoderRunning"`
	IsCorrected    bool   `yaml:"isCorrected"`
}

// Sidecar is the top-level YAML document: one entry per processed
// section, in order.
type Sidecar struct {
	Sections []SidecarEntry `yaml:"sections"`
}

// BuildSidecar converts an Assembler's accumulated metadata log into a
// Sidecar document.
func BuildSidecar(entries []Metadata) Sidecar {
	sc := Sidecar{Sections: make([]SidecarEntry, len(entries))}
	for i, m := range entries {
		sc.Sections[i] = SidecarEntry{
			SeqNo:          i,
			QMode:          m.Mode,
			IsAudio:        m.IsAudio,
			TrackNumber:    m.TrackNumber,
			Subdivision:    m.Subdivision,
			TrackTime:      m.TrackTime.String(),
			DiscTime:       m.DiscTime.String(),
			EncoderRunning: m.EncoderRunning,
			IsCorrected:    m.IsCorrected,
		}
	}
	return sc
}

// WriteSidecar encodes a Sidecar as YAML to w.
func WriteSidecar(w io.Writer, sc Sidecar) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(sc)
}
