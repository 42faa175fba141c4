package section

import "io"

// FileAudioSink writes each section's PCM bytes straight through to an
// io.Writer, the streaming (single continuous file) output mode.
type FileAudioSink struct {
	W io.Writer
}

func (s FileAudioSink) WriteAudio(pcm []byte) error {
	_, err := s.W.Write(pcm)
	return err
}
