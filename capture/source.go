// Package capture supplies raw digitized composite frames to the comb
// decoder, either replayed from a file of pre-digitized samples or
// captured live from an SDR and AM-demodulated into the same sample
// format.
package capture

import (
	"encoding/binary"
	"io"
	"math"

	"ldproc/comb"
)

// Source produces one fixed-geometry raw frame per call, in the comb
// decoder's native RawWidth x RawHeight uint16 sample layout.
type Source interface {
	NextFrame() (comb.RawFrame, error)
	Close() error
}

// FileSource reads little-endian uint16 samples straight from a
// stream, RawWidth*RawHeight samples per frame, the format a prior
// digitization pass (or `ldcomb`'s own test fixtures) would produce.
type FileSource struct {
	r   io.Reader
	buf []byte
}

// NewFileSource wraps r as a Source of pre-digitized frames.
func NewFileSource(r io.Reader) *FileSource {
	return &FileSource{
		r:   r,
		buf: make([]byte, comb.RawWidth*comb.RawHeight*2),
	}
}

func (s *FileSource) NextFrame() (comb.RawFrame, error) {
	if _, err := io.ReadFull(s.r, s.buf); err != nil {
		return nil, err
	}
	frame := comb.NewRawFrame()
	for i := range frame {
		frame[i] = binary.LittleEndian.Uint16(s.buf[i*2:])
	}
	return frame, nil
}

func (s *FileSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// amDemodulate converts one buffer of interleaved 8-bit I/Q samples
// into magnitude samples, the same sqrt(I^2+Q^2) AM envelope detector
// used to pull composite video off an RF carrier before sync recovery.
func amDemodulate(iq []byte) []float64 {
	out := make([]float64, len(iq)/2)
	for i := range out {
		di := float64(int(iq[2*i]) - 127)
		dq := float64(int(iq[2*i+1]) - 127)
		out[i] = magnitude(di, dq)
	}
	return out
}

func magnitude(i, q float64) float64 {
	return math.Sqrt(i*i + q*q)
}
