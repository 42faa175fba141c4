package efm

import (
	"github.com/klauspost/reedsolomon"
	"github.com/sirupsen/logrus"
)

// Statistics mirrors the counters the C1 stage reports: how many C1
// codewords needed no correction, how many were corrected, how many
// failed outright, and how many times the one-frame delay buffer was
// flushed (e.g. on a stream restart).
type Statistics struct {
	Passed    int
	Corrected int
	Failed    int
	Flushed   int
}

// C1Decoder holds the one-frame interleave delay and the RS(32,28)
// corrector state across a stream of F3Frames.
type C1Decoder struct {
	log *logrus.Entry

	current, previous F3Frame
	bufferLevel        int

	rs reedsolomon.Encoder

	stats Statistics
}

// NewC1Decoder builds a C1Decoder. RS(32,28) is instantiated once and
// reused for the life of the decoder, as klauspost/reedsolomon's setup
// cost is non-trivial and the codeword shape never changes.
func NewC1Decoder(log *logrus.Entry) (*C1Decoder, error) {
	rs, err := reedsolomon.New(28, 4)
	if err != nil {
		return nil, err
	}
	d := &C1Decoder{log: log, rs: rs}
	d.Flush()
	return d, nil
}

// Flush resets the interleave buffer and bumps the flush counter, the
// way a stream discontinuity forces C1Circ::flush in the source design.
func (d *C1Decoder) Flush() {
	d.current = F3Frame{}
	d.previous = F3Frame{}
	d.bufferLevel = 0
	d.stats.Flushed++
}

// Push feeds one F3Frame into the interleave delay. It returns the
// resulting F2Frame and true once the buffer has warmed up (from the
// second frame onward); before that it returns false.
func (d *C1Decoder) Push(f3 F3Frame) (F2Frame, bool) {
	d.previous = d.current
	d.current = f3

	d.bufferLevel++
	if d.bufferLevel < 2 {
		return F2Frame{}, false
	}
	d.bufferLevel = 2

	interleaved, erased := d.interleave()
	return d.errorCorrect(interleaved, erased), true
}

// interleave builds the 32-symbol C1 codeword from the even-indexed
// symbols of the current frame and the odd-indexed symbols of the
// frame before it, then inverts the Qm (bytes 12-15) and Pm (bytes
// 28-31) parity symbols, undoing the encoder's deliberate inversion.
func (d *C1Decoder) interleave() (data [32]byte, erased [32]bool) {
	for i := 0; i < 32; i += 2 {
		data[i] = d.current.Data[i]
		data[i+1] = d.previous.Data[i+1]

		erased[i] = d.current.Errors[i]
		erased[i+1] = d.previous.Errors[i+1]
	}

	for _, i := range []int{12, 13, 14, 15, 28, 29, 30, 31} {
		data[i] ^= 0xFF
	}
	return data, erased
}

// errorCorrect runs RS(32,28) erasure decoding over the interleaved
// codeword. Symbols flagged erased by the upstream demodulator are
// passed to the corrector as erasures; more than 4 erasures exceeds
// the code's correction capacity, so the decoder degrades to a
// parity-verify pass instead of guessing at error locations.
func (d *C1Decoder) errorCorrect(data [32]byte, erased [32]bool) F2Frame {
	shards := make([][]byte, 32)
	for i := range shards {
		b := data[i]
		shards[i] = []byte{b}
	}

	var erasures []int
	for i, e := range erased {
		if e {
			erasures = append(erasures, i)
		}
	}

	var out F2Frame
	if len(erasures) > 4 {
		d.log.Debug("c1: more than 4 erasures, degrading to verify-only pass")
		ok, _ := d.rs.Verify(shards)
		copy(out.Data[:], data[:28])
		for i := range out.Errors {
			out.Errors[i] = !ok
		}
		if ok {
			d.stats.Passed++
		} else {
			d.stats.Failed++
		}
		return out
	}

	for _, idx := range erasures {
		shards[idx] = nil
	}

	if len(erasures) == 0 {
		ok, err := d.rs.Verify(shards)
		if err == nil && ok {
			copy(out.Data[:], data[:28])
			d.stats.Passed++
			return out
		}
		// Parity fails but nothing is flagged erased: klauspost/reedsolomon
		// has no error-locator, so with every shard present Reconstruct
		// would be a no-op. Locate the symbol(s) the classical way instead
		// (syndromes, Berlekamp-Massey, Chien search, Forney) before
		// giving up on the frame.
		if fixed, n, locateOK := rsCorrectErrors(data); locateOK {
			copy(out.Data[:], fixed[:28])
			if n == 0 {
				d.stats.Passed++
			} else {
				d.stats.Corrected++
			}
			return out
		}

		d.log.Debug("c1: parity mismatch, error locator could not resolve a position")
		copy(out.Data[:], data[:28])
		for i := range out.Errors {
			out.Errors[i] = true
		}
		d.stats.Failed++
		return out
	}

	err := d.rs.Reconstruct(shards)
	if err != nil {
		d.log.WithError(err).Debug("c1: reconstruct failed")
		copy(out.Data[:], data[:28])
		for i := range out.Errors {
			out.Errors[i] = true
		}
		d.stats.Failed++
		return out
	}

	for i := 0; i < 28; i++ {
		out.Data[i] = shards[i][0]
	}
	if len(erasures) > 0 {
		d.stats.Corrected++
	} else {
		d.stats.Passed++
	}
	return out
}

// Stats returns the running correction statistics.
func (d *C1Decoder) Stats() Statistics { return d.stats }
