// Package ring implements the triple-frame history buffer the comb
// decoder rotates through on every call: the raw sample frame plus its
// low-passed luma companion, kept three deep for 3D (temporal) combing.
package ring

// Size is the depth of the frame history: newest, current, oldest.
const Size = 3

// Frames is the triple-frame ring. Index 0 is always the most recently
// supplied frame, 1 is the frame currently being emitted, and 2 is the
// oldest retained frame. Rotation is a logical reassignment of index
// order rather than a physical copy of the whole ring; only the
// incoming frame's samples are actually copied, into the buffer that
// rotation vacates.
type Frames struct {
	width, height int
	raw           [Size][]uint16
	lp            [Size][]float64
	order         [Size]int
}

// New allocates a ring sized for width x height frames, pre-sized to
// its worst-case footprint and reused for the lifetime of the decoder.
func New(width, height int) *Frames {
	f := &Frames{width: width, height: height}
	for i := 0; i < Size; i++ {
		f.raw[i] = make([]uint16, width*height)
		f.lp[i] = make([]float64, width*height)
		f.order[i] = i
	}
	return f
}

// Raw returns the raw sample frame at logical index i (0 = newest).
func (f *Frames) Raw(i int) []uint16 { return f.raw[f.order[i]] }

// LP returns the low-passed luma frame at logical index i.
func (f *Frames) LP(i int) []float64 { return f.lp[f.order[i]] }

// Width and Height report the frame dimensions the ring was built for.
func (f *Frames) Width() int  { return f.width }
func (f *Frames) Height() int { return f.height }

// Rotate ages every frame by one slot (0->1, 1->2, discarding the old
// 2) and copies newFrame into the freed slot 0, returning that slot's
// backing storage for in-place low-pass computation.
func (f *Frames) Rotate(newFrame []uint16) []uint16 {
	freed := f.order[Size-1]
	for i := Size - 1; i > 0; i-- {
		f.order[i] = f.order[i-1]
	}
	f.order[0] = freed

	dst := f.raw[freed]
	copy(dst, newFrame)
	return dst
}
