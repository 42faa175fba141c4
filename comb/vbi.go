package comb

// PhilipsCode is a decoded 24-bit VBI frame/chapter code together with
// the line it was read from.
type PhilipsCode struct {
	Line  int
	Value uint32
}

// FrameNumber extracts the BCD-packed frame counter from a Philips
// code whose top nibbles read 0xF, subtracting the 80000 offset LaserDisc
// players use to distinguish CAV frame numbers from CLV timecodes.
func (c PhilipsCode) FrameNumber() (int, bool) {
	fca := c.Value & 0xf00000
	if fca != 0xf00000 || c.Value >= 0xff0000 {
		return 0, false
	}
	n := int(c.Value & 0x0f)
	n += int((c.Value&0x000f0)>>4) * 10
	n += int((c.Value&0x00f00)>>8) * 100
	n += int((c.Value&0x0f000)>>12) * 1000
	n += int((c.Value&0xf0000)>>16) * 10000
	if n > 80000 {
		n -= 80000
	}
	return n, true
}

// readPhilipsCode reads the 24-bit biphase-encoded VBI word from a raw
// scanline: it locates the code's leading edge in the first ~140
// samples by looking for a sample near white level, then integrates
// IRE over each of 24 fixed-width bit cells, calling a cell "1" when
// its average IRE exceeds 50.
func readPhilipsCode(line []uint16) uint32 {
	var dotsPerUsec = dotClockHz / 1_000_000.0
	var bitLen = 2.0 * dotsPerUsec

	firstBit := -1
	for i := 70; firstBit == -1 && i < 140; i++ {
		if U16ToIRE(line[i]) > 90 {
			firstBit = i - int(dotsPerUsec)
		}
	}
	if firstBit < 0 {
		return 0
	}

	var out uint32
	for i := 0; i < 24; i++ {
		start := int(float64(firstBit) + bitLen*float64(i) + dotsPerUsec)
		end := int(float64(firstBit) + bitLen*float64(i+1))
		var val float64
		for h := start; h < end && h < len(line); h++ {
			val += U16ToIRE(line[h])
		}
		if val/dotsPerUsec > 50 {
			out |= 1 << uint(23-i)
		}
	}
	return out
}

// whiteFlagLine reports whether a scanline is a "white flag": at least
// 500 of its first 700 samples sit above the near-saturation threshold
// used to mark odd/even field alignment for 3:2 pulldown detection.
func whiteFlagLine(line []uint16) bool {
	const threshold = 45000
	count := 0
	for i := 0; i < 700 && i < len(line); i++ {
		if line[i] > threshold {
			count++
		}
	}
	return count > 500
}
