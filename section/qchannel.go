package section

// DecodeQChannel parses one 12-byte raw Q subcode block (the deinterleaved
// Q channel of a CD/CIRC section: control+mode byte, 9 BCD data bytes, and
// a 2-byte CRC that this decoder does not itself verify) into QMetadata.
// The layout follows the standard Red Book Q-channel structure shared by
// Q-mode 1 (CD audio) and Q-mode 4 (LaserDisc audio): TNO 0x00 marks the
// lead-in area and 0xAA marks lead-out, both handled the same way
// regardless of mode since only the mode tag distinguishes the two.
func DecodeQChannel(raw [12]byte) QMetadata {
	control := raw[0] >> 4
	mode := QMode(raw[0] & 0x0F)

	qc := QControl{
		IsAudio:         control&0x4 == 0,
		IsCopyProtected: control&0x2 == 0,
		IsNoPreemphasis: control&0x1 == 0,
		IsStereo:        control&0x8 == 0,
	}

	isLeadOut := raw[1] == 0xAA
	tno := 0
	if !isLeadOut {
		tno = bcdToInt(raw[1])
	}
	pointOrX := bcdToInt(raw[2])

	d := QData{
		IsLeadIn:    tno == 0 && !isLeadOut,
		IsLeadOut:   isLeadOut,
		TrackNumber: tno,
		TrackTime: Timecode{
			Minutes: bcdToInt(raw[3]),
			Seconds: bcdToInt(raw[4]),
			Frames:  bcdToInt(raw[5]),
		},
		DiscTime: Timecode{
			Minutes: bcdToInt(raw[7]),
			Seconds: bcdToInt(raw[8]),
			Frames:  bcdToInt(raw[9]),
		},
	}
	if d.IsLeadIn {
		d.Point = pointOrX
	} else {
		d.X = pointOrX
	}

	return QMetadata{Control: qc, Mode: mode, Data: d}
}

// bcdToInt decodes one binary-coded-decimal byte (two 4-bit decimal
// digits) into its integer value.
func bcdToInt(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}
