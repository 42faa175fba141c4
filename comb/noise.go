package comb

// doCNR runs non-linear chroma noise reduction: high-pass the I/Q
// channels, then subtract the high-passed component wherever its
// magnitude is under the nrC threshold, scaled down by a cubic
// soft-threshold so small noise is suppressed but large chroma edges
// pass through untouched. nrC < 0 disables it.
func (d *Decoder) doCNR() {
	if d.nrC < 0 {
		return
	}

	for l := 24; l < RawHeight; l++ {
		var hp [844]YIQ
		d.noise.hpI.Reset()
		d.noise.hpQ.Reset()
		for h := 70; h < 752+70; h++ {
			p := d.cbuf[l][h]
			hp[h].I = d.noise.hpI.Feed(p.I)
			hp[h].Q = d.noise.hpQ.Feed(p.Q)
		}
		for h := 70; h < 744+70; h++ {
			a := hp[h+8]
			if absF(a.I) < d.nrC {
				m := a.I / d.nrC
				a.I *= 1 - absF(m*m*m)
				d.cbuf[l][h].I -= a.I
			}
			if absF(a.Q) < d.nrC {
				m := a.Q / d.nrC
				a.Q *= 1 - absF(m*m*m)
				d.cbuf[l][h].Q -= a.Q
			}
		}
	}
}

// doYNR is doCNR's luma counterpart, thresholded by nrY. When the
// output line count is the full 505 (interlaced/raw mode) it also
// processes the vertical-blanking lines; otherwise it starts at 24.
func (d *Decoder) doYNR() {
	if d.nrY < 0 {
		return
	}
	firstLine := 24
	if d.linesOut == RawHeight {
		firstLine = 0
	}

	for l := firstLine; l < RawHeight; l++ {
		var hp [844]YIQ
		d.noise.hpY.Reset()
		for h := 70; h < 752+70; h++ {
			hp[h].Y = d.noise.hpY.Feed(d.cbuf[l][h].Y)
		}
		for h := 70; h < 744+70; h++ {
			a := hp[h+8]
			if absF(a.Y) < d.nrY {
				m := a.Y / d.nrY
				a.Y *= 1 - absF(m*m*m)
				d.cbuf[l][h].Y -= a.Y
			}
		}
	}
}
