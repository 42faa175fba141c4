package comb

// lpFrame low-passes one ring slot's raw samples into that slot's LP
// buffer, columns 32..843 of lines 24..504, shifted left by 16 samples
// to align with the comb's later addressing of the same slot.
func (d *Decoder) lpFrame(slot int) {
	raw := d.ring.Raw(slot)
	lp := d.ring.LP(slot)
	d.lumaPre.Reset()
	for l := 24; l < RawHeight; l++ {
		base := l * RawWidth
		for h := 32; h < RawWidth; h++ {
			lp[base+h-16] = d.lumaPre.Feed(float64(raw[base+h]))
		}
	}
}

// split runs the adaptive 1D/2D/3D comb: for every active pixel it
// scores a horizontal, a vertical and (for 3D) a temporal chroma
// candidate by how much each axis's difference-of-neighbors estimate
// agrees with its own low-pass-derived confidence, blends the three by
// their confidences, demodulates the blended candidate against the
// subcarrier phase via sample-and-hold, and low-passes the result.
func (d *Decoder) split(dim Dimension) {
	f := 0
	if dim >= Dim3D {
		f = 1
	}

	cur := d.ring.Raw(f)

	// VBI/vertical-blanking lines carry no chroma: passthrough luma.
	for l := 0; l < 24; l++ {
		base := l * RawWidth
		for h := 4; h < 840; h++ {
			d.cbuf[l][h] = YIQ{Y: float64(cur[base+h])}
		}
	}

	for l := 24; l < RawHeight; l++ {
		base := l * RawWidth
		line := cur[base:]
		invertphase := cur[base] == PhaseInvertSentinel

		p3 := d.ring.Raw(0)[base:]
		n3 := d.ring.Raw(2)[base:]

		var p2, n2 []uint16
		if l >= 2 {
			p2 = cur[base-2*RawWidth:]
		}
		if l+2 < RawHeight {
			n2 = cur[base+2*RawWidth:]
		}

		var si, sq float64

		for h := 4; h < 840; h++ {
			phase := h % 4
			adr := base + h

			var c, dd, v [3]float64

			if dim >= Dim3D {
				c[2] = (float64(p3[h]) + float64(n3[h]))/2 - float64(line[h])
				dd[2] = absF((float64(p3[h]) - float64(line[h])) - (float64(n3[h]) - float64(line[h])))
				k := absF(d.ring.LP(1)[adr]-d.ring.LP(0)[adr]) + absF(d.ring.LP(1)[adr]-d.ring.LP(2)[adr])
				k /= ireScale
				v[2] = clamp(1-(k/8), 0, 1)
			}
			d.k3d[adr] = v[2]

			if dim >= Dim2D && l >= 2 && l <= 502 {
				c[1] = (float64(p2[h]) + float64(n2[h]))/2 - float64(line[h])
				dd[1] = absF((float64(p2[h]) - float64(line[h])) - (float64(n2[h]) - float64(line[h])))
				k := absF(d.ring.LP(1)[adr]-d.ring.LP(1)[adr-RawWidth]) + absF(d.ring.LP(1)[adr]-d.ring.LP(1)[adr+RawWidth])
				k /= ireScale
				v[1] = clamp(1-(k/10), 0, 1)
			}

			c[0] = (float64(line[h+2]) + float64(line[h-2]))/2 - float64(line[h])
			dd[0] = absF((float64(line[h-2]) - float64(line[h])) - (float64(line[h+2]) - float64(line[h])))
			if c[0] != 0 {
				v[0] = 1 - clamp((absF(dd[0])/absF(c[0])), 0, 1)
			}

			if v[1]+v[2] >= 0.5 {
				v[0] = 0
			}
			if v[0]+v[1] > 0 {
				v12a := 1 - v[2]
				v12b := v12a / (v[0] + v[1])
				v[0] *= v12b
				v[1] *= v12b
			}

			vtot := v[0] + v[1] + v[2]
			if vtot <= 0.01 {
				v[1], v[2] = 1, 1
				vtot = 2
			}
			v[0] /= vtot
			v[1] /= vtot
			v[2] /= vtot

			cavg := c[0]*v[0] + c[1]*v[1] + c[2]*v[2]
			cavg /= 2
			if !invertphase {
				cavg = -cavg
			}

			switch phase {
			case 0:
				si = cavg
			case 1:
				sq = -cavg
			case 2:
				si = -cavg
			case 3:
				sq = cavg
			}

			d.cbuf[l][h] = YIQ{Y: float64(line[h]), I: si, Q: sq}
		}

		fi, fq := d.chroma.i, d.chroma.q
		shift := 8
		if d.cwide {
			fi, fq = d.chroma.wi, d.chroma.wq
			shift = 5
		}
		for h := 4; h < 840; h++ {
			p := d.cbuf[l][h]
			var i, q float64
			if !d.bw {
				i = fi.Feed(p.I)
				q = fq.Feed(p.Q)
			}
			d.cbuf[l][h-shift].I = i
			d.cbuf[l][h-shift].Q = q
		}
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
