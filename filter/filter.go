// Package filter implements the FIR/IIR building blocks shared by the
// comb decoder and the EFM pipeline: fixed coefficient tables paired
// with a rolling sample history, fed one sample at a time.
package filter

import "math"

// FIR is a finite-impulse-response filter: a fixed coefficient table
// plus a circular history of past input samples. Feed pushes one
// sample in and returns one filtered sample, the way the comb's
// demodulation and noise-reduction filters are driven in ld-decode.
type FIR struct {
	coeffs []float64
	hist   []float64
	pos    int
}

// NewFIR builds a FIR filter from a fixed coefficient table. The table
// is not copied defensively; callers must treat it as read-only once
// passed in.
func NewFIR(coeffs []float64) *FIR {
	return &FIR{
		coeffs: coeffs,
		hist:   make([]float64, len(coeffs)),
	}
}

// Feed convolves one new sample into the filter's history and returns
// the filtered output for that history window.
func (f *FIR) Feed(x float64) float64 {
	n := len(f.coeffs)
	f.hist[f.pos] = x

	var acc float64
	idx := f.pos
	for _, c := range f.coeffs {
		acc += c * f.hist[idx]
		idx--
		if idx < 0 {
			idx = n - 1
		}
	}

	f.pos++
	if f.pos >= n {
		f.pos = 0
	}
	return acc
}

// Reset clears the filter's history, as if it had just been constructed.
func (f *FIR) Reset() {
	for i := range f.hist {
		f.hist[i] = 0
	}
	f.pos = 0
}

// Taps returns the number of coefficients (and thus the filter's group
// delay in samples for a symmetric design).
func (f *FIR) Taps() int { return len(f.coeffs) }

// BlackmanLowpass generates windowed-sinc low-pass FIR coefficients
// using a Blackman window, normalized to unity gain at DC. This is the
// same construction the transmit shaping filter uses, generalized to
// build the comb decoder's fixed 10-tap luma low-pass and its narrow
// and wide chroma low-pass pairs from a cutoff/sample-rate pair rather
// than a baked-in table.
func BlackmanLowpass(numTaps int, cutoffHz, sampleRateHz float64) []float64 {
	taps := make([]float64, numTaps)
	normalizedCutoff := cutoffHz / sampleRateHz

	m := float64(numTaps - 1)
	var sum float64
	for i := 0; i < numTaps; i++ {
		n := float64(i)
		window := 0.42 - 0.5*math.Cos(2*math.Pi*n/m) + 0.08*math.Cos(4*math.Pi*n/m)

		var sinc float64
		if i == int(m/2) {
			sinc = 2 * math.Pi * normalizedCutoff
		} else {
			sinc = math.Sin(2*math.Pi*normalizedCutoff*(n-m/2)) / (n - m/2)
		}

		taps[i] = sinc * window
		sum += taps[i]
	}

	for i := range taps {
		taps[i] /= sum
	}
	return taps
}

// Highpass derives a same-length high-pass response from a low-pass
// tap table by spectral inversion: negate every tap, then add one at
// the center tap. Feeding a signal through the result is equivalent to
// subtracting the low-passed signal from the original.
func Highpass(lowpass []float64) []float64 {
	out := make([]float64, len(lowpass))
	for i, c := range lowpass {
		out[i] = -c
	}
	out[len(out)/2] += 1
	return out
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
