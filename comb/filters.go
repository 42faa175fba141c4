package comb

import "ldproc/filter"

// Fixed sample-rate constants derived from the 4x-subcarrier sampling
// used throughout the decoder: 4 * 315/88 MHz.
const (
	dotClockHz = 1_000_000.0 * (315.0 / 88.0) * 4.0
	fscHz      = 1_000_000.0 * (315.0 / 88.0)
)

// Package-level fixed filter coefficient tables, built once at init time
// the same way the transmit shaping filter builds its taps: a windowed
// sinc low-pass, plus a spectral-inversion high-pass derived from it.
var (
	// lpf10hTaps low-passes the raw luma frame before comb splitting,
	// matching the 10-tap luma prefilter run once per frame.
	lpf10hTaps = filter.BlackmanLowpass(10, fscHz*0.75, dotClockHz)

	// colorlp4Taps is the narrow chroma low-pass applied after
	// demodulation in the default (non-wide) chroma mode. 17 taps gives
	// it a group delay of exactly 8 samples, matching the shift Split
	// applies when re-aligning its output.
	colorlp4Taps = filter.BlackmanLowpass(17, fscHz*0.6, dotClockHz)

	// colorwlp4Taps is the wider chroma low-pass used in "wide chroma"
	// mode, trading resolution loss for less ringing. 11 taps gives a
	// group delay of 5 samples, matching Split's wide-mode shift.
	colorwlp4Taps = filter.BlackmanLowpass(11, fscHz*1.3, dotClockHz)

	// nrTaps and nrcTaps are the high-pass filters that isolate the
	// noise band for luma and chroma non-linear noise reduction.
	nrTaps  = filter.Highpass(filter.BlackmanLowpass(9, fscHz*1.5, dotClockHz))
	nrcTaps = filter.Highpass(filter.BlackmanLowpass(9, fscHz*0.5, dotClockHz))
)

// chromaFilters bundles the four demodulated-chroma FIR pairs a Splitter
// needs: narrow I/Q and wide I/Q, selected per-frame by cwide mode.
type chromaFilters struct {
	i, q   *filter.FIR
	wi, wq *filter.FIR
}

func newChromaFilters() *chromaFilters {
	return &chromaFilters{
		i:  filter.NewFIR(colorlp4Taps),
		q:  filter.NewFIR(colorlp4Taps),
		wi: filter.NewFIR(colorwlp4Taps),
		wq: filter.NewFIR(colorwlp4Taps),
	}
}

// noiseFilters bundles the high-pass filters DoYNR/DoCNR feed to isolate
// the noise band of luma and chroma.
type noiseFilters struct {
	hpY, hpI, hpQ *filter.FIR
}

func newNoiseFilters() *noiseFilters {
	return &noiseFilters{
		hpY: filter.NewFIR(nrTaps),
		hpI: filter.NewFIR(nrcTaps),
		hpQ: filter.NewFIR(nrcTaps),
	}
}

func newLumaPrefilter() *filter.FIR {
	return filter.NewFIR(lpf10hTaps)
}
