package comb

import (
	"fmt"
	"io"

	"ldproc/filter"
	"ldproc/ring"
)

// Config carries every tunable the CLI exposes for the comb decoder,
// mirroring the flag surface of the original tool: dimension, output
// line count, black level, brightness, noise-reduction strengths and
// mode switches.
type Config struct {
	Dim             Dimension
	LinesOut        int // 480 or 505
	Wide            bool
	BW              bool
	BlackIRE        float64
	Brightness      float64
	NRLuma          float64 // IRE units; negative disables
	NRChroma        float64
	WhiteflagDetect bool
	PulldownMode    bool
}

// DefaultConfig matches the original tool's compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		Dim:             Dim2D,
		LinesOut:        480,
		BlackIRE:        7.5,
		Brightness:      240,
		NRLuma:          4.0,
		NRChroma:        0.0,
		WhiteflagDetect: true,
	}
}

// Decoder holds all per-stream state for one comb-decoding session: the
// triple-frame ring, the fixed filter bank, and the frame/field
// bookkeeping needed for 3:2 pulldown detection across calls to Process.
type Decoder struct {
	cfg Config

	dim        Dimension
	linesOut   int
	cwide, bw  bool
	blackIRE   float64
	brightness float64
	nrY, nrC   float64

	ring    *ring.Frames
	lumaPre *filter.FIR
	chroma  *chromaFilters
	noise   *noiseFilters
	rgbConv rgbConverter

	cbuf [RawHeight]LinearLine
	k3d  KMap

	framecount int
	frameCode  int
	fOddFrame  bool

	output [OutWidth * RawHeight * 3]uint16
	obuf   [OutWidth * RawHeight * 3]uint16
}

// New builds a Decoder ready to Process frames of the fixed raw comb
// geometry.
func New(cfg Config) *Decoder {
	d := &Decoder{
		cfg:        cfg,
		dim:        cfg.Dim,
		linesOut:   cfg.LinesOut,
		cwide:      cfg.Wide,
		bw:         cfg.BW,
		blackIRE:   cfg.BlackIRE,
		brightness: cfg.Brightness,
		nrY:        cfg.NRLuma * ireScale,
		nrC:        cfg.NRChroma * ireScale,
		ring:       ring.New(RawWidth, RawHeight),
		lumaPre:    newLumaPrefilter(),
		chroma:     newChromaFilters(),
		noise:      newNoiseFilters(),
		k3d:        newKMap(),
	}
	d.rgbConv = rgbConverter{blackIRE: d.blackIRE, brightness: d.brightness}
	return d
}

// Sink receives one fully processed RGB frame, either as a stream of
// concatenated frames or as one call per output file, mirroring the
// -f/-O output modes.
type Sink interface {
	WriteFrame(pixels []uint16, frameCode int) error
}

// Process consumes one raw RawWidth x RawHeight frame, running the comb
// split, noise reduction, chroma re-insertion and RGB conversion, then
// hands the finished frame to sink via PostProcess. In 3D mode the
// first two calls only prime the temporal history and produce no
// output.
func (d *Decoder) Process(buf RawFrame, sink Sink) error {
	if len(buf) != RawWidth*RawHeight {
		return fmt.Errorf("comb: frame has %d samples, want %d", len(buf), RawWidth*RawHeight)
	}

	f := 0
	if d.dim == Dim3D {
		f = 1
	}

	d.ring.Rotate(buf)
	d.lpFrame(0)

	if d.dim == Dim3D && d.framecount < 2 {
		d.framecount++
		return nil
	}

	d.split(d.dim)
	d.doCNR()

	firstLine := 26
	if d.linesOut == RawHeight {
		firstLine = 1
	}
	d.restoreLuma(f, firstLine)
	d.doYNR()
	d.convertToRGB(firstLine)

	err := d.postProcess(f, firstLine, sink)
	d.framecount++
	return err
}

// restoreLuma adds the demodulated chroma component back into the
// baseband luma sample it was split out of, using the same phase table
// the comb used to demodulate it, so DoYNR and the RGB matrix see a
// fully reconstituted signal rather than chroma-stripped luma.
func (d *Decoder) restoreLuma(f, firstLine int) {
	raw := d.ring.Raw(f)
	for l := firstLine; l < RawHeight; l++ {
		invertphase := raw[l*RawWidth] == PhaseInvertSentinel
		for h := 0; h < 760; h++ {
			phase := h % 4
			p := d.cbuf[l][h+70]

			var comp float64
			switch phase {
			case 0:
				comp = p.I
			case 1:
				comp = -p.Q
			case 2:
				comp = -p.I
			case 3:
				comp = p.Q
			}
			if invertphase {
				comp = -comp
			}
			p.Y += comp
			d.cbuf[l][h+70] = p
		}
	}
}

func (d *Decoder) convertToRGB(firstLine int) {
	for l := firstLine; l < RawHeight; l++ {
		outBase := OutWidth * 3 * (l - firstLine)
		o := 0
		for h := 0; h < OutWidth; h++ {
			px := d.rgbConv.convert(d.cbuf[l][h+74])
			d.output[outBase+o] = px.R
			o++
			d.output[outBase+o] = px.G
			o++
			d.output[outBase+o] = px.B
			o++
		}
	}
}

// postProcess implements 3:2 pulldown field alignment: it locates the
// field start via white-flag lines 4-5 (falling back to the Philips VBI
// code on lines 16-19 when present), and in pulldown mode buffers odd
// and even fields across two Process calls before emitting a combined
// frame. Outside pulldown mode every processed frame is emitted as-is.
func (d *Decoder) postProcess(fnum, firstLine int, sink Sink) error {
	fstart := -1

	if !d.cfg.PulldownMode {
		fstart = 0
	} else if d.fOddFrame {
		for i := 0; i < d.linesOut; i += 2 {
			copyLine(d.obuf[:], d.output[:], i)
		}
		if err := sink.WriteFrame(d.obuf[:OutWidth*d.linesOut*3], d.frameCode); err != nil {
			return err
		}
		d.fOddFrame = false
	}

	raw := d.ring.Raw(fnum)
	for line := 4; line <= 5; line++ {
		if whiteFlagLine(raw[line*RawWidth:]) {
			fstart = line % 2
		}
	}

	for line := 16; line < 20; line++ {
		code := readPhilipsCode(raw[line*RawWidth:])
		pc := PhilipsCode{Line: line, Value: code}
		if n, ok := pc.FrameNumber(); ok {
			d.frameCode = n
			fstart = line % 2
		}
	}

	if !d.cfg.PulldownMode || fstart == 0 {
		return sink.WriteFrame(d.output[:OutWidth*d.linesOut*3], d.frameCode)
	}
	if fstart == 1 {
		for i := 1; i < d.linesOut; i += 2 {
			copyLine(d.obuf[:], d.output[:], i)
		}
		d.fOddFrame = true
	}
	return nil
}

func copyLine(dst, src []uint16, line int) {
	base := OutWidth * 3 * line
	copy(dst[base:base+OutWidth*3], src[base:base+OutWidth*3])
}

// FileSink writes concatenated raw RGB16 frames to an io.Writer, the
// streaming (non -f) output mode.
type FileSink struct {
	W io.Writer
}

func (s FileSink) WriteFrame(pixels []uint16, _ int) error {
	buf := make([]byte, len(pixels)*2)
	for i, v := range pixels {
		buf[2*i] = byte(v)
		buf[2*i+1] = byte(v >> 8)
	}
	_, err := s.W.Write(buf)
	return err
}

// PerFrameOpener creates a new writer for one numbered output file,
// the -f "separate file per frame" mode's <base><frameCode>.rgb naming.
type PerFrameOpener func(frameCode int) (io.WriteCloser, error)

// PerFrameSink calls Open for every frame and writes that frame's
// pixels to the resulting file before closing it.
type PerFrameSink struct {
	Open PerFrameOpener
}

func (s PerFrameSink) WriteFrame(pixels []uint16, frameCode int) error {
	w, err := s.Open(frameCode)
	if err != nil {
		return err
	}
	defer w.Close()
	return FileSink{W: w}.WriteFrame(pixels, frameCode)
}
