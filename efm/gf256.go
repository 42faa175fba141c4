package efm

// GF(2^8) arithmetic and a from-scratch Reed-Solomon error-locator,
// used only for the blind (no-erasure) correction path C1 needs:
// klauspost/reedsolomon is a Vandermonde erasure code with no locator,
// so a symbol error with no erasure flag set has to be found the
// classical way (syndromes, Berlekamp-Massey, Chien search, Forney).
//
// The field's primitive polynomial is x^8+x^4+x^3+x^2+1 (0x11D), the
// one the Red Book CIRC code and CD Reed-Solomon are defined over.

const gfPrimPoly = 0x11d

var gfExp [510]byte
var gfLog [256]byte

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfLog[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= gfPrimPoly
		}
	}
	for i := 255; i < 510; i++ {
		gfExp[i] = gfExp[i-255]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return gfExp[(int(gfLog[a])-int(gfLog[b])+255)%255]
}

func gfInv(a byte) byte {
	return gfExp[255-int(gfLog[a])]
}

// gfPow raises the field's generator element 2 (or any nonzero a) to
// exponent n, which may be negative (interpreted mod 255).
func gfPow(a byte, n int) byte {
	if a == 0 {
		return 0
	}
	e := (int(gfLog[a]) * n) % 255
	if e < 0 {
		e += 255
	}
	return gfExp[e]
}

// polEval evaluates a polynomial at x via Horner's method. poly is
// MSB-first: poly[0] is the highest-degree coefficient, matching the
// byte order symbols arrive in.
func polEval(poly []byte, x byte) byte {
	y := poly[0]
	for _, c := range poly[1:] {
		y = gfMul(y, x) ^ c
	}
	return y
}

func polScale(p []byte, x byte) []byte {
	r := make([]byte, len(p))
	for i, c := range p {
		r[i] = gfMul(c, x)
	}
	return r
}

// polAdd XORs two MSB-first polynomials, right-aligning them (addition
// in GF(2^8) is XOR, so this also serves as subtraction).
func polAdd(p, q []byte) []byte {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	r := make([]byte, n)
	copy(r[n-len(p):], p)
	for i, c := range q {
		r[n-len(q)+i] ^= c
	}
	return r
}

func polMul(p, q []byte) []byte {
	r := make([]byte, len(p)+len(q)-1)
	for i, pc := range p {
		if pc == 0 {
			continue
		}
		for j, qc := range q {
			r[i+j] ^= gfMul(pc, qc)
		}
	}
	return r
}

// polTruncateLow returns the low-order n coefficients of p (i.e. p mod
// x^n), which for an MSB-first array is simply its last n entries.
func polTruncateLow(p []byte, n int) []byte {
	if len(p) >= n {
		return append([]byte(nil), p[len(p)-n:]...)
	}
	out := make([]byte, n)
	copy(out[n-len(p):], p)
	return out
}

func reversePoly(p []byte) []byte {
	r := make([]byte, len(p))
	for i, c := range p {
		r[len(p)-1-i] = c
	}
	return r
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// rsGenPoly builds the generator polynomial with roots alpha^1..alpha^nsym.
func rsGenPoly(nsym int) []byte {
	g := []byte{1}
	for i := 0; i < nsym; i++ {
		g = polMul(g, []byte{1, gfPow(2, i+1)})
	}
	return g
}

// rsEncode systematically encodes data (MSB-first, at the codeword's
// high-degree end) against a generator with nsym roots, appending the
// nsym-symbol remainder as parity. Used to build self-consistent test
// fixtures for the blind-error decode path below.
func rsEncode(data []byte, nsym int) []byte {
	gen := rsGenPoly(nsym)
	msg := make([]byte, len(data)+nsym)
	copy(msg, data)
	tmp := append([]byte(nil), msg...)
	for i := 0; i < len(data); i++ {
		coef := tmp[i]
		if coef != 0 {
			for j, gc := range gen {
				tmp[i+j] ^= gfMul(gc, coef)
			}
		}
	}
	copy(msg[len(data):], tmp[len(data):])
	return msg
}

// rsCalcSyndromes returns S_1..S_nsym for msg against roots alpha^1..alpha^nsym.
// All zero means msg is a valid codeword.
func rsCalcSyndromes(msg []byte, nsym int) []byte {
	synd := make([]byte, nsym)
	for j := 0; j < nsym; j++ {
		synd[j] = polEval(msg, gfPow(2, j+1))
	}
	return synd
}

// rsFindErrorLocator runs Berlekamp-Massey over the syndrome sequence
// to find the error locator polynomial Lambda(x), MSB-first, degree
// equal to the number of errors it can account for.
func rsFindErrorLocator(synd []byte) []byte {
	errLoc := []byte{1}
	oldLoc := []byte{1}
	for i := 0; i < len(synd); i++ {
		delta := synd[i]
		for j := 1; j < len(errLoc); j++ {
			delta ^= gfMul(errLoc[len(errLoc)-1-j], synd[i-j])
		}
		oldLoc = append(oldLoc, 0)
		if delta != 0 {
			if len(oldLoc) > len(errLoc) {
				newLoc := polScale(oldLoc, delta)
				oldLoc = polScale(errLoc, gfInv(delta))
				errLoc = newLoc
			}
			errLoc = polAdd(errLoc, polScale(oldLoc, delta))
		}
	}
	start := 0
	for start < len(errLoc)-1 && errLoc[start] == 0 {
		start++
	}
	return errLoc[start:]
}

// rsFindErrorPositions runs a Chien search: brute-force root-finding
// over the field for the (small, n<=32) codeword length involved here.
// Returned positions index directly into the MSB-first codeword array.
func rsFindErrorPositions(errLoc []byte, n int) []int {
	var pos []int
	for i := 0; i < n; i++ {
		if polEval(errLoc, gfPow(2, i)) == 0 {
			pos = append(pos, n-1-i)
		}
	}
	return pos
}

// rsErrataLocator rebuilds the locator polynomial directly from known
// error positions (expressed as polynomial-degree coefficients), used
// by Forney's algorithm rather than reusing the Berlekamp-Massey output.
func rsErrataLocator(coefPos []int) []byte {
	loc := []byte{1}
	for _, i := range coefPos {
		loc = polMul(loc, []byte{gfPow(2, i), 1})
	}
	return loc
}

// rsCorrectErrata applies Forney's algorithm in place: given the
// syndromes and the known error positions, it computes each error's
// magnitude and XORs it into msg. Returns false if a magnitude cannot
// be resolved (e.g. two error positions coincide in a degenerate way).
func rsCorrectErrata(msg []byte, synd []byte, errPos []int) bool {
	n := len(msg)
	coefPos := make([]int, len(errPos))
	for i, p := range errPos {
		coefPos[i] = n - 1 - p
	}
	errLoc := rsErrataLocator(coefPos)
	v := len(errLoc) - 1
	errEval := polTruncateLow(polMul(reversePoly(synd), errLoc), v+1)

	x := make([]byte, len(coefPos))
	for i, cp := range coefPos {
		l := 255 - cp
		x[i] = gfPow(2, -l)
	}

	for i, xi := range x {
		xiInv := gfInv(xi)
		var errLocPrime byte = 1
		for j, xj := range x {
			if j == i {
				continue
			}
			errLocPrime = gfMul(errLocPrime, byte(1)^gfMul(xiInv, xj))
		}
		if errLocPrime == 0 {
			return false
		}
		y := gfMul(xi, polEval(errEval, xiInv))
		magnitude := gfDiv(y, errLocPrime)
		msg[errPos[i]] ^= magnitude
	}
	return true
}

// rsCorrectErrors attempts blind GF(256) error-location decoding of one
// interleaved C1 codeword, correcting up to two symbol errors with no
// erasure information at all. It reports ok=false when the syndromes
// imply more errors than RS(32,28) can locate without help, leaving
// the caller to fail the frame instead of trusting a bad correction.
func rsCorrectErrors(data [32]byte) (corrected [32]byte, numErrors int, ok bool) {
	const nsym = 4
	msg := append([]byte(nil), data[:]...)

	synd := rsCalcSyndromes(msg, nsym)
	if allZero(synd) {
		return data, 0, true
	}

	errLoc := rsFindErrorLocator(synd)
	v := len(errLoc) - 1
	if v == 0 || 2*v > nsym {
		return data, 0, false
	}

	errPos := rsFindErrorPositions(errLoc, len(msg))
	if len(errPos) != v {
		return data, 0, false
	}

	if !rsCorrectErrata(msg, synd, errPos) {
		return data, 0, false
	}

	if !allZero(rsCalcSyndromes(msg, nsym)) {
		return data, 0, false
	}

	copy(corrected[:], msg)
	return corrected, v, true
}
