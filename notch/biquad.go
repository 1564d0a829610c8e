package notch

import (
	"math"
)

// coefficients holds the transfer function of one second-order notch
// stage. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// section is a single reject stage: coefficients plus delay-line state,
// processed in Direct Form II Transposed.
type section struct {
	coefficients

	d0, d1 float64
}

// processBlock filters a block of samples in-place. Zero-alloc.
func (s *section) processBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// reset clears the delay line to zero.
func (s *section) reset() {
	s.d0 = 0
	s.d1 = 0
}

// magnitudeSquared returns |H(f)|^2 of the stage using the closed-form
// expression, avoiding complex exponentials.
func (c *coefficients) magnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw

	return num / den
}

// designNotch computes RBJ notch coefficients centered at freq (Hz).
// Invalid inputs yield an identity-safe zero value rather than NaNs.
func designNotch(freq, q, sampleRate float64) coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return passthrough()
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := 1.0
	b1 := -2 * cw
	b2 := 1.0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeCoefficients(b0, b1, b2, a0, a1, a2)
}

// passthrough returns unity-gain coefficients (B0=1, all else 0).
func passthrough() coefficients {
	return coefficients{B0: 1}
}

const defaultQ = 1 / math.Sqrt2

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalizeCoefficients(b0, b1, b2, a0, a1, a2 float64) coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return passthrough()
	}

	return coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
