package engine

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// ErrInvalidFFTSize is returned when an analyzer is requested with a size
// that is not a power of two or is too small to be useful.
var ErrInvalidFFTSize = errors.New("engine: fft size must be a power of two >= 64")

const minFFTSize = 64

// Analyzer is a frequency-domain tap for external visualization. It
// records the most recent samples flowing through a session and exposes
// their magnitude spectrum. It is never consumed by the synthesis path
// itself.
//
// The rendering side appends into a fixed ring without locks; Spectrum
// snapshots the ring from the application side. A snapshot racing a write
// may mix two adjacent blocks, which is acceptable for display purposes.
type Analyzer struct {
	size       int
	sampleRate float64
	ring       []float64
	pos        atomic.Uint64
	window     []float64
}

func newAnalyzer(fftSize int, sampleRate float64) (*Analyzer, error) {
	if fftSize < minFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	a := &Analyzer{
		size:       fftSize,
		sampleRate: sampleRate,
		ring:       make([]float64, fftSize),
		window:     make([]float64, fftSize),
	}

	// Hann window to suppress leakage from the rectangular snapshot.
	for i := range a.window {
		a.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize)))
	}

	return a, nil
}

// Size returns the FFT size.
func (a *Analyzer) Size() int {
	if a == nil {
		return 0
	}

	return a.size
}

// BinWidth returns the frequency resolution of one spectrum bin in Hz.
func (a *Analyzer) BinWidth() float64 {
	if a == nil {
		return 0
	}

	return a.sampleRate / float64(a.size)
}

// Process records a block into the ring and leaves it unmodified, so an
// analyzer can sit anywhere in a session's processor chain.
func (a *Analyzer) Process(buf []float64) {
	if a == nil {
		return
	}

	pos := a.pos.Load()
	for _, x := range buf {
		a.ring[pos%uint64(a.size)] = x
		pos++
	}

	a.pos.Store(pos)
}

// Spectrum returns the magnitude spectrum of the most recent Size samples,
// normalized so a full-scale sine peaks near 1. The result has
// Size/2 + 1 bins; bin k is centered at k*BinWidth() Hz.
func (a *Analyzer) Spectrum() ([]float64, error) {
	if a == nil {
		return nil, nil
	}

	n := a.size

	// Chronological snapshot of the ring.
	buf := make([]float64, n)
	pos := a.pos.Load()

	for i := range buf {
		buf[i] = a.ring[(pos+uint64(i))%uint64(n)]
	}

	vecmath.MulBlockInPlace(buf, a.window)

	in := make([]complex128, n)
	for i, v := range buf {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("engine: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("engine: forward FFT failed: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	// Compensate for the Hann window's coherent gain (0.5) and the
	// one-sided spectrum scaling.
	scale := 4.0 / float64(n)
	for i := range mags {
		mags[i] *= scale
	}

	return mags, nil
}

// PeakBin returns the index of the strongest spectrum bin and its
// center frequency in Hz.
func (a *Analyzer) PeakBin() (int, float64, error) {
	mags, err := a.Spectrum()
	if err != nil || len(mags) == 0 {
		return 0, 0, err
	}

	best := 0
	for i, m := range mags {
		if m > mags[best] {
			best = i
		}
	}

	return best, float64(best) * a.BinWidth(), nil
}
