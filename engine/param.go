package engine

import (
	"math"
	"sync/atomic"
)

// rampSeconds is the glide time applied to every posted parameter change.
// Roughly 10 ms: short enough to feel immediate, long enough that the
// rendering path never produces an audible step.
const rampSeconds = 0.01

// Param is a click-free scalar parameter shared between application code
// and the rendering path.
//
// Set posts a new target atomically; the rendering side advances toward it
// by linear interpolation over the ramp window, one Step per sample. The
// rendering path never locks or allocates: the target is a bare float64
// bit pattern and the glide state is owned exclusively by the render
// goroutine.
type Param struct {
	bits  atomic.Uint64
	jumps atomic.Uint32

	// Render-side glide state.
	seenJumps   uint32
	current     float64
	lastTarget  float64
	inc         float64
	remaining   int
	rampSamples int
}

// newParam creates a parameter holding initial with a ramp window derived
// from the sample rate.
func newParam(initial, sampleRate float64) *Param {
	p := &Param{
		current:     initial,
		lastTarget:  initial,
		rampSamples: int(rampSeconds * sampleRate),
	}
	if p.rampSamples < 1 {
		p.rampSamples = 1
	}

	p.bits.Store(math.Float64bits(initial))

	return p
}

// Set posts a new target value. The rendering side glides toward it over
// the ramp window.
func (p *Param) Set(v float64) {
	if p == nil {
		return
	}

	p.bits.Store(math.Float64bits(v))
}

// SetImmediate posts a new value that takes effect without a glide.
// Used where a deterministic starting value matters more than smoothness,
// e.g. the initial pitch of a freshly created oscillator.
func (p *Param) SetImmediate(v float64) {
	if p == nil {
		return
	}

	p.bits.Store(math.Float64bits(v))
	p.jumps.Add(1)
}

// Target returns the most recently posted target value.
func (p *Param) Target() float64 {
	if p == nil {
		return 0
	}

	return math.Float64frombits(p.bits.Load())
}

// Step advances the glide by one sample and returns the current value.
// Must be called from the rendering path only.
func (p *Param) Step() float64 {
	t := math.Float64frombits(p.bits.Load())

	if j := p.jumps.Load(); j != p.seenJumps {
		p.seenJumps = j
		p.current = t
		p.lastTarget = t
		p.remaining = 0

		return p.current
	}

	if t != p.lastTarget {
		p.lastTarget = t
		p.remaining = p.rampSamples
		p.inc = (t - p.current) / float64(p.rampSamples)
	}

	if p.remaining > 0 {
		p.current += p.inc
		p.remaining--

		if p.remaining == 0 {
			p.current = t
		}
	}

	return p.current
}
