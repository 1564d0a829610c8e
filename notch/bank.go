package notch

import (
	"errors"
	"math"
	"sync/atomic"
)

// DefaultStages is the number of cascaded reject stages per bank.
const DefaultStages = 4

// rampSeconds is the glide window for live retunes, matching the
// engine-wide click-free update constant.
const rampSeconds = 0.01

// ErrInvalidSampleRate is returned when a bank is created with a
// non-positive sample rate.
var ErrInvalidSampleRate = errors.New("notch: sample rate must be positive")

// Option configures a Bank.
type Option func(*Bank)

// WithStages sets the cascade depth. Values outside [1, 8] are clamped;
// 3 or 4 stages give a deep stopband without over-narrowing it.
func WithStages(n int) Option {
	return func(b *Bank) {
		if n < 1 {
			n = 1
		}

		if n > 8 {
			n = 8
		}

		b.stages = make([]section, n)
	}
}

// Bank is a cascade of identical second-order notch stages wired strictly
// in series.
//
// Update posts a new center/width pair atomically; the rendering side
// glides the resolved band edges toward the target over the ramp window,
// redesigning coefficients per block while preserving every stage's
// delay-line state. That combination is what keeps live retuning
// click-free: no state reset, no parameter step.
type Bank struct {
	sampleRate float64
	stages     []section

	centerBits atomic.Uint64
	widthKind  atomic.Int32
	widthBits  atomic.Uint64

	// Render-side glide state.
	curCenter float64
	curLower  float64
	curUpper  float64
}

// New creates a bank tuned to spec. The initial band is applied
// immediately; only subsequent updates glide.
func New(sampleRate float64, spec Spec, opts ...Option) (*Bank, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	b := &Bank{
		sampleRate: sampleRate,
		stages:     make([]section, DefaultStages),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	b.storeTarget(spec)

	band := spec.Resolve(sampleRate)
	b.curCenter = band.CenterHz
	b.curLower = band.LowerHz
	b.curUpper = band.UpperHz
	b.retune(band.CenterHz, band.Q)

	return b, nil
}

// Stages returns the cascade depth. It never changes after creation;
// retuning replaces coefficients, not stages.
func (b *Bank) Stages() int {
	return len(b.stages)
}

// SampleRate returns the rendering sample rate the bank designs against.
func (b *Bank) SampleRate() float64 {
	return b.sampleRate
}

// Spec returns the most recently posted notch spec.
func (b *Bank) Spec() Spec {
	return Spec{
		CenterHz: math.Float64frombits(b.centerBits.Load()),
		Width: Width{
			Kind:  WidthKind(b.widthKind.Load()),
			Value: math.Float64frombits(b.widthBits.Load()),
		},
	}
}

// Update posts a new center frequency and width. Callable from
// user-interaction handlers while audio is rendering; the transition is
// smoothed on the rendering side.
func (b *Bank) Update(centerHz float64, width Width) {
	b.storeTarget(Spec{CenterHz: centerHz, Width: width})
}

// Reset clears all stage delay lines.
func (b *Bank) Reset() {
	for i := range b.stages {
		b.stages[i].reset()
	}
}

// Process filters buf in-place through the cascade, advancing any
// pending retune glide by one block.
func (b *Bank) Process(buf []float64) {
	if len(buf) == 0 {
		return
	}

	b.glide(len(buf))

	for i := range b.stages {
		b.stages[i].processBlock(buf)
	}
}

// ResponseDB returns the cascaded magnitude response in dB at freqHz,
// based on the currently active (possibly mid-glide) coefficients.
func (b *Bank) ResponseDB(freqHz float64) float64 {
	magSq := 1.0
	for i := range b.stages {
		magSq *= b.stages[i].magnitudeSquared(freqHz, b.sampleRate)
	}

	return 10 * math.Log10(math.Max(magSq, 1e-24))
}

func (b *Bank) storeTarget(spec Spec) {
	b.centerBits.Store(math.Float64bits(spec.CenterHz))
	b.widthKind.Store(int32(spec.Width.Kind))
	b.widthBits.Store(math.Float64bits(spec.Width.Value))
}

// glide advances the current band edges toward the posted target and
// redesigns the stage coefficients. Delay-line state is untouched, so the
// output stays continuous across the update.
func (b *Bank) glide(blockLen int) {
	target := b.Spec().Resolve(b.sampleRate)

	alpha := 1 - math.Exp(-float64(blockLen)/(rampSeconds*b.sampleRate))

	b.curCenter = approach(b.curCenter, target.CenterHz, alpha)
	b.curLower = approach(b.curLower, target.LowerHz, alpha)
	b.curUpper = approach(b.curUpper, target.UpperHz, alpha)

	bw := b.curUpper - b.curLower
	if bw < minBandwidthHz {
		bw = minBandwidthHz
	}

	b.retune(b.curCenter, b.curCenter/bw)
}

// retune assigns fresh coefficients to every stage, preserving state.
func (b *Bank) retune(centerHz, q float64) {
	c := designNotch(centerHz, q, b.sampleRate)
	for i := range b.stages {
		b.stages[i].coefficients = c
	}
}

// approach moves cur a fraction alpha toward target, snapping when close
// so the glide terminates exactly.
func approach(cur, target, alpha float64) float64 {
	next := cur + (target-cur)*alpha
	if math.Abs(next-target) < 1e-3 {
		return target
	}

	return next
}
