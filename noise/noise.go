package noise

import (
	"errors"
	"fmt"
	"math/rand"
)

// Errors returned by noise generation.
var (
	ErrInvalidSampleRate = errors.New("noise: sample rate must be positive")
	ErrInvalidChannels   = errors.New("noise: channel count must be positive")
	ErrUnknownColor      = errors.New("noise: unknown color")
)

// Color selects the spectral shape of the generated noise.
type Color int

// Available noise colors.
const (
	White Color = iota
	Pink
	Brown
)

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Pink:
		return "pink"
	case Brown:
		return "brown"
	default:
		return "unknown"
	}
}

// ParseColor maps a color name to its Color value.
func ParseColor(s string) (Color, error) {
	switch s {
	case "white":
		return White, nil
	case "pink":
		return Pink, nil
	case "brown":
		return Brown, nil
	default:
		return White, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
}

// defaultBrownGain is the empirically tuned pre-clamp loudness multiplier
// for brown noise. It only affects level; the post-generation clamp is
// what guarantees samples stay in [-1, 1].
const defaultBrownGain = 3.5

// Buffer holds per-channel noise samples, one second per channel at the
// generation sample rate. Channels are generated independently, with no
// inter-channel correlation.
type Buffer struct {
	Channels   [][]float64
	SampleRate float64
}

// Generator creates deterministic noise buffers from a seed.
type Generator struct {
	sampleRate float64
	seed       int64
	brownGain  float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithBrownGain overrides the brown-noise loudness multiplier. This is a
// level adjustment only; output range stays clamped regardless.
func WithBrownGain(gain float64) Option {
	return func(g *Generator) {
		if gain > 0 {
			g.brownGain = gain
		}
	}
}

// NewGenerator creates a configured noise generator.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	g := &Generator{
		sampleRate: sampleRate,
		seed:       1,
		brownGain:  defaultBrownGain,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g, nil
}

// Buffer generates one second of the given color per channel. Every
// sample of every channel is clamped to [-1, 1] after generation,
// whatever the synthesis method produced.
func (g *Generator) Buffer(c Color, channels int) (*Buffer, error) {
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	samples := int(g.sampleRate)
	rng := rand.New(rand.NewSource(g.seed))

	buf := &Buffer{
		Channels:   make([][]float64, channels),
		SampleRate: g.sampleRate,
	}

	for ch := range buf.Channels {
		var data []float64

		switch c {
		case Pink:
			data = pink(rng, samples)
		case Brown:
			data = brown(rng, samples, g.brownGain)
		case White:
			data = white(rng, samples)
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
		}

		clampUnit(data)
		buf.Channels[ch] = data
	}

	return buf, nil
}

// white draws each sample independently from a uniform distribution
// over [-1, 1].
func white(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}

	return out
}

// pink shapes white noise with the Kellet multi-pole filter, a close
// approximation of 1/f energy falloff, then normalizes the peak back to
// full scale (the filter attenuates overall level).
func pink(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)

	var b0, b1, b2, b3, b4, b5, b6 float64

	for i := range out {
		w := rng.Float64()*2 - 1

		b0 = 0.99886*b0 + w*0.0555179
		b1 = 0.99332*b1 + w*0.0750759
		b2 = 0.96900*b2 + w*0.1538520
		b3 = 0.86650*b3 + w*0.3104856
		b4 = 0.55000*b4 + w*0.5329522
		b5 = -0.7616*b5 - w*0.0168980

		out[i] = b0 + b1 + b2 + b3 + b4 + b5 + b6 + w*0.5362
		b6 = w * 0.115926
	}

	normalize(out, 1)

	return out
}

// brown integrates small white increments through a leaky accumulator.
// Unbounded integration drifts, so the caller-visible guarantee comes
// from the clamp applied after generation, not from the gain.
func brown(rng *rand.Rand, n int, gain float64) []float64 {
	out := make([]float64, n)

	var last float64

	for i := range out {
		w := rng.Float64()*2 - 1
		last = (last + 0.02*w) / 1.02
		out[i] = last * gain
	}

	return out
}

// normalize scales data in-place to the target peak amplitude.
func normalize(data []float64, targetPeak float64) {
	maxAbs := 0.0

	for _, v := range data {
		av := v
		if av < 0 {
			av = -av
		}

		if av > maxAbs {
			maxAbs = av
		}
	}

	if maxAbs == 0 {
		return
	}

	scale := targetPeak / maxAbs
	for i := range data {
		data[i] *= scale
	}
}

// clampUnit hard-limits every sample to [-1, 1] in-place.
func clampUnit(data []float64) {
	for i, v := range data {
		if v > 1 {
			data[i] = 1
		} else if v < -1 {
			data[i] = -1
		}
	}
}
