package engine

import "math"

// Supported oscillator frequency range in Hz. Values outside are clamped.
const (
	MinOscillatorHz = 100.0
	MaxOscillatorHz = 15000.0
)

// DefaultOscillatorHz is the frequency used when none is given.
const DefaultOscillatorHz = 440.0

// Waveform selects the oscillator wave shape.
type Waveform int

// Available wave shapes.
const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

// String returns the waveform name.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Generator produces one mono block of samples per call.
type Generator interface {
	Generate(dst []float64)
}

// Processor transforms one mono block in-place.
type Processor interface {
	Process(buf []float64)
}

// Oscillator is a phase-accumulator tone generator. Frequency changes
// posted through SetFrequency glide over the ramp window; the creation
// frequency is applied immediately so the starting pitch is deterministic.
type Oscillator struct {
	freq       *Param
	wave       Waveform
	phase      float64
	sampleRate float64
}

// SetFrequency posts a new frequency in Hz, clamped to the supported
// range. The running tone glides to it without a click.
func (o *Oscillator) SetFrequency(hz float64) {
	if o == nil {
		return
	}

	o.freq.Set(Clamp(hz, MinOscillatorHz, MaxOscillatorHz))
}

// Frequency returns the most recently posted frequency target in Hz.
func (o *Oscillator) Frequency() float64 {
	if o == nil {
		return 0
	}

	return o.freq.Target()
}

// Waveform returns the wave shape.
func (o *Oscillator) Waveform() Waveform {
	if o == nil {
		return Sine
	}

	return o.wave
}

// Generate fills dst with the next block of samples in [-1, 1].
func (o *Oscillator) Generate(dst []float64) {
	if o == nil {
		for i := range dst {
			dst[i] = 0
		}

		return
	}

	for i := range dst {
		f := o.freq.Step()

		o.phase += f / o.sampleRate
		if o.phase >= 1 {
			o.phase -= math.Floor(o.phase)
		}

		dst[i] = sampleWave(o.wave, o.phase)
	}
}

// sampleWave evaluates one waveform cycle at phase in [0, 1).
func sampleWave(w Waveform, phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}

		return -1
	case Sawtooth:
		return 2*phase - 1
	case Triangle:
		if phase < 0.5 {
			return 4*phase - 1
		}

		return 3 - 4*phase
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Gain scales a block by a smoothed factor. Negative values are allowed
// and represent a full polarity inversion (phase flip).
type Gain struct {
	value *Param
}

// SetValue posts a new gain factor; the running value glides to it.
func (g *Gain) SetValue(v float64) {
	if g == nil {
		return
	}

	g.value.Set(v)
}

// Value returns the most recently posted gain target.
func (g *Gain) Value() float64 {
	if g == nil {
		return 0
	}

	return g.value.Target()
}

// Process scales buf in-place.
func (g *Gain) Process(buf []float64) {
	if g == nil {
		return
	}

	for i := range buf {
		buf[i] *= g.value.Step()
	}
}

// Panner places a mono signal in the stereo field using an equal-power
// law. Pan is in [-1, 1]: -1 routes to the left ear only, +1 to the right
// ear only, 0 to both.
type Panner struct {
	pan *Param
}

// SetPan posts a new stereo position, clamped to [-1, 1].
func (p *Panner) SetPan(pan float64) {
	if p == nil {
		return
	}

	p.pan.Set(Clamp(pan, -1, 1))
}

// Pan returns the most recently posted stereo position.
func (p *Panner) Pan() float64 {
	if p == nil {
		return 0
	}

	return p.pan.Target()
}

// AddTo accumulates the panned mono block into left and right.
func (p *Panner) AddTo(mono, left, right []float64) {
	if p == nil {
		return
	}

	for i := range mono {
		angle := (p.pan.Step() + 1) * math.Pi / 4
		left[i] += mono[i] * math.Cos(angle)
		right[i] += mono[i] * math.Sin(angle)
	}
}
