package notch

import "math"

// MinEdgeHz is the floor applied to both resolved band edges. Narrow
// hertz widths around a low center would otherwise resolve to zero or
// negative filter frequencies.
const MinEdgeHz = 20.0

// minBandwidthHz keeps a degenerate band (edges collapsed by clamping)
// processable instead of crashing the design.
const minBandwidthHz = 1.0

// edgeCeilingRatio bounds resolved frequencies below Nyquist.
const edgeCeilingRatio = 0.49

// WidthKind selects how a notch width is expressed.
type WidthKind int

// Width kinds.
const (
	// OctaveWidth expresses the width as a frequency ratio around the
	// center: one octave spans center/sqrt(2) to center*sqrt(2).
	OctaveWidth WidthKind = iota

	// HertzWidth expresses the width as a fixed span in Hz, used for
	// narrow notches where octave scaling would be too wide.
	HertzWidth
)

// Width is a notch width in either octave or hertz terms.
type Width struct {
	Kind  WidthKind
	Value float64
}

// Octaves returns an octave-based width.
func Octaves(v float64) Width {
	return Width{Kind: OctaveWidth, Value: v}
}

// Hertz returns a fixed-span width in Hz.
func Hertz(v float64) Width {
	return Width{Kind: HertzWidth, Value: v}
}

// Spec describes a notch: a center frequency and a width.
type Spec struct {
	CenterHz float64
	Width    Width
}

// Band is a resolved notch specification: concrete band edges and the
// per-stage quality factor Q = center / (upper - lower).
type Band struct {
	CenterHz float64
	LowerHz  float64
	UpperHz  float64
	Q        float64
}

// Resolve turns the spec into concrete band edges at the given sample
// rate. Both edges are clamped to [MinEdgeHz, 0.49*sampleRate]; a spec
// whose edges collapse under clamping still yields a minimally valid,
// processable band.
func (s Spec) Resolve(sampleRate float64) Band {
	ceiling := edgeCeilingRatio * sampleRate
	if ceiling <= MinEdgeHz {
		ceiling = MinEdgeHz + minBandwidthHz
	}

	center := clamp(s.CenterHz, MinEdgeHz, ceiling)

	var lower, upper float64

	switch s.Width.Kind {
	case HertzWidth:
		span := math.Abs(s.Width.Value)
		lower = center - span/2
		upper = center + span/2
	default:
		oct := s.Width.Value
		if oct <= 0 {
			oct = 1
		}

		half := math.Exp2(oct / 2)
		lower = center / half
		upper = center * half
	}

	lower = clamp(lower, MinEdgeHz, ceiling)
	upper = clamp(upper, MinEdgeHz, ceiling)

	if upper-lower < minBandwidthHz {
		upper = lower + minBandwidthHz
		if upper > ceiling {
			upper = ceiling
			lower = upper - minBandwidthHz
		}
	}

	return Band{
		CenterHz: center,
		LowerHz:  lower,
		UpperHz:  upper,
		Q:        center / (upper - lower),
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}

	if v > max {
		return max
	}

	return v
}
