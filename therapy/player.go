// Package therapy composes masking-noise playback: colored noise is
// generated per ear, notch-filtered around the user's matched frequency
// and mixed into the engine's master output.
//
// Each ear gets an independently generated noise channel and its own
// notch bank, so the stereo image stays decorrelated and retunes apply
// to both ears.
package therapy

import (
	"fmt"

	"github.com/cwbudde/algo-tinnitus/engine"
	"github.com/cwbudde/algo-tinnitus/noise"
	"github.com/cwbudde/algo-tinnitus/notch"
)

// DefaultVolume is the initial per-ear playback gain.
const DefaultVolume = 0.7

// Option configures a Player.
type Option func(*Player)

// WithColor selects the masking noise color.
func WithColor(c noise.Color) Option {
	return func(p *Player) {
		p.color = c
	}
}

// WithNotch sets the initial notch specification.
func WithNotch(spec notch.Spec) Option {
	return func(p *Player) {
		p.spec = spec
	}
}

// WithSeed sets the noise generation seed.
func WithSeed(seed int64) Option {
	return func(p *Player) {
		p.seed = seed
	}
}

// WithVolume sets the initial playback gain.
func WithVolume(v float64) Option {
	return func(p *Player) {
		if v >= 0 {
			p.volume = v
		}
	}
}

// Player owns the therapy playback chain. It exclusively owns the audio
// sessions it creates; Stop destroys them.
type Player struct {
	audio *engine.Engine

	color  noise.Color
	spec   notch.Spec
	seed   int64
	volume float64

	banks    []*notch.Bank
	sessions []*engine.Session
	paused   bool
}

// New creates a player against the given audio engine.
func New(audio *engine.Engine, opts ...Option) *Player {
	p := &Player{
		audio:  audio,
		color:  noise.Pink,
		spec:   notch.Spec{CenterHz: 4000, Width: notch.Octaves(1)},
		seed:   1,
		volume: DefaultVolume,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Color returns the selected noise color.
func (p *Player) Color() noise.Color {
	return p.color
}

// NotchSpec returns the current notch specification.
func (p *Player) NotchSpec() notch.Spec {
	return p.spec
}

// IsPlaying reports whether the playback chain is active and audible.
func (p *Player) IsPlaying() bool {
	return len(p.sessions) > 0 && !p.paused
}

// Start builds the playback chain and begins rendering. Resuming from
// Pause reuses the existing chain. On an inert engine it is a silent
// no-op; only genuine allocation failures are surfaced.
func (p *Player) Start() error {
	if len(p.sessions) > 0 {
		if p.paused {
			p.paused = false

			for _, s := range p.sessions {
				s.Play()
			}
		}

		return nil
	}

	if p.audio == nil || !p.audio.Enabled() {
		return nil
	}

	cfg := p.audio.Config()

	gen, err := noise.NewGenerator(cfg.SampleRate, noise.WithSeed(p.seed))
	if err != nil {
		return fmt.Errorf("therapy: create noise generator: %w", err)
	}

	buf, err := gen.Buffer(p.color, 2)
	if err != nil {
		return fmt.Errorf("therapy: generate %s noise: %w", p.color, err)
	}

	pans := []float64{-1, 1}

	for ch := 0; ch < 2; ch++ {
		loop, err := noise.NewLoop(buf, ch)
		if err != nil {
			p.Stop()

			return fmt.Errorf("therapy: create loop: %w", err)
		}

		bank, err := notch.New(cfg.SampleRate, p.spec)
		if err != nil {
			p.Stop()

			return fmt.Errorf("therapy: create notch bank: %w", err)
		}

		sess, err := p.audio.NewSession(loop, bank)
		if err != nil {
			p.Stop()

			return fmt.Errorf("therapy: create session: %w", err)
		}

		sess.Gain().SetValue(p.volume)
		sess.Panner().SetPan(pans[ch])
		sess.Play()

		p.banks = append(p.banks, bank)
		p.sessions = append(p.sessions, sess)
	}

	p.paused = false

	return nil
}

// Pause silences playback without releasing the chain. Idempotent.
func (p *Player) Pause() {
	if len(p.sessions) == 0 {
		return
	}

	p.paused = true

	for _, s := range p.sessions {
		s.Pause()
	}
}

// Stop tears down the playback chain. Safe to call repeatedly.
func (p *Player) Stop() {
	for _, s := range p.sessions {
		s.Close()
	}

	p.sessions = nil
	p.banks = nil
	p.paused = false
}

// SetNotch retunes both ears' notch banks while playing. The transition
// is smoothed by the banks themselves.
func (p *Player) SetNotch(centerHz float64, width notch.Width) {
	p.spec = notch.Spec{CenterHz: centerHz, Width: width}

	for _, b := range p.banks {
		b.Update(centerHz, width)
	}
}

// SetColor switches the masking color. A running chain is rebuilt with
// the new seed buffers.
func (p *Player) SetColor(c noise.Color) error {
	p.color = c

	if len(p.sessions) == 0 {
		return nil
	}

	p.Stop()

	return p.Start()
}

// SetVolume posts a new per-ear gain; the change ramps.
func (p *Player) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}

	p.volume = v

	for _, s := range p.sessions {
		s.Gain().SetValue(v)
	}
}
