package sweep

import (
	"math"
	"time"

	"github.com/cwbudde/algo-tinnitus/confidence"
	"github.com/cwbudde/algo-tinnitus/engine"
)

// State describes the sweep lifecycle.
type State int

// Sweep states. Stop returns the machine to Idle; Completed is entered
// when the frequency reaches the end of the range.
const (
	Idle State = iota
	Running
	Paused
	Completed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "idle"
	}
}

// Ear selects which ear the sweep tone plays in. It only affects the
// panner position, never the sweep timing.
type Ear int

// Ear choices.
const (
	EarBoth Ear = iota
	EarLeft
	EarRight
)

// Pan returns the stereo position for the ear.
func (e Ear) Pan() float64 {
	switch e {
	case EarLeft:
		return -1
	case EarRight:
		return 1
	default:
		return 0
	}
}

// String returns the ear name.
func (e Ear) String() string {
	switch e {
	case EarLeft:
		return "left"
	case EarRight:
		return "right"
	default:
		return "both"
	}
}

// Speed presets in Hz per second.
const (
	SpeedSlow   = 50.0
	SpeedMedium = 100.0
	SpeedFast   = 200.0
)

// Default sweep range in Hz.
const (
	DefaultStartHz = 1000.0
	DefaultEndHz   = 12000.0
)

// Config holds the sweep parameters.
type Config struct {
	StartHz       float64
	EndHz         float64
	SpeedHzPerSec float64
	Ear           Ear
	Waveform      engine.Waveform
}

// Match is the confirmed outcome of a sweep session, handed to whatever
// persistence collaborator the application provides.
type Match struct {
	FrequencyHz float64
	Ear         Ear
	Confidence  int
}

// Option configures a sweep Engine.
type Option func(*Engine)

// WithRange sets the sweep bounds in Hz. An inverted or degenerate range
// is silently clamped to a minimally valid one.
func WithRange(startHz, endHz float64) Option {
	return func(s *Engine) {
		s.cfg.StartHz = startHz
		s.cfg.EndHz = endHz
	}
}

// WithSpeed sets the sweep rate in Hz per second.
func WithSpeed(hzPerSec float64) Option {
	return func(s *Engine) {
		s.cfg.SpeedHzPerSec = hzPerSec
	}
}

// WithEar selects the playback ear.
func WithEar(ear Ear) Option {
	return func(s *Engine) {
		s.cfg.Ear = ear
	}
}

// WithWaveform selects the sweep tone shape.
func WithWaveform(w engine.Waveform) Option {
	return func(s *Engine) {
		s.cfg.Waveform = w
	}
}

// WithClock injects the time source used to anchor ticks. Defaults to
// time.Now; tests supply a synthetic clock.
func WithClock(now func() time.Time) Option {
	return func(s *Engine) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOnMark registers a callback fired whenever a frequency is marked,
// for feedback collaborators such as haptics or accessibility cues.
func WithOnMark(fn func(frequencyHz float64, matchCount int)) Option {
	return func(s *Engine) {
		s.onMark = fn
	}
}

// Engine is the guided-sweep state machine. All methods are intended to
// be called from a single goroutine (the UI/host loop); audio parameter
// changes are forwarded through the audio engine's smoothed update path.
type Engine struct {
	audio *engine.Engine
	cfg   Config

	state   State
	current float64
	last    time.Time

	session *engine.Session
	osc     *engine.Oscillator

	matches []float64
	now     func() time.Time
	onMark  func(float64, int)
}

// New creates a sweep engine against the given audio engine. Invalid
// ranges and speeds are clamped, not rejected: the therapy flow keeps
// functioning on odd input.
func New(audio *engine.Engine, opts ...Option) *Engine {
	s := &Engine{
		audio: audio,
		cfg: Config{
			StartHz:       DefaultStartHz,
			EndHz:         DefaultEndHz,
			SpeedHzPerSec: SpeedMedium,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.cfg.StartHz = engine.Clamp(s.cfg.StartHz, engine.MinOscillatorHz, engine.MaxOscillatorHz)
	s.cfg.EndHz = engine.Clamp(s.cfg.EndHz, engine.MinOscillatorHz, engine.MaxOscillatorHz)

	if s.cfg.StartHz >= s.cfg.EndHz {
		if s.cfg.StartHz >= engine.MaxOscillatorHz {
			s.cfg.StartHz = engine.MaxOscillatorHz - 1
		}

		s.cfg.EndHz = s.cfg.StartHz + 1
	}

	if s.cfg.SpeedHzPerSec <= 0 {
		s.cfg.SpeedHzPerSec = SpeedMedium
	}

	s.current = s.cfg.StartHz

	return s
}

// Config returns the clamped sweep configuration.
func (s *Engine) Config() Config {
	return s.cfg
}

// State returns the current lifecycle state.
func (s *Engine) State() State {
	return s.state
}

// IsRunning reports whether the sweep is advancing.
func (s *Engine) IsRunning() bool {
	return s.state == Running
}

// IsPaused reports whether the sweep is frozen mid-range.
func (s *Engine) IsPaused() bool {
	return s.state == Paused
}

// CurrentHz returns the instantaneous sweep frequency.
func (s *Engine) CurrentHz() float64 {
	return s.current
}

// Session returns the audio session owned by the running sweep, or nil.
func (s *Engine) Session() *engine.Session {
	return s.session
}

// Matches returns a copy of the marked frequencies in mark order.
func (s *Engine) Matches() []float64 {
	out := make([]float64, len(s.matches))
	copy(out, s.matches)

	return out
}

// MatchCount returns the number of marked frequencies.
func (s *Engine) MatchCount() int {
	return len(s.matches)
}

// Confidence scores the consistency of the current match set.
func (s *Engine) Confidence() int {
	return confidence.Score(s.matches)
}

// Start launches a sweep from Idle or resumes one from Paused.
//
// From Idle it allocates a fresh audio session at the start frequency
// (applied immediately, so the first audible pitch is deterministic) and
// anchors the tick timestamp. From Paused it only clears the paused flag
// and re-anchors the timestamp: the existing nodes are reused, so there
// is no restart click and no duplicate allocation. Calling Start while
// already running is a no-op, as is Start from Completed (Reset first).
func (s *Engine) Start() bool {
	switch s.state {
	case Running, Completed:
		return false

	case Paused:
		s.state = Running
		s.last = s.now()
		s.session.Play()

		return true
	}

	// Launching a new sweep discards marks from the previous one.
	s.matches = nil
	s.current = s.cfg.StartHz

	if s.audio != nil && s.audio.Enabled() {
		osc := s.audio.NewOscillator(s.current, s.cfg.Waveform)

		sess, err := s.audio.NewSession(osc)
		if err == nil && sess != nil {
			sess.Panner().SetPan(s.cfg.Ear.Pan())
			sess.Play()

			s.osc = osc
			s.session = sess
		}
	}

	s.last = s.now()
	s.state = Running

	return true
}

// Tick advances the sweep by the wall time elapsed since the previous
// anchor and posts the new frequency as a smoothed update. It returns
// whether the host loop should schedule another tick. Ticks arriving
// while not running are stale and ignored.
func (s *Engine) Tick(now time.Time) bool {
	if s.state != Running {
		return false
	}

	delta := now.Sub(s.last).Seconds()
	if delta < 0 {
		delta = 0
	}

	s.current += s.cfg.SpeedHzPerSec * delta
	s.last = now

	if s.current >= s.cfg.EndHz {
		// Clamp exactly at the end of the range. The session keeps
		// sounding the final tone so the user can still confirm; it is
		// torn down by Stop or Reset.
		s.current = s.cfg.EndHz
		s.osc.SetFrequency(s.current)
		s.state = Completed

		return false
	}

	s.osc.SetFrequency(s.current)

	return true
}

// Pause freezes the sweep and silences its session. Idempotent; a stale
// pause while not running is ignored.
func (s *Engine) Pause() {
	if s.state != Running {
		return
	}

	s.state = Paused
	s.session.Pause()
}

// Stop tears down the audio session and returns to Idle. Safe to call
// repeatedly; no tick fires against the released session afterwards.
func (s *Engine) Stop() {
	if s.session != nil {
		s.session.Close()
	}

	s.session = nil
	s.osc = nil
	s.state = Idle
}

// Reset stops the sweep, clears the match set and rewinds the frequency
// to the start of the range.
func (s *Engine) Reset() {
	s.Stop()

	s.matches = nil
	s.current = s.cfg.StartHz
}

// MarkFrequency records the current frequency (rounded to whole Hz) in
// the match set and fires the match-recorded callback. Marks are only
// accepted while running; stale calls return false. Marking never
// disturbs the sweep trajectory.
func (s *Engine) MarkFrequency() (float64, bool) {
	if s.state != Running {
		return 0, false
	}

	v := math.Round(s.current)
	s.matches = append(s.matches, v)

	if s.onMark != nil {
		s.onMark(v, len(s.matches))
	}

	return v, true
}

// Confirm summarizes the match set into a Match for the persistence
// collaborator: the mean marked frequency, the sweep ear and the
// confidence score. Returns false when nothing was marked.
func (s *Engine) Confirm() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}

	sum := 0.0
	for _, v := range s.matches {
		sum += v
	}

	return Match{
		FrequencyHz: math.Round(sum / float64(len(s.matches))),
		Ear:         s.cfg.Ear,
		Confidence:  s.Confidence(),
	}, true
}
