package engine

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNilSource is returned when a session is requested without a source.
var ErrNilSource = errors.New("engine: session source must not be nil")

// Engine is the sole owner of the platform rendering context and the
// master output bus. All primitive nodes are created through it.
//
// Init is lazy and idempotent. When the platform audio facility is
// unavailable the engine becomes inert: factories return nil and Enabled
// reports false, but nothing panics; absence of audio access is an
// expected runtime state.
type Engine struct {
	cfg     Config
	backend Backend

	mu     sync.Mutex
	inited bool
	inert  bool

	master  *Param
	sources atomic.Pointer[[]*Session]
}

// New creates an engine using the given backend. A nil backend selects
// the platform default (oto). The rendering context is not created until
// Init, which should be reached from a user-interaction call path on
// platforms that require a gesture before audio starts.
func New(backend Backend, opts ...Option) *Engine {
	cfg := ApplyOptions(opts...)

	e := &Engine{
		cfg:     cfg,
		backend: backend,
		master:  newParam(1, cfg.SampleRate),
	}

	empty := make([]*Session, 0)
	e.sources.Store(&empty)

	return e
}

// Config returns the engine's rendering configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Init creates and starts the rendering context. Idempotent; returns
// whether the engine is usable. On backend failure the engine degrades
// to an inert state instead of returning an error.
func (e *Engine) Init() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inited {
		return !e.inert
	}

	e.inited = true

	if e.backend == nil {
		e.backend = NewOtoBackend()
	}

	r := &renderReader{eng: e}
	if err := e.backend.Start(r, int(e.cfg.SampleRate)); err != nil {
		e.inert = true

		return false
	}

	return true
}

// Enabled reports whether the engine has a working rendering context.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.inited && !e.inert
}

// Close shuts down the rendering context and disconnects all sources.
// Safe to call repeatedly.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	empty := make([]*Session, 0)
	e.sources.Store(&empty)

	if e.backend == nil || !e.inited || e.inert {
		return nil
	}

	return e.backend.Close()
}

// NewOscillator creates a tone generator. The frequency is applied as an
// immediate value so the starting pitch is deterministic; zero or
// negative values select DefaultOscillatorHz. Returns nil when the
// engine is inert.
func (e *Engine) NewOscillator(freqHz float64, w Waveform) *Oscillator {
	if !e.Enabled() {
		return nil
	}

	if freqHz <= 0 {
		freqHz = DefaultOscillatorHz
	}

	o := &Oscillator{
		freq:       newParam(Clamp(freqHz, MinOscillatorHz, MaxOscillatorHz), e.cfg.SampleRate),
		wave:       w,
		sampleRate: e.cfg.SampleRate,
	}

	return o
}

// NewGain creates a gain node. Negative values represent polarity
// inversion. Returns nil when the engine is inert.
func (e *Engine) NewGain(value float64) *Gain {
	if !e.Enabled() {
		return nil
	}

	return &Gain{value: newParam(value, e.cfg.SampleRate)}
}

// NewPanner creates a stereo panner with pan in [-1, 1]. Returns nil when
// the engine is inert.
func (e *Engine) NewPanner(pan float64) *Panner {
	if !e.Enabled() {
		return nil
	}

	return &Panner{pan: newParam(Clamp(pan, -1, 1), e.cfg.SampleRate)}
}

// NewAnalyzer creates a frequency-domain tap. An invalid FFT size is the
// one genuine allocation failure surfaced to the caller. Returns nil, nil
// when the engine is inert.
func (e *Engine) NewAnalyzer(fftSize int) (*Analyzer, error) {
	if !e.Enabled() {
		return nil, nil
	}

	return newAnalyzer(fftSize, e.cfg.SampleRate)
}

// NewSession groups a source and optional processors with a fresh gain
// and panner. The session starts idle; Play connects it to the master
// bus. Returns nil, nil when the engine is inert.
func (e *Engine) NewSession(src Generator, procs ...Processor) (*Session, error) {
	if !e.Enabled() {
		return nil, nil
	}

	if src == nil {
		return nil, ErrNilSource
	}

	s := &Session{
		eng:     e,
		src:     src,
		procs:   procs,
		gain:    &Gain{value: newParam(1, e.cfg.SampleRate)},
		pan:     &Panner{pan: newParam(0, e.cfg.SampleRate)},
		scratch: make([]float64, e.cfg.BlockSize),
	}

	return s, nil
}

// SetMasterVolume posts a new master volume. The change always ramps over
// the glide window; it never jumps.
func (e *Engine) SetMasterVolume(v float64) {
	if v < 0 {
		v = 0
	}

	e.master.Set(v)
}

// MasterVolume returns the most recently posted master volume target.
func (e *Engine) MasterVolume() float64 {
	return e.master.Target()
}

// ConnectToMaster adds a session to the master mix. Connecting an already
// connected session is a no-op.
func (e *Engine) ConnectToMaster(s *Session) {
	if s == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := *e.sources.Load()
	for _, existing := range cur {
		if existing == s {
			return
		}
	}

	next := make([]*Session, len(cur)+1)
	copy(next, cur)
	next[len(cur)] = s
	e.sources.Store(&next)
}

// Disconnect removes a session from the master mix. Unknown sessions are
// ignored.
func (e *Engine) Disconnect(s *Session) {
	if s == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := *e.sources.Load()

	next := make([]*Session, 0, len(cur))
	for _, existing := range cur {
		if existing != s {
			next = append(next, existing)
		}
	}

	e.sources.Store(&next)
}

// SourceCount returns the number of sessions connected to the master bus.
func (e *Engine) SourceCount() int {
	return len(*e.sources.Load())
}

// renderBlock mixes all connected sessions into left and right, applies
// the ramped master volume and clamps to [-1, 1]. Rendering path only.
func (e *Engine) renderBlock(left, right []float64) {
	for i := range left {
		left[i] = 0
		right[i] = 0
	}

	for _, s := range *e.sources.Load() {
		s.render(left, right)
	}

	for i := range left {
		m := e.master.Step()
		left[i] = Clamp(left[i]*m, -1, 1)
		right[i] = Clamp(right[i]*m, -1, 1)
	}
}
