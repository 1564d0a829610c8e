package engine

import "sync/atomic"

// SessionState describes the lifecycle of a Session.
type SessionState int32

// Session lifecycle states.
const (
	SessionIdle SessionState = iota
	SessionPlaying
	SessionPaused
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case SessionPlaying:
		return "playing"
	case SessionPaused:
		return "paused"
	default:
		return "idle"
	}
}

// Session groups a source with an optional processor chain, a gain and a
// panner, and mixes the result into the engine's master bus while playing.
//
// A session is exclusively owned by the component that created it. Close
// disconnects it from the master bus permanently; a closed session cannot
// be restarted.
type Session struct {
	eng    *Engine
	src    Generator
	procs  []Processor
	gain   *Gain
	pan    *Panner
	state  atomic.Int32
	closed atomic.Bool

	scratch []float64
}

// Gain returns the session's gain node.
func (s *Session) Gain() *Gain {
	if s == nil {
		return nil
	}

	return s.gain
}

// Panner returns the session's panner node.
func (s *Session) Panner() *Panner {
	if s == nil {
		return nil
	}

	return s.pan
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	if s == nil {
		return SessionIdle
	}

	return SessionState(s.state.Load())
}

// Play connects the session to the master bus and starts contributing
// audio. Resuming from Paused reuses the existing nodes; calling Play on
// a session that is already playing is a no-op.
func (s *Session) Play() {
	if s == nil || s.closed.Load() {
		return
	}

	prev := SessionState(s.state.Load())
	s.state.Store(int32(SessionPlaying))

	if prev == SessionIdle {
		s.eng.ConnectToMaster(s)
	}
}

// Pause silences the session without releasing its nodes. Idempotent.
func (s *Session) Pause() {
	if s == nil || s.closed.Load() {
		return
	}

	if SessionState(s.state.Load()) == SessionPlaying {
		s.state.Store(int32(SessionPaused))
	}
}

// Close disconnects the session from the master bus and retires it.
// Safe to call repeatedly. The owner is expected to drop its reference
// afterwards; in-flight rendering of the current block finishes silently.
func (s *Session) Close() {
	if s == nil {
		return
	}

	if s.closed.Swap(true) {
		return
	}

	s.state.Store(int32(SessionIdle))
	s.eng.Disconnect(s)
}

// render accumulates one block into left and right. Rendering path only.
func (s *Session) render(left, right []float64) {
	if SessionState(s.state.Load()) != SessionPlaying {
		return
	}

	mono := s.scratch[:len(left)]

	s.src.Generate(mono)

	for _, p := range s.procs {
		p.Process(mono)
	}

	s.gain.Process(mono)
	s.pan.AddTo(mono, left, right)
}
