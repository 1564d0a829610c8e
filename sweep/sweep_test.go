package sweep

import (
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-tinnitus/engine"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)

	return c.t
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	audio := engine.New(engine.NewNullBackend())
	if !audio.Init() {
		t.Fatal("engine with null backend failed to init")
	}

	return audio
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNew_ClampsConfig(t *testing.T) {
	tests := []struct {
		name               string
		opts               []Option
		wantStart, wantEnd float64
		wantSpeed          float64
	}{
		{
			name:      "defaults",
			wantStart: DefaultStartHz, wantEnd: DefaultEndHz, wantSpeed: SpeedMedium,
		},
		{
			name:      "range below oscillator floor",
			opts:      []Option{WithRange(10, 50)},
			wantStart: 100, wantEnd: 101, wantSpeed: SpeedMedium,
		},
		{
			name:      "inverted range",
			opts:      []Option{WithRange(5000, 2000)},
			wantStart: 5000, wantEnd: 5001, wantSpeed: SpeedMedium,
		},
		{
			name:      "range above oscillator ceiling",
			opts:      []Option{WithRange(20000, 30000)},
			wantStart: engine.MaxOscillatorHz - 1, wantEnd: engine.MaxOscillatorHz, wantSpeed: SpeedMedium,
		},
		{
			name:      "non-positive speed",
			opts:      []Option{WithSpeed(-5)},
			wantStart: DefaultStartHz, wantEnd: DefaultEndHz, wantSpeed: SpeedMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil, tt.opts...)
			cfg := s.Config()

			if cfg.StartHz != tt.wantStart || cfg.EndHz != tt.wantEnd {
				t.Errorf("range = [%v, %v], want [%v, %v]",
					cfg.StartHz, cfg.EndHz, tt.wantStart, tt.wantEnd)
			}

			if cfg.SpeedHzPerSec != tt.wantSpeed {
				t.Errorf("speed = %v, want %v", cfg.SpeedHzPerSec, tt.wantSpeed)
			}
		})
	}
}

func TestTick_IntegratesElapsedTime(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t), WithSpeed(100), WithClock(clock.Now))

	s.Start()
	s.Tick(clock.Advance(time.Second))

	if got := s.CurrentHz(); !almostEqual(got, 1100, 1e-9) {
		t.Fatalf("after 1 s at 100 Hz/s: CurrentHz = %v, want 1100", got)
	}
}

func TestTick_SplitTicksMatchSingleTick(t *testing.T) {
	// Integration depends on total elapsed time, not tick granularity.
	single := newFakeClock()
	a := New(newTestEngine(t), WithSpeed(100), WithClock(single.Now))
	a.Start()
	a.Tick(single.Advance(time.Second))

	split := newFakeClock()
	b := New(newTestEngine(t), WithSpeed(100), WithClock(split.Now))
	b.Start()
	b.Tick(split.Advance(500 * time.Millisecond))
	b.Tick(split.Advance(500 * time.Millisecond))

	if !almostEqual(a.CurrentHz(), b.CurrentHz(), 1e-9) {
		t.Fatalf("single tick = %v Hz, split ticks = %v Hz", a.CurrentHz(), b.CurrentHz())
	}
}

func TestTick_CompletesExactlyAtEnd(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t),
		WithRange(1000, 12000),
		WithSpeed(100),
		WithClock(clock.Now),
	)

	s.Start()

	if more := s.Tick(clock.Advance(110 * time.Second)); more {
		t.Error("Tick at the end of the range should not request another tick")
	}

	if s.State() != Completed {
		t.Errorf("state = %v, want completed", s.State())
	}

	if got := s.CurrentHz(); got != 12000 {
		t.Errorf("CurrentHz = %v, want exactly 12000", got)
	}
}

func TestTick_ClampsOvershoot(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t),
		WithRange(1000, 2000),
		WithSpeed(200),
		WithClock(clock.Now),
	)

	s.Start()
	s.Tick(clock.Advance(time.Hour))

	if got := s.CurrentHz(); got != 2000 {
		t.Fatalf("overshoot not clamped: CurrentHz = %v, want 2000", got)
	}
}

func TestTick_IgnoredWhileNotRunning(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t), WithClock(clock.Now))

	if s.Tick(clock.Advance(time.Second)) {
		t.Error("Tick while idle should report no reschedule")
	}

	if got := s.CurrentHz(); got != DefaultStartHz {
		t.Errorf("idle tick moved frequency to %v", got)
	}
}

func TestPauseResume_NoElapsedTimeNoChange(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t), WithSpeed(100), WithClock(clock.Now))

	s.Start()
	s.Tick(clock.Advance(2 * time.Second))

	before := s.CurrentHz()

	s.Pause()

	if !s.IsPaused() {
		t.Fatal("Pause did not enter paused state")
	}

	// Resume at the same instant: the anchor moves, the frequency must not.
	s.Start()
	s.Tick(clock.Now())

	if got := s.CurrentHz(); !almostEqual(got, before, 1e-9) {
		t.Fatalf("zero-time pause/resume moved frequency: %v -> %v", before, got)
	}
}

func TestPauseResume_PausedTimeDoesNotAdvance(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t), WithSpeed(100), WithClock(clock.Now))

	s.Start()
	s.Tick(clock.Advance(time.Second))
	s.Pause()

	// Time passing while paused must not count toward the sweep.
	clock.Advance(time.Minute)

	s.Start()
	s.Tick(clock.Advance(time.Second))

	if got := s.CurrentHz(); !almostEqual(got, 1200, 1e-9) {
		t.Fatalf("CurrentHz = %v, want 1200 (paused minute must not count)", got)
	}
}

func TestStart_DoubleStartKeepsSingleSession(t *testing.T) {
	audio := newTestEngine(t)
	s := New(audio, WithClock(newFakeClock().Now))

	if !s.Start() {
		t.Fatal("first Start returned false")
	}

	first := s.Session()
	if first == nil {
		t.Fatal("running sweep has no session")
	}

	if s.Start() {
		t.Error("second Start while running returned true")
	}

	if s.Session() != first {
		t.Error("second Start replaced the session")
	}

	if got := audio.SourceCount(); got != 1 {
		t.Errorf("SourceCount = %d, want 1", got)
	}
}

func TestStart_FromCompletedIsNoOp(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t), WithRange(1000, 1010), WithSpeed(100), WithClock(clock.Now))

	s.Start()
	s.Tick(clock.Advance(time.Minute))

	if s.State() != Completed {
		t.Fatalf("state = %v, want completed", s.State())
	}

	if s.Start() {
		t.Error("Start from completed returned true; Reset is required first")
	}

	s.Reset()

	if !s.Start() {
		t.Error("Start after Reset returned false")
	}

	if got := s.CurrentHz(); got != 1000 {
		t.Errorf("after Reset: CurrentHz = %v, want 1000", got)
	}
}

func TestStop_RepeatSafeAndDisconnects(t *testing.T) {
	audio := newTestEngine(t)
	s := New(audio, WithClock(newFakeClock().Now))

	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()

	if s.State() != Idle {
		t.Errorf("state = %v, want idle", s.State())
	}

	if s.Session() != nil {
		t.Error("session not released by Stop")
	}

	if got := audio.SourceCount(); got != 0 {
		t.Errorf("SourceCount = %d, want 0 after Stop", got)
	}
}

func TestMarkFrequency_OnlyWhileRunning(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t), WithSpeed(100), WithClock(clock.Now))

	if _, ok := s.MarkFrequency(); ok {
		t.Error("mark accepted while idle")
	}

	s.Start()
	s.Tick(clock.Advance(time.Second))

	v, ok := s.MarkFrequency()
	if !ok {
		t.Fatal("mark rejected while running")
	}

	if v != 1100 {
		t.Errorf("marked %v, want 1100", v)
	}

	s.Pause()

	if _, ok := s.MarkFrequency(); ok {
		t.Error("mark accepted while paused")
	}

	if got := s.MatchCount(); got != 1 {
		t.Errorf("MatchCount = %d, want 1", got)
	}
}

func TestMarkFrequency_RoundsAndNotifies(t *testing.T) {
	clock := newFakeClock()

	var cbHz float64

	var cbCount int

	s := New(newTestEngine(t),
		WithSpeed(100),
		WithClock(clock.Now),
		WithOnMark(func(hz float64, count int) {
			cbHz = hz
			cbCount = count
		}),
	)

	s.Start()
	s.Tick(clock.Advance(333 * time.Millisecond)) // 1033.3 Hz

	v, _ := s.MarkFrequency()
	if v != 1033 {
		t.Errorf("marked %v, want rounded 1033", v)
	}

	if cbHz != 1033 || cbCount != 1 {
		t.Errorf("callback got (%v, %d), want (1033, 1)", cbHz, cbCount)
	}
}

func TestConfirm_SummarizesMatchSet(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t),
		WithSpeed(100),
		WithEar(EarLeft),
		WithClock(clock.Now),
	)

	if _, ok := s.Confirm(); ok {
		t.Fatal("Confirm with no marks returned a match")
	}

	s.Start()

	s.Tick(clock.Advance(10 * time.Second)) // 2000 Hz
	s.MarkFrequency()
	s.Tick(clock.Advance(time.Second)) // 2100 Hz
	s.MarkFrequency()

	m, ok := s.Confirm()
	if !ok {
		t.Fatal("Confirm with marks returned no match")
	}

	if m.FrequencyHz != 2050 {
		t.Errorf("FrequencyHz = %v, want mean 2050", m.FrequencyHz)
	}

	if m.Ear != EarLeft {
		t.Errorf("Ear = %v, want left", m.Ear)
	}

	if m.Confidence <= 50 {
		t.Errorf("Confidence = %d, want > 50 for a tight pair", m.Confidence)
	}
}

func TestRestart_ClearsPreviousMarks(t *testing.T) {
	clock := newFakeClock()
	s := New(newTestEngine(t), WithSpeed(100), WithClock(clock.Now))

	s.Start()
	s.Tick(clock.Advance(time.Second))
	s.MarkFrequency()
	s.Stop()

	s.Start()

	if got := s.MatchCount(); got != 0 {
		t.Fatalf("MatchCount after restart = %d, want 0", got)
	}

	if got := s.CurrentHz(); got != DefaultStartHz {
		t.Errorf("restart did not rewind: CurrentHz = %v", got)
	}
}

func TestSweep_WorksWithoutAudioDevice(t *testing.T) {
	// A nil audio engine degrades to a silent but fully functional sweep.
	clock := newFakeClock()
	s := New(nil, WithSpeed(100), WithClock(clock.Now))

	if !s.Start() {
		t.Fatal("Start failed without audio")
	}

	if s.Session() != nil {
		t.Error("silent sweep allocated a session")
	}

	s.Tick(clock.Advance(time.Second))

	if got := s.CurrentHz(); !almostEqual(got, 1100, 1e-9) {
		t.Errorf("CurrentHz = %v, want 1100", got)
	}

	if _, ok := s.MarkFrequency(); !ok {
		t.Error("mark rejected on silent sweep")
	}
}

func TestEarPan(t *testing.T) {
	tests := []struct {
		ear  Ear
		pan  float64
		name string
	}{
		{EarLeft, -1, "left"},
		{EarRight, 1, "right"},
		{EarBoth, 0, "both"},
	}

	for _, tt := range tests {
		if got := tt.ear.Pan(); got != tt.pan {
			t.Errorf("%s.Pan() = %v, want %v", tt.ear, got, tt.pan)
		}

		if got := tt.ear.String(); got != tt.name {
			t.Errorf("Ear.String() = %q, want %q", got, tt.name)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Idle, "idle"},
		{Running, "running"},
		{Paused, "paused"},
		{Completed, "completed"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
