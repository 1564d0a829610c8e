package therapy

import (
	"testing"

	"github.com/cwbudde/algo-tinnitus/engine"
	"github.com/cwbudde/algo-tinnitus/noise"
	"github.com/cwbudde/algo-tinnitus/notch"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	audio := engine.New(engine.NewNullBackend())
	if !audio.Init() {
		t.Fatal("engine with null backend failed to init")
	}

	return audio
}

func TestNew_Defaults(t *testing.T) {
	p := New(newTestEngine(t))

	if got := p.Color(); got != noise.Pink {
		t.Errorf("default color = %v, want pink", got)
	}

	spec := p.NotchSpec()
	if spec.CenterHz != 4000 || spec.Width.Kind != notch.OctaveWidth || spec.Width.Value != 1 {
		t.Errorf("default spec = %+v, want 4000 Hz, one octave", spec)
	}

	if p.IsPlaying() {
		t.Error("fresh player reports playing")
	}
}

func TestStartStop_Lifecycle(t *testing.T) {
	audio := newTestEngine(t)
	p := New(audio)

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if !p.IsPlaying() {
		t.Fatal("player not playing after Start")
	}

	// One session per ear.
	if got := audio.SourceCount(); got != 2 {
		t.Fatalf("SourceCount = %d, want 2", got)
	}

	// Starting again while playing is a no-op.
	if err := p.Start(); err != nil {
		t.Fatalf("repeated Start: %v", err)
	}

	if got := audio.SourceCount(); got != 2 {
		t.Fatalf("SourceCount after repeated Start = %d, want 2", got)
	}

	p.Stop()
	p.Stop()

	if p.IsPlaying() {
		t.Error("player still playing after Stop")
	}

	if got := audio.SourceCount(); got != 0 {
		t.Errorf("SourceCount after Stop = %d, want 0", got)
	}
}

func TestPauseResume_ReusesChain(t *testing.T) {
	audio := newTestEngine(t)
	p := New(audio)

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	p.Pause()

	if p.IsPlaying() {
		t.Error("player reports playing while paused")
	}

	// Paused sessions stay connected.
	if got := audio.SourceCount(); got != 2 {
		t.Fatalf("SourceCount while paused = %d, want 2", got)
	}

	if err := p.Start(); err != nil {
		t.Fatalf("resume: %v", err)
	}

	if !p.IsPlaying() {
		t.Error("player not playing after resume")
	}

	if got := audio.SourceCount(); got != 2 {
		t.Fatalf("SourceCount after resume = %d, want 2 (chain rebuilt?)", got)
	}
}

func TestPause_BeforeStartIsNoOp(t *testing.T) {
	p := New(newTestEngine(t))

	p.Pause()

	if p.IsPlaying() {
		t.Error("paused idle player reports playing")
	}

	if err := p.Start(); err != nil {
		t.Fatalf("Start after stray Pause: %v", err)
	}

	if !p.IsPlaying() {
		t.Error("player not playing")
	}
}

func TestSetNotch_UpdatesSpec(t *testing.T) {
	p := New(newTestEngine(t))

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	p.SetNotch(6000, notch.Hertz(300))

	spec := p.NotchSpec()
	if spec.CenterHz != 6000 || spec.Width.Kind != notch.HertzWidth || spec.Width.Value != 300 {
		t.Fatalf("spec after SetNotch = %+v", spec)
	}

	for i, b := range p.banks {
		got := b.Spec()
		if got.CenterHz != 6000 || got.Width != notch.Hertz(300) {
			t.Errorf("bank %d spec = %+v, want retuned", i, got)
		}

		if b.Stages() != notch.DefaultStages {
			t.Errorf("bank %d stage count changed on retune", i)
		}
	}
}

func TestSetColor_RebuildsRunningChain(t *testing.T) {
	audio := newTestEngine(t)
	p := New(audio)

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	first := p.sessions[0]

	if err := p.SetColor(noise.Brown); err != nil {
		t.Fatalf("SetColor: %v", err)
	}

	if got := p.Color(); got != noise.Brown {
		t.Errorf("Color = %v, want brown", got)
	}

	if !p.IsPlaying() {
		t.Fatal("player stopped by SetColor")
	}

	if got := audio.SourceCount(); got != 2 {
		t.Fatalf("SourceCount after SetColor = %d, want 2", got)
	}

	if p.sessions[0] == first {
		t.Error("SetColor kept the old sessions")
	}
}

func TestSetColor_WhileStoppedDefersRebuild(t *testing.T) {
	audio := newTestEngine(t)
	p := New(audio)

	if err := p.SetColor(noise.White); err != nil {
		t.Fatalf("SetColor: %v", err)
	}

	if got := audio.SourceCount(); got != 0 {
		t.Fatalf("SetColor while stopped created sessions: %d", got)
	}

	if got := p.Color(); got != noise.White {
		t.Errorf("Color = %v, want white", got)
	}
}

func TestSetVolume_PropagatesToSessions(t *testing.T) {
	p := New(newTestEngine(t), WithVolume(0.5))

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i, s := range p.sessions {
		if got := s.Gain().Value(); got != 0.5 {
			t.Errorf("session %d gain = %v, want 0.5", i, got)
		}
	}

	p.SetVolume(0.2)

	for i, s := range p.sessions {
		if got := s.Gain().Value(); got != 0.2 {
			t.Errorf("session %d gain after SetVolume = %v, want 0.2", i, got)
		}
	}

	p.SetVolume(-1)

	for i, s := range p.sessions {
		if got := s.Gain().Value(); got != 0 {
			t.Errorf("session %d gain after negative SetVolume = %v, want 0", i, got)
		}
	}
}

func TestStart_PansSessionsHardLeftAndRight(t *testing.T) {
	p := New(newTestEngine(t))

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := p.sessions[0].Panner().Pan(); got != -1 {
		t.Errorf("left session pan = %v, want -1", got)
	}

	if got := p.sessions[1].Panner().Pan(); got != 1 {
		t.Errorf("right session pan = %v, want 1", got)
	}
}

func TestStart_InertEngineIsSilentNoOp(t *testing.T) {
	audio := engine.New(engine.NewNullBackend())
	// Init never called: the engine is not enabled.
	p := New(audio)

	if err := p.Start(); err != nil {
		t.Fatalf("Start on inert engine: %v", err)
	}

	if p.IsPlaying() {
		t.Error("inert player reports playing")
	}

	p.SetNotch(6000, notch.Octaves(1))
	p.SetVolume(0.3)
	p.Pause()
	p.Stop()
}

func TestStart_NilEngine(t *testing.T) {
	p := New(nil)

	if err := p.Start(); err != nil {
		t.Fatalf("Start with nil engine: %v", err)
	}

	if p.IsPlaying() {
		t.Error("nil-engine player reports playing")
	}
}
