package engine

import (
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoBackend renders through the platform audio device via oto. The oto
// player pulls samples from the engine's render reader on its own
// goroutine; the engine posts parameter changes to that path atomically.
type OtoBackend struct {
	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
}

// NewOtoBackend creates an uninitialized device backend. The device is
// opened on Start.
func NewOtoBackend() *OtoBackend {
	return &OtoBackend{}
}

// Start opens the audio device and begins playback. Returns an error when
// no audio device is available; the engine treats that as a degrade to an
// inert state, not a fatal condition.
func (b *OtoBackend) Start(src io.Reader, sampleRate int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player != nil {
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return err
	}
	<-ready

	b.ctx = ctx
	b.player = ctx.NewPlayer(src)
	b.player.Play()

	return nil
}

// Close stops playback and releases the player. Safe to call repeatedly.
func (b *OtoBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player == nil {
		return nil
	}

	err := b.player.Close()
	b.player = nil

	return err
}
