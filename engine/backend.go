package engine

import (
	"encoding/binary"
	"io"
	"math"
)

// Backend abstracts the platform playback facility. Start begins pulling
// interleaved stereo float32 little-endian samples from src at the given
// rate; it is called at most once per engine.
type Backend interface {
	Start(src io.Reader, sampleRate int) error
	Close() error
}

// NullBackend is a playback facility that accepts the stream and discards
// it. It keeps the full audio graph functional in tests and on headless
// machines.
type NullBackend struct {
	started bool
}

// NewNullBackend creates a discarding backend.
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

// Start records that the stream was accepted. The reader is never pulled;
// callers drive rendering explicitly where needed.
func (b *NullBackend) Start(io.Reader, int) error {
	b.started = true

	return nil
}

// Close is a no-op.
func (b *NullBackend) Close() error {
	b.started = false

	return nil
}

// Started reports whether Start has been called.
func (b *NullBackend) Started() bool {
	return b.started
}

// renderReader adapts the engine's block renderer to the io.Reader the
// backend pulls from: interleaved stereo float32 little-endian.
type renderReader struct {
	eng         *Engine
	left, right []float64
}

const bytesPerFrame = 8 // 2 channels x float32

func (r *renderReader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	block := r.eng.cfg.BlockSize
	if cap(r.left) < block {
		r.left = make([]float64, block)
		r.right = make([]float64, block)
	}

	written := 0

	for frames > 0 {
		n := frames
		if n > block {
			n = block
		}

		left := r.left[:n]
		right := r.right[:n]
		r.eng.renderBlock(left, right)

		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(p[written:], math.Float32bits(float32(left[i])))
			binary.LittleEndian.PutUint32(p[written+4:], math.Float32bits(float32(right[i])))
			written += bytesPerFrame
		}

		frames -= n
	}

	return written, nil
}
