package noise

import "errors"

// ErrInvalidChannel is returned when a loop is requested for a channel
// the buffer does not have.
var ErrInvalidChannel = errors.New("noise: channel out of range")

// Loop replays one buffer channel endlessly. It satisfies the engine's
// Generator contract, so a loop can source a playback session directly.
type Loop struct {
	data []float64
	pos  int
}

// NewLoop creates a loop over the given buffer channel.
func NewLoop(buf *Buffer, channel int) (*Loop, error) {
	if buf == nil || channel < 0 || channel >= len(buf.Channels) || len(buf.Channels[channel]) == 0 {
		return nil, ErrInvalidChannel
	}

	return &Loop{data: buf.Channels[channel]}, nil
}

// Generate fills dst with the next block, wrapping at the buffer end.
func (l *Loop) Generate(dst []float64) {
	for i := range dst {
		dst[i] = l.data[l.pos]

		l.pos++
		if l.pos == len(l.data) {
			l.pos = 0
		}
	}
}
