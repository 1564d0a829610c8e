// Package noise generates loopable colored-noise seed buffers for
// therapeutic masking playback.
//
// Three colors are supported: white (flat spectrum), pink (~1/f energy
// falloff via a multi-pole shaping filter) and brown (~1/f², integrated
// white noise). Every generated sample is guaranteed to lie in [-1, 1]
// regardless of synthesis method; for brown noise the hard clamp after
// generation is the correctness guarantee against integration drift, and
// the pre-clamp gain is only a loudness tuning.
//
// Buffers hold one second of samples per channel and are looped by
// [Loop]; the single per-cycle discontinuity is inaudible because noise
// carries no pitch cue.
package noise
