// Package engine owns the audio rendering context and master output for
// the sound-therapy synthesis core.
//
// An [Engine] is the sole owner of the platform playback facility. All
// other components request primitive nodes through it ([Oscillator],
// [Gain], [Panner], [Analyzer]) and group them into a [Session] that is
// mixed into the master bus. Application code never drives the rendering
// path directly; it posts parameter changes through [Param], which glides
// every change over a short ramp so live updates stay click-free.
//
// Playback backends are pluggable via [Backend]. [OtoBackend] renders
// through the platform audio device; [NullBackend] keeps the full graph
// functional on machines without audio access.
package engine
