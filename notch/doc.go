// Package notch removes energy around a target frequency by cascading
// several identical narrow-reject biquad stages.
//
// A single second-order notch has shallow skirts; running three or four
// identical stages in series sharpens the rejection band without
// narrowing the effective bandwidth to zero. A [Bank] accepts live
// retuning while audio is rendering: posted center/width targets glide
// over a short ramp and the stage delay lines are preserved across
// coefficient updates, so changes never click.
package notch
