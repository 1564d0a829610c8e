// Package sweep advances a tone continuously between two frequencies so
// a user can identify the pitch that matches their tinnitus by ear.
//
// The sweep is a cooperative, time-integrated state machine: the host
// loop (timer, animation callback, ticker) calls Tick with the current
// instant, and the engine integrates frequency from the elapsed delta.
// Scheduling stays outside the package; Tick's return value tells the
// host whether to reschedule. Marked frequencies accumulate in a match
// set whose consistency is scored by the confidence package.
package sweep
