// Package crash writes a diagnostic artifact when the process panics.
//
// At most one artifact is written per process; recovery helpers re-panic
// after writing so a crash still crashes.
package crash
