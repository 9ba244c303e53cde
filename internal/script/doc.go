// Package script embeds the JavaScript engine that runs user startup code.
//
// Every run is bounded by a wall-clock budget and the caller's context; the
// engine interrupts long-running scripts rather than letting them wedge the
// process. Errors are classified as load, runtime, or timeout so callers can
// decide how much of the run to keep.
package script
