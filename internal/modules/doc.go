// Package modules implements the builtin capability modules scripts call.
//
// Each module binds a small set of functions and constants under its own
// name: battery, color, fs, host, json, log, mux, procinfo, shared, spawn,
// ssh, time, and url. Builtins returns them in registration order; modules
// that depend on process state (the shared store, the mux client) take their
// dependencies through Deps.
package modules
