// Package capability defines the host function surface exposed to scripts.
//
// A Module contributes named functions and constants through a Binder, which
// qualifies every name with the module name ("battery.info"). Bindings land
// in a Namespace that is sealed before any script runs; a qualified name can
// be bound exactly once, and a second binding fails registration with both
// owners attributed.
//
// Resolve filters a module list against the running platform so that
// platform-specific modules never register where they cannot work.
package capability
