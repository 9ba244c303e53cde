package capability

import (
	"fmt"

	"github.com/glyphterm/glyph/internal/platform"
)

// Func is the boundary procedure exposed to the scripting runtime. Arguments
// arrive already exported from the runtime's dynamic values; the adapter in
// internal/script owns that conversion so providers never see runtime types.
type Func func(args []interface{}) (interface{}, error)

// Entry is a single namespace binding: a callable or a constant value.
type Entry struct {
	Fn    Func
	Const interface{}
}

// IsFunc reports whether the entry is callable.
func (e Entry) IsFunc() bool { return e.Fn != nil }

// Module is a self-contained unit of native functionality contributing a
// disjoint set of qualified names to the namespace.
type Module interface {
	// Name is the unique module identifier, used as the first segment of
	// every qualified name the module binds.
	Name() string

	// Platforms returns the set of platforms the module supports.
	Platforms() platform.Mask

	// Register binds the module's functions and constants. A returned error
	// aborts the whole registration pass.
	Register(b *Binder) error
}

// DuplicateNameError reports a qualified-name collision between two modules.
// This is a fatal registration error: it indicates an inconsistency between
// compiled-in modules, not a user mistake.
type DuplicateNameError struct {
	QualifiedName string
	First         string
	Second        string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate capability name %q: registered by module %q, re-registered by module %q",
		e.QualifiedName, e.First, e.Second)
}

// Resolve filters modules down to those eligible on platform p, preserving
// input order. Modules masked Any are always eligible. Resolution cannot
// fail; an empty result is a valid (degenerate) namespace.
func Resolve(p platform.Platform, mods []Module) []Module {
	eligible := make([]Module, 0, len(mods))
	for _, m := range mods {
		if m.Platforms().On(p) {
			eligible = append(eligible, m)
		}
	}
	return eligible
}
