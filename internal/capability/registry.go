package capability

import (
	"fmt"

	"github.com/glyphterm/glyph/internal/logging"
	"go.uber.org/zap"
)

// Registry performs the one-shot registration pass that merges capability
// modules into a namespace. Registration is sequential and not safe to run
// concurrently on the same namespace; it happens once, at startup.
type Registry struct {
	log *logging.Logger
}

// NewRegistry creates a registry.
func NewRegistry(log *logging.Logger) *Registry {
	if log == nil {
		log = logging.NewNop()
	}
	return &Registry{log: log}
}

// RegisterAll registers each module in input order against ns. The first
// failure aborts the whole pass: a duplicate module or qualified name, or a
// module whose Register returns an error, is a fatal, startup-aborting
// condition. Order matters only for error attribution; the final namespace
// contents are the same for any order that succeeds.
func (r *Registry) RegisterAll(ns *Namespace, mods []Module) error {
	for _, m := range mods {
		if err := r.RegisterOne(ns, m); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOne registers a single module against ns, enforcing the same
// uniqueness invariants as RegisterAll. Used by the plugin manager so that
// plugin-contributed names collide against built-ins the same way built-ins
// collide against each other.
func (r *Registry) RegisterOne(ns *Namespace, m Module) error {
	name := m.Name()
	if name == "" {
		return fmt.Errorf("capability module with empty name")
	}
	if first, dup := ns.modules[name]; dup {
		return &DuplicateNameError{QualifiedName: name, First: first, Second: name}
	}

	before := ns.Len()
	if err := m.Register(&Binder{ns: ns, module: name}); err != nil {
		return fmt.Errorf("register module %q: %w", name, err)
	}
	ns.modules[name] = name

	r.log.Debug("registered capability module",
		zap.String("module", name),
		zap.Int("bindings", ns.Len()-before))
	return nil
}
