package capability

import (
	"fmt"
	"sort"
	"strings"
)

// Namespace is the merged mapping from qualified name to binding. It is
// mutated only during the registration phase; Seal makes it read-only before
// any script executes.
type Namespace struct {
	entries map[string]Entry
	owner   map[string]string // qualified name -> module name
	modules map[string]string // registered module names
	sealed  bool
}

// NewNamespace creates an empty, unsealed namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		entries: make(map[string]Entry),
		owner:   make(map[string]string),
		modules: make(map[string]string),
	}
}

// Lookup returns the entry bound under the qualified name.
func (ns *Namespace) Lookup(qualified string) (Entry, bool) {
	e, ok := ns.entries[qualified]
	return e, ok
}

// Owner returns the module that bound the qualified name.
func (ns *Namespace) Owner(qualified string) (string, bool) {
	m, ok := ns.owner[qualified]
	return m, ok
}

// Names returns all qualified names in sorted order.
func (ns *Namespace) Names() []string {
	names := make([]string, 0, len(ns.entries))
	for n := range ns.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings.
func (ns *Namespace) Len() int { return len(ns.entries) }

// Seal freezes the namespace. Any bind after sealing is a programming error
// and is rejected.
func (ns *Namespace) Seal() { ns.sealed = true }

// Sealed reports whether the namespace is frozen.
func (ns *Namespace) Sealed() bool { return ns.sealed }

func (ns *Namespace) bind(module, qualified string, e Entry) error {
	if ns.sealed {
		return fmt.Errorf("namespace is sealed: module %q cannot bind %q after registration", module, qualified)
	}
	if first, exists := ns.owner[qualified]; exists {
		return &DuplicateNameError{QualifiedName: qualified, First: first, Second: module}
	}
	ns.entries[qualified] = e
	ns.owner[qualified] = module
	return nil
}

// Binder scopes namespace binds to a single registering module. Names are
// qualified as "<module>.<name>"; collisions are detected before insertion.
type Binder struct {
	ns     *Namespace
	module string
}

// Func binds a callable under the module's qualified name.
func (b *Binder) Func(name string, fn Func) error {
	if err := validName(name); err != nil {
		return fmt.Errorf("module %q: %w", b.module, err)
	}
	return b.ns.bind(b.module, b.module+"."+name, Entry{Fn: fn})
}

// Const binds a constant value under the module's qualified name.
func (b *Binder) Const(name string, v interface{}) error {
	if err := validName(name); err != nil {
		return fmt.Errorf("module %q: %w", b.module, err)
	}
	return b.ns.bind(b.module, b.module+"."+name, Entry{Const: v})
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("binding name cannot be empty")
	}
	if strings.Contains(name, ".") {
		return fmt.Errorf("binding name %q cannot contain a dot", name)
	}
	return nil
}
