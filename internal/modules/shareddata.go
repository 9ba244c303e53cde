package modules

import (
	"errors"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
	"github.com/glyphterm/glyph/internal/store"
)

var errMissingValue = errors.New("missing argument \"value\"")

// Shared exposes the cross-process data store to scripts. Values round-trip
// through JSON, so scripts in different processes observe each other's
// writes with single-key atomicity.
type Shared struct {
	store *store.Store
}

// NewShared creates the shared module.
func NewShared(s *store.Store) *Shared {
	return &Shared{store: s}
}

func (m *Shared) Name() string             { return "shared" }
func (m *Shared) Platforms() platform.Mask { return platform.Any }

func (m *Shared) Register(b *capability.Binder) error {
	fns := map[string]capability.Func{
		"get":    m.get,
		"put":    m.put,
		"remove": m.remove,
		"keys":   m.keys,
	}
	for name, fn := range fns {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m *Shared) get(args []interface{}) (interface{}, error) {
	key, err := argString(args, 0, "key")
	if err != nil {
		return nil, err
	}
	v, ok, err := m.store.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *Shared) put(args []interface{}) (interface{}, error) {
	key, err := argString(args, 0, "key")
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, errMissingValue
	}
	return nil, m.store.Put(key, args[1])
}

func (m *Shared) remove(args []interface{}) (interface{}, error) {
	key, err := argString(args, 0, "key")
	if err != nil {
		return nil, err
	}
	return nil, m.store.Remove(key)
}

func (m *Shared) keys(args []interface{}) (interface{}, error) {
	keys, err := m.store.Keys()
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out, nil
}
