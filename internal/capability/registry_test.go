package capability

import (
	"errors"
	"testing"

	"github.com/glyphterm/glyph/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct {
	name  string
	mask  platform.Mask
	binds map[string]Func
	fail  error
}

func (f *fakeModule) Name() string             { return f.name }
func (f *fakeModule) Platforms() platform.Mask { return f.mask }

func (f *fakeModule) Register(b *Binder) error {
	if f.fail != nil {
		return f.fail
	}
	for name, fn := range f.binds {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func noop(args []interface{}) (interface{}, error) { return nil, nil }

func TestRegisterAllMergesModules(t *testing.T) {
	ns := NewNamespace()
	r := NewRegistry(nil)

	mods := []Module{
		&fakeModule{name: "util", mask: platform.Any, binds: map[string]Func{"clamp": noop, "floor": noop}},
		&fakeModule{name: "color", mask: platform.Any, binds: map[string]Func{"parse": noop}},
	}
	require.NoError(t, r.RegisterAll(ns, mods))

	assert.Equal(t, 3, ns.Len())
	_, ok := ns.Lookup("util.clamp")
	assert.True(t, ok)
	owner, _ := ns.Owner("color.parse")
	assert.Equal(t, "color", owner)
}

func TestRegisterAllDuplicateNameAborts(t *testing.T) {
	ns := NewNamespace()
	r := NewRegistry(nil)

	mods := []Module{
		&fakeModule{name: "util", mask: platform.Any, binds: map[string]Func{"clamp": noop}},
		&fakeModule{name: "util", mask: platform.Any, binds: map[string]Func{"clamp": noop}},
	}
	err := r.RegisterAll(ns, mods)
	require.Error(t, err)

	var dup *DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "util", dup.QualifiedName)
}

func TestDuplicateQualifiedNameIdentifiesBothModules(t *testing.T) {
	ns := NewNamespace()
	r := NewRegistry(nil)

	first := &fakeModule{name: "alpha", mask: platform.Any, binds: map[string]Func{"x": noop}}
	require.NoError(t, r.RegisterOne(ns, first))

	// Same qualified name bound through a raw binder simulates a module
	// whose registration procedure reaches into another module's prefix.
	err := ns.bind("beta", "alpha.x", Entry{Fn: noop})
	require.Error(t, err)

	var dup *DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "alpha.x", dup.QualifiedName)
	assert.Equal(t, "alpha", dup.First)
	assert.Equal(t, "beta", dup.Second)
}

func TestModuleRegisteredAtMostOnce(t *testing.T) {
	ns := NewNamespace()
	r := NewRegistry(nil)

	m := &fakeModule{name: "util", mask: platform.Any, binds: map[string]Func{"clamp": noop}}
	require.NoError(t, r.RegisterOne(ns, m))
	err := r.RegisterOne(ns, m)
	require.Error(t, err)

	var dup *DuplicateNameError
	assert.True(t, errors.As(err, &dup))
}

func TestRegisterAllPropagatesModuleFailure(t *testing.T) {
	ns := NewNamespace()
	r := NewRegistry(nil)

	boom := errors.New("native load failed")
	mods := []Module{
		&fakeModule{name: "ok", mask: platform.Any, binds: map[string]Func{"f": noop}},
		&fakeModule{name: "broken", mask: platform.Any, fail: boom},
	}
	err := r.RegisterAll(ns, mods)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestSealedNamespaceRejectsBinds(t *testing.T) {
	ns := NewNamespace()
	r := NewRegistry(nil)
	require.NoError(t, r.RegisterOne(ns, &fakeModule{name: "util", mask: platform.Any, binds: map[string]Func{"clamp": noop}}))

	ns.Seal()
	err := r.RegisterOne(ns, &fakeModule{name: "late", mask: platform.Any, binds: map[string]Func{"f": noop}})
	assert.Error(t, err)
}

func TestBinderRejectsInvalidNames(t *testing.T) {
	ns := NewNamespace()
	b := &Binder{ns: ns, module: "util"}

	assert.Error(t, b.Func("", noop))
	assert.Error(t, b.Func("a.b", noop))
	assert.NoError(t, b.Const("answer", 42))
}

func TestResolveFiltersByPlatform(t *testing.T) {
	mods := []Module{
		&fakeModule{name: "everywhere", mask: platform.Any},
		&fakeModule{name: "battery", mask: platform.Linux | platform.Macos},
		&fakeModule{name: "procinfo", mask: platform.Linux},
		&fakeModule{name: "winonly", mask: platform.Windows},
	}

	names := func(ms []Module) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Name()
		}
		return out
	}

	assert.Equal(t, []string{"everywhere", "battery", "procinfo"},
		names(Resolve(platform.PlatformLinux, mods)))
	assert.Equal(t, []string{"everywhere", "battery"},
		names(Resolve(platform.PlatformMacos, mods)))
	assert.Equal(t, []string{"everywhere", "winonly"},
		names(Resolve(platform.PlatformWindows, mods)))
	assert.Equal(t, []string{"everywhere"},
		names(Resolve(platform.PlatformUnknown, mods)))
}

func TestResolveEmptyIsValid(t *testing.T) {
	assert.Empty(t, Resolve(platform.PlatformLinux, nil))
}
