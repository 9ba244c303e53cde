package plugin

import (
	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
)

// scriptModule adapts a loaded plugin entrypoint's exports into a capability
// module. The plugin name becomes the qualified-name prefix, so plugin names
// collide against built-in module names through the ordinary binder path.
type scriptModule struct {
	name    string
	exports map[string]capability.Func
}

func (p *scriptModule) Name() string             { return p.name }
func (p *scriptModule) Platforms() platform.Mask { return platform.Any }

func (p *scriptModule) Register(b *capability.Binder) error {
	for name, fn := range p.exports {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// managerModule exposes the plugin manager to the configuration script.
type managerModule struct {
	m *Manager
}

func (mm *managerModule) Name() string             { return "plugin" }
func (mm *managerModule) Platforms() platform.Mask { return platform.Any }

func (mm *managerModule) Register(b *capability.Binder) error {
	if err := b.Const("dir", mm.m.Dir()); err != nil {
		return err
	}
	return b.Func("list", func(args []interface{}) (interface{}, error) {
		records := mm.m.List()
		out := make([]interface{}, 0, len(records))
		for _, r := range records {
			out = append(out, map[string]interface{}{
				"name":    r.Manifest.Name,
				"version": r.Manifest.Version,
				"enabled": r.Enabled,
			})
		}
		return out, nil
	})
}
