package modules

import (
	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
	"github.com/glyphterm/glyph/internal/version"
)

// Host exposes identity constants about the embedding application.
type Host struct{}

// NewHost creates the host module.
func NewHost() *Host { return &Host{} }

func (h *Host) Name() string             { return "host" }
func (h *Host) Platforms() platform.Mask { return platform.Any }

func (h *Host) Register(b *capability.Binder) error {
	if err := b.Const("version", version.Host); err != nil {
		return err
	}
	return b.Const("platform", string(platform.Current()))
}
