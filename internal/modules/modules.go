package modules

import (
	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/logging"
	"github.com/glyphterm/glyph/internal/store"
)

// Deps carries the collaborators built-in modules need. Zero-value fields
// get safe defaults (no-op logger, loopback mux).
type Deps struct {
	Log     *logging.Logger
	Store   *store.Store
	Mux     MuxClient
	Battery BatteryProber
}

// Builtins returns every compiled-in capability module in registration
// order. The platform resolver filters this list before registration; the
// order only affects error attribution.
func Builtins(d Deps) []capability.Module {
	if d.Log == nil {
		d.Log = logging.NewNop()
	}
	if d.Mux == nil {
		d.Mux = NewLoopbackMux()
	}

	mods := []capability.Module{
		NewHost(),
		NewBattery(d.Battery),
		NewColor(),
		NewFilesystem(),
		NewJSON(),
		NewLog(d.Log),
		NewMux(d.Mux),
		NewProcInfo(),
		NewSpawn(),
		NewSSH(),
		NewTime(),
		NewURL(),
	}
	if d.Store != nil {
		mods = append(mods, NewShared(d.Store))
	}
	return mods
}
