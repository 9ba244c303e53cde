package modules

import (
	"testing"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
	"github.com/glyphterm/glyph/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bind registers a single module into a fresh namespace.
func bind(t *testing.T, m capability.Module) *capability.Namespace {
	t.Helper()
	ns := capability.NewNamespace()
	require.NoError(t, capability.NewRegistry(nil).RegisterAll(ns, []capability.Module{m}))
	return ns
}

// call invokes a bound function by qualified name.
func call(t *testing.T, ns *capability.Namespace, qualified string, args ...interface{}) (interface{}, error) {
	t.Helper()
	entry, ok := ns.Lookup(qualified)
	require.True(t, ok, "missing %s", qualified)
	require.True(t, entry.IsFunc(), "%s is not callable", qualified)
	return entry.Fn(args)
}

func TestBuiltinsHaveUniqueNames(t *testing.T) {
	ns := capability.NewNamespace()
	err := capability.NewRegistry(nil).RegisterAll(ns, Builtins(Deps{}))
	require.NoError(t, err)
	assert.Greater(t, ns.Len(), 30)
}

func TestBuiltinsMaskCoverage(t *testing.T) {
	mods := Builtins(Deps{})

	masks := make(map[string]platform.Mask, len(mods))
	for _, m := range mods {
		masks[m.Name()] = m.Platforms()
	}
	assert.Equal(t, platform.Linux|platform.Macos, masks["battery"])
	assert.Equal(t, platform.Linux, masks["procinfo"])
	assert.Equal(t, platform.Any, masks["color"])

	// Windows never sees procfs or sysfs readers.
	for _, m := range capability.Resolve(platform.PlatformWindows, mods) {
		assert.NotContains(t, []string{"battery", "procinfo"}, m.Name())
	}
}

func TestHostModule(t *testing.T) {
	ns := bind(t, NewHost())

	entry, ok := ns.Lookup("host.version")
	require.True(t, ok)
	assert.Equal(t, version.Host, entry.Const)

	entry, ok = ns.Lookup("host.platform")
	require.True(t, ok)
	assert.Equal(t, string(platform.Current()), entry.Const)
}

type fakeProber struct {
	statuses []BatteryStatus
}

func (p *fakeProber) Read() ([]BatteryStatus, error) { return p.statuses, nil }

func TestBatteryInfo(t *testing.T) {
	prober := &fakeProber{statuses: []BatteryStatus{
		{Name: "BAT0", State: "discharging", ChargePercent: 73},
	}}
	ns := bind(t, NewBattery(prober))

	out, err := call(t, ns, "battery.info")
	require.NoError(t, err)
	list := out.([]interface{})
	require.Len(t, list, 1)
	status := list[0].(map[string]interface{})
	assert.Equal(t, "BAT0", status["name"])
	assert.Equal(t, "discharging", status["state"])
	assert.Equal(t, float64(73), status["charge_percent"])
}

func TestSysfsProberMissingRoot(t *testing.T) {
	p := sysfsProber{root: "/nonexistent/power_supply"}
	statuses, err := p.Read()
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestMuxLoopbackRoundTrip(t *testing.T) {
	ns := bind(t, NewMux(NewLoopbackMux()))

	out, err := call(t, ns, "mux.list_windows")
	require.NoError(t, err)
	windows := out.([]interface{})
	require.Len(t, windows, 1)

	tabID, err := call(t, ns, "mux.spawn_tab", int64(1), "/tmp")
	require.NoError(t, err)
	assert.Equal(t, int64(4), tabID)

	_, err = call(t, ns, "mux.rename_tab", tabID, "build")
	require.NoError(t, err)

	paneID, err := call(t, ns, "mux.split_pane", int64(3), "down")
	require.NoError(t, err)

	_, err = call(t, ns, "mux.activate_pane", paneID)
	require.NoError(t, err)

	out, err = call(t, ns, "mux.list_windows")
	require.NoError(t, err)
	tabs := out.([]interface{})[0].(map[string]interface{})["tabs"].([]interface{})
	require.Len(t, tabs, 2)
	assert.Equal(t, "build", tabs[1].(map[string]interface{})["title"])
}

func TestMuxRejectsBadDirection(t *testing.T) {
	ns := bind(t, NewMux(NewLoopbackMux()))
	_, err := call(t, ns, "mux.split_pane", int64(3), "diagonal")
	assert.Error(t, err)
}

func TestMuxUnknownIDs(t *testing.T) {
	ns := bind(t, NewMux(NewLoopbackMux()))
	_, err := call(t, ns, "mux.spawn_tab", int64(99))
	assert.Error(t, err)
	_, err = call(t, ns, "mux.activate_pane", int64(99))
	assert.Error(t, err)
}

func TestProcInfoSelf(t *testing.T) {
	ns := bind(t, NewProcInfo())

	pid, err := call(t, ns, "procinfo.pid")
	require.NoError(t, err)
	assert.Greater(t, pid.(int64), int64(0))

	cwd, err := call(t, ns, "procinfo.cwd", pid)
	require.NoError(t, err)
	assert.NotEmpty(t, cwd)

	name, err := call(t, ns, "procinfo.name", pid)
	require.NoError(t, err)
	assert.NotEmpty(t, name)
}

func TestLogModuleAcceptsAnything(t *testing.T) {
	ns := bind(t, NewLog(nil))
	for _, level := range []string{"debug", "info", "warn", "error"} {
		_, err := call(t, ns, "log."+level, "msg", int64(7), true)
		assert.NoError(t, err)
	}
}
