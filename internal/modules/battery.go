package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
)

// BatteryStatus is one power supply's state.
type BatteryStatus struct {
	Name          string  `json:"name"`
	State         string  `json:"state"` // charging, discharging, full, unknown
	ChargePercent float64 `json:"charge_percent"`
}

// BatteryProber reads battery state from the host.
type BatteryProber interface {
	Read() ([]BatteryStatus, error)
}

// Battery exposes battery status to scripts (status bars typically poll it).
type Battery struct {
	prober BatteryProber
}

// NewBattery creates the battery module. A nil prober selects the sysfs
// reader.
func NewBattery(prober BatteryProber) *Battery {
	if prober == nil {
		prober = sysfsProber{root: "/sys/class/power_supply"}
	}
	return &Battery{prober: prober}
}

func (m *Battery) Name() string { return "battery" }

func (m *Battery) Platforms() platform.Mask {
	return platform.Linux | platform.Macos
}

func (m *Battery) Register(b *capability.Binder) error {
	return b.Func("info", func(args []interface{}) (interface{}, error) {
		statuses, err := m.prober.Read()
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(statuses))
		for i, s := range statuses {
			out[i] = map[string]interface{}{
				"name":           s.Name,
				"state":          s.State,
				"charge_percent": s.ChargePercent,
			}
		}
		return out, nil
	})
}

// sysfsProber reads /sys/class/power_supply. Supplies without a capacity
// file (AC adapters) are skipped.
type sysfsProber struct {
	root string
}

func (p sysfsProber) Read() ([]BatteryStatus, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read power supplies: %w", err)
	}

	var out []BatteryStatus
	for _, e := range entries {
		dir := filepath.Join(p.root, e.Name())
		capRaw, err := os.ReadFile(filepath.Join(dir, "capacity"))
		if err != nil {
			continue
		}
		percent, err := strconv.ParseFloat(strings.TrimSpace(string(capRaw)), 64)
		if err != nil {
			continue
		}

		state := "unknown"
		if raw, err := os.ReadFile(filepath.Join(dir, "status")); err == nil {
			switch strings.TrimSpace(string(raw)) {
			case "Charging":
				state = "charging"
			case "Discharging":
				state = "discharging"
			case "Full":
				state = "full"
			}
		}

		out = append(out, BatteryStatus{
			Name:          e.Name(),
			State:         state,
			ChargePercent: percent,
		})
	}
	return out, nil
}
