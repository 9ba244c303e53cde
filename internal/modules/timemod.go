package modules

import (
	"fmt"
	"time"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
)

// Time exposes clock reading and formatting. Layouts use Go reference-time
// syntax; rfc3339 strings carry the local zone offset.
type Time struct {
	now func() time.Time
}

// NewTime creates the time module.
func NewTime() *Time {
	return &Time{now: time.Now}
}

func (m *Time) Name() string             { return "time" }
func (m *Time) Platforms() platform.Mask { return platform.Any }

func (m *Time) Register(b *capability.Binder) error {
	fns := map[string]capability.Func{
		"now":    m.nowFn,
		"format": m.format,
		"parse":  m.parse,
	}
	for name, fn := range fns {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m *Time) nowFn(args []interface{}) (interface{}, error) {
	t := m.now()
	return map[string]interface{}{
		"unix":    t.Unix(),
		"rfc3339": t.Format(time.RFC3339),
		"zone":    t.Format("-07:00"),
	}, nil
}

func (m *Time) format(args []interface{}) (interface{}, error) {
	unix, err := argInt(args, 0, "unix")
	if err != nil {
		return nil, err
	}
	layout, err := optString(args, 1, time.RFC3339)
	if err != nil {
		return nil, err
	}
	return time.Unix(unix, 0).Local().Format(layout), nil
}

func (m *Time) parse(args []interface{}) (interface{}, error) {
	value, err := argString(args, 0, "value")
	if err != nil {
		return nil, err
	}
	layout, err := optString(args, 1, time.RFC3339)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", value, err)
	}
	return t.Unix(), nil
}
