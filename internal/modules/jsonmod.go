package modules

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
)

// JSON exposes encode/decode between script values and JSON text.
type JSON struct{}

// NewJSON creates the json module.
func NewJSON() *JSON { return &JSON{} }

func (m *JSON) Name() string             { return "json" }
func (m *JSON) Platforms() platform.Mask { return platform.Any }

func (m *JSON) Register(b *capability.Binder) error {
	if err := b.Func("encode", m.encode); err != nil {
		return err
	}
	return b.Func("decode", m.decode)
}

func (m *JSON) encode(args []interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing argument %q", "value")
	}
	s, err := sonic.MarshalString(args[0])
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return s, nil
}

func (m *JSON) decode(args []interface{}) (interface{}, error) {
	s, err := argString(args, 0, "text")
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := sonic.UnmarshalString(s, &v); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	return v, nil
}
