package modules

import (
	"fmt"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
	"github.com/lucasb-eyer/go-colorful"
)

// Color exposes color parsing and manipulation helpers. Colors cross the
// script boundary as "#rrggbb" strings; HSL math happens on the native side.
type Color struct{}

// NewColor creates the color module.
func NewColor() *Color { return &Color{} }

func (m *Color) Name() string             { return "color" }
func (m *Color) Platforms() platform.Mask { return platform.Any }

func (m *Color) Register(b *capability.Binder) error {
	fns := map[string]capability.Func{
		"parse":      m.parse,
		"hex":        m.hex,
		"lighten":    adjust(func(h, s, l, amt float64) (float64, float64, float64) { return h, s, clamp01(l + amt) }),
		"darken":     adjust(func(h, s, l, amt float64) (float64, float64, float64) { return h, s, clamp01(l - amt) }),
		"saturate":   adjust(func(h, s, l, amt float64) (float64, float64, float64) { return h, clamp01(s + amt), l }),
		"desaturate": adjust(func(h, s, l, amt float64) (float64, float64, float64) { return h, clamp01(s - amt), l }),
		"blend":      m.blend,
		"luminance":  m.luminance,
	}
	for name, fn := range fns {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m *Color) parse(args []interface{}) (interface{}, error) {
	c, err := hexArg(args, 0)
	if err != nil {
		return nil, err
	}
	h, s, l := c.Hsl()
	return map[string]interface{}{
		"r":   c.R,
		"g":   c.G,
		"b":   c.B,
		"h":   h,
		"s":   s,
		"l":   l,
		"hex": c.Hex(),
	}, nil
}

func (m *Color) hex(args []interface{}) (interface{}, error) {
	r, err := argNumber(args, 0, "r")
	if err != nil {
		return nil, err
	}
	g, err := argNumber(args, 1, "g")
	if err != nil {
		return nil, err
	}
	bl, err := argNumber(args, 2, "b")
	if err != nil {
		return nil, err
	}
	c := colorful.Color{R: clamp01(r), G: clamp01(g), B: clamp01(bl)}
	return c.Hex(), nil
}

func (m *Color) blend(args []interface{}) (interface{}, error) {
	a, err := hexArg(args, 0)
	if err != nil {
		return nil, err
	}
	c, err := hexArg(args, 1)
	if err != nil {
		return nil, err
	}
	t, err := argNumber(args, 2, "t")
	if err != nil {
		return nil, err
	}
	return a.BlendLab(c, clamp01(t)).Clamped().Hex(), nil
}

func (m *Color) luminance(args []interface{}) (interface{}, error) {
	c, err := hexArg(args, 0)
	if err != nil {
		return nil, err
	}
	_, _, l := c.Hsl()
	return l, nil
}

// adjust builds an HSL-space transformation taking (hex, amount).
func adjust(f func(h, s, l, amt float64) (float64, float64, float64)) capability.Func {
	return func(args []interface{}) (interface{}, error) {
		c, err := hexArg(args, 0)
		if err != nil {
			return nil, err
		}
		amt, err := argNumber(args, 1, "amount")
		if err != nil {
			return nil, err
		}
		h, s, l := c.Hsl()
		h, s, l = f(h, s, l, amt)
		return colorful.Hsl(h, s, l).Clamped().Hex(), nil
	}
}

func hexArg(args []interface{}, i int) (colorful.Color, error) {
	s, err := argString(args, i, "color")
	if err != nil {
		return colorful.Color{}, err
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
