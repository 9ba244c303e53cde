package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorParse(t *testing.T) {
	ns := bind(t, NewColor())

	out, err := call(t, ns, "color.parse", "#ff0000")
	require.NoError(t, err)
	c := out.(map[string]interface{})
	assert.Equal(t, "#ff0000", c["hex"])
	assert.InDelta(t, 1.0, c["r"].(float64), 0.001)
	assert.InDelta(t, 0.0, c["g"].(float64), 0.001)
	assert.InDelta(t, 0.0, c["h"].(float64), 0.001)
}

func TestColorParseRejectsGarbage(t *testing.T) {
	ns := bind(t, NewColor())
	_, err := call(t, ns, "color.parse", "red-ish")
	assert.Error(t, err)
}

func TestColorHex(t *testing.T) {
	ns := bind(t, NewColor())
	out, err := call(t, ns, "color.hex", 1.0, 1.0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", out)
}

func TestColorLightenDarken(t *testing.T) {
	ns := bind(t, NewColor())

	lighter, err := call(t, ns, "color.lighten", "#808080", 0.2)
	require.NoError(t, err)
	darker, err := call(t, ns, "color.darken", "#808080", 0.2)
	require.NoError(t, err)

	lumOf := func(hex interface{}) float64 {
		out, err := call(t, ns, "color.luminance", hex)
		require.NoError(t, err)
		return out.(float64)
	}
	base := lumOf("#808080")
	assert.Greater(t, lumOf(lighter), base)
	assert.Less(t, lumOf(darker), base)
}

func TestColorLightenClampsAtWhite(t *testing.T) {
	ns := bind(t, NewColor())
	out, err := call(t, ns, "color.lighten", "#f0f0f0", 0.9)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", out)
}

func TestColorBlendEndpoints(t *testing.T) {
	ns := bind(t, NewColor())

	out, err := call(t, ns, "color.blend", "#ff0000", "#0000ff", 0.0)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", out)

	out, err = call(t, ns, "color.blend", "#ff0000", "#0000ff", 1.0)
	require.NoError(t, err)
	assert.Equal(t, "#0000ff", out)
}

func TestColorSaturateDesaturate(t *testing.T) {
	ns := bind(t, NewColor())

	// A fully desaturated color is grey: equal channels.
	out, err := call(t, ns, "color.desaturate", "#4080c0", 1.0)
	require.NoError(t, err)
	parsed, err := call(t, ns, "color.parse", out)
	require.NoError(t, err)
	c := parsed.(map[string]interface{})
	assert.InDelta(t, c["r"].(float64), c["g"].(float64), 0.01)
	assert.InDelta(t, c["g"].(float64), c["b"].(float64), 0.01)

	resat, err := call(t, ns, "color.saturate", out, 0.5)
	require.NoError(t, err)
	assert.NotEqual(t, out, resat)
}
