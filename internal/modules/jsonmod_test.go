package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEncodeDecode(t *testing.T) {
	ns := bind(t, NewJSON())

	encoded, err := call(t, ns, "json.encode", map[string]interface{}{"theme": "dark"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, encoded.(string))

	decoded, err := call(t, ns, "json.decode", `{"n": 3, "ok": true}`)
	require.NoError(t, err)
	m := decoded.(map[string]interface{})
	assert.Equal(t, float64(3), m["n"])
	assert.Equal(t, true, m["ok"])
}

func TestJSONDecodeRejectsGarbage(t *testing.T) {
	ns := bind(t, NewJSON())
	_, err := call(t, ns, "json.decode", "{nope")
	assert.Error(t, err)
}

func TestJSONEncodeRequiresValue(t *testing.T) {
	ns := bind(t, NewJSON())
	_, err := call(t, ns, "json.encode")
	assert.Error(t, err)
}
