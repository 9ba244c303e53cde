package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnRunCapturesOutput(t *testing.T) {
	ns := bind(t, NewSpawn())

	out, err := call(t, ns, "spawn.run", []interface{}{"sh", "-c", "echo out; echo err >&2"})
	require.NoError(t, err)
	res := out.(map[string]interface{})
	assert.Equal(t, int64(0), res["status"])
	assert.Equal(t, "out\n", res["stdout"])
	assert.Equal(t, "err\n", res["stderr"])
}

func TestSpawnRunNonzeroStatus(t *testing.T) {
	ns := bind(t, NewSpawn())

	out, err := call(t, ns, "spawn.run", []interface{}{"sh", "-c", "exit 3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.(map[string]interface{})["status"])
}

func TestSpawnRunMissingBinary(t *testing.T) {
	ns := bind(t, NewSpawn())
	_, err := call(t, ns, "spawn.run", []interface{}{"/no/such/binary"})
	assert.Error(t, err)
}

func TestSpawnRejectsEmptyArgv(t *testing.T) {
	ns := bind(t, NewSpawn())
	_, err := call(t, ns, "spawn.run", []interface{}{})
	assert.Error(t, err)
	_, err = call(t, ns, "spawn.background", []interface{}{})
	assert.Error(t, err)
}

func TestSpawnBackgroundReturnsPid(t *testing.T) {
	ns := bind(t, NewSpawn())
	pid, err := call(t, ns, "spawn.background", []interface{}{"sleep", "0.05"})
	require.NoError(t, err)
	assert.Greater(t, pid.(int64), int64(0))
}

func TestSpawnRunPty(t *testing.T) {
	ns := bind(t, NewSpawn())

	out, err := call(t, ns, "spawn.run_pty", []interface{}{"echo", "from-pty"}, int64(80), int64(24))
	require.NoError(t, err)
	res := out.(map[string]interface{})
	assert.Equal(t, int64(0), res["status"])
	assert.Contains(t, res["output"], "from-pty")
}
