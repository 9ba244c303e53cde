package crash

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCreatesArtifact(t *testing.T) {
	dir := t.TempDir()
	r := NewReporter(dir, "1.2.0")

	path := r.Write("boom", debug.Stack())
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)

	assert.Contains(t, body, "version:  1.2.0")
	assert.Contains(t, body, "panic:    boom")
	assert.Contains(t, body, "stack trace:")
	assert.Contains(t, body, "reporter_test.go")
}

func TestWriteIsOneShot(t *testing.T) {
	dir := t.TempDir()
	r := NewReporter(dir, "1.2.0")

	first := r.Write("first", debug.Stack())
	second := r.Write("second", debug.Stack())
	require.NotEmpty(t, first)
	assert.Empty(t, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteSwallowsFailure(t *testing.T) {
	// A file where the directory should be makes MkdirAll fail.
	base := t.TempDir()
	blocked := filepath.Join(base, "not-a-dir")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	r := NewReporter(filepath.Join(blocked, "crash"), "1.2.0")
	assert.NotPanics(t, func() {
		assert.Empty(t, r.Write("boom", debug.Stack()))
	})
}

func TestRecoverWritesArtifactAndRepanics(t *testing.T) {
	dir := t.TempDir()
	r := NewReporter(dir, "9.9.9")

	// Bypass Install to avoid cross-test global state.
	mu.Lock()
	prev := global
	global = r
	mu.Unlock()
	defer func() {
		mu.Lock()
		global = prev
		mu.Unlock()
	}()

	func() {
		defer func() {
			p := recover()
			assert.Equal(t, "native fault", p)
		}()
		defer Recover()
		panic("native fault")
	}()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "glyph-crash-"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "9.9.9")
	assert.Contains(t, string(data), "native fault")
}

func TestInstallFirstWins(t *testing.T) {
	mu.Lock()
	prev := global
	global = nil
	mu.Unlock()
	defer func() {
		mu.Lock()
		global = prev
		mu.Unlock()
	}()

	a := NewReporter(t.TempDir(), "1.0.0")
	b := NewReporter(t.TempDir(), "2.0.0")
	a.Install()
	b.Install()

	mu.Lock()
	assert.Same(t, a, global)
	mu.Unlock()
}
