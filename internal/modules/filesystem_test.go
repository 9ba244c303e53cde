package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFsReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	ns := bind(t, NewFilesystem())
	out, err := call(t, ns, "fs.read_file", path)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = call(t, ns, "fs.read_file", filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestFsReadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	ns := bind(t, NewFilesystem())
	out, err := call(t, ns, "fs.read_dir", dir)
	require.NoError(t, err)
	entries := out.([]interface{})
	require.Len(t, entries, 2)

	byName := make(map[string]bool)
	for _, e := range entries {
		m := e.(map[string]interface{})
		byName[m["name"].(string)] = m["is_dir"].(bool)
	}
	assert.False(t, byName["a.txt"])
	assert.True(t, byName["sub"])
}

func TestFsGlobDoublestar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "themes", "dark"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "themes", "dark", "one.js"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.js"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), nil, 0o644))

	ns := bind(t, NewFilesystem())
	out, err := call(t, ns, "fs.glob", "**/*.js", dir)
	require.NoError(t, err)
	matches := out.([]interface{})
	assert.ElementsMatch(t, []interface{}{
		filepath.Join(dir, "themes", "dark", "one.js"),
		filepath.Join(dir, "top.js"),
	}, matches)
}

func TestFsCanonical(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	link := filepath.Join(dir, "alias.txt")
	require.NoError(t, os.Symlink(target, link))

	ns := bind(t, NewFilesystem())
	out, err := call(t, ns, "fs.canonical", link)
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, resolved, out)
}

func TestFsConstants(t *testing.T) {
	ns := bind(t, NewFilesystem())
	entry, ok := ns.Lookup("fs.home_dir")
	require.True(t, ok)
	assert.NotEmpty(t, entry.Const)
}
