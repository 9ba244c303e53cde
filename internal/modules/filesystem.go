package modules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
)

// Filesystem exposes the small set of file helpers config scripts need:
// reading fragments, enumerating directories, gitignore-style globbing and
// path canonicalization.
type Filesystem struct{}

// NewFilesystem creates the fs module.
func NewFilesystem() *Filesystem { return &Filesystem{} }

func (m *Filesystem) Name() string             { return "fs" }
func (m *Filesystem) Platforms() platform.Mask { return platform.Any }

func (m *Filesystem) Register(b *capability.Binder) error {
	if home, err := os.UserHomeDir(); err == nil {
		if err := b.Const("home_dir", home); err != nil {
			return err
		}
	}
	if cfg, err := os.UserConfigDir(); err == nil {
		if err := b.Const("config_dir", cfg); err != nil {
			return err
		}
	}

	fns := map[string]capability.Func{
		"read_file": m.readFile,
		"read_dir":  m.readDir,
		"glob":      m.glob,
		"canonical": m.canonical,
	}
	for name, fn := range fns {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m *Filesystem) readFile(args []interface{}) (interface{}, error) {
	path, err := argString(args, 0, "path")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (m *Filesystem) readDir(args []interface{}) (interface{}, error) {
	path, err := argString(args, 0, "path")
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	out := make([]interface{}, len(entries))
	for i, e := range entries {
		out[i] = map[string]interface{}{
			"name":   e.Name(),
			"is_dir": e.IsDir(),
		}
	}
	return out, nil
}

// glob matches a ** pattern under an optional base directory (default cwd).
func (m *Filesystem) glob(args []interface{}) (interface{}, error) {
	pattern, err := argString(args, 0, "pattern")
	if err != nil {
		return nil, err
	}
	base, err := optString(args, 1, ".")
	if err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(os.DirFS(base), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	out := make([]interface{}, len(matches))
	for i, match := range matches {
		out[i] = filepath.Join(base, match)
	}
	return out, nil
}

func (m *Filesystem) canonical(args []interface{}) (interface{}, error) {
	path, err := argString(args, 0, "path")
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalize %s: %w", path, err)
	}
	return resolved, nil
}
