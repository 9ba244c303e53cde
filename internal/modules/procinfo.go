package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
)

// ProcInfo exposes process inspection (cwd, executable, name) via procfs.
// Status bars use it to show the foreground process of a pane.
type ProcInfo struct {
	procRoot string
}

// NewProcInfo creates the procinfo module.
func NewProcInfo() *ProcInfo {
	return &ProcInfo{procRoot: "/proc"}
}

func (m *ProcInfo) Name() string             { return "procinfo" }
func (m *ProcInfo) Platforms() platform.Mask { return platform.Linux }

func (m *ProcInfo) Register(b *capability.Binder) error {
	if err := b.Func("pid", func(args []interface{}) (interface{}, error) {
		return int64(os.Getpid()), nil
	}); err != nil {
		return err
	}

	fns := map[string]capability.Func{
		"cwd":        m.cwd,
		"executable": m.executable,
		"name":       m.procName,
	}
	for name, fn := range fns {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m *ProcInfo) cwd(args []interface{}) (interface{}, error) {
	pid, err := argInt(args, 0, "pid")
	if err != nil {
		return nil, err
	}
	link, err := os.Readlink(filepath.Join(m.procRoot, fmt.Sprint(pid), "cwd"))
	if err != nil {
		return nil, fmt.Errorf("cwd of pid %d: %w", pid, err)
	}
	return link, nil
}

func (m *ProcInfo) executable(args []interface{}) (interface{}, error) {
	pid, err := argInt(args, 0, "pid")
	if err != nil {
		return nil, err
	}
	link, err := os.Readlink(filepath.Join(m.procRoot, fmt.Sprint(pid), "exe"))
	if err != nil {
		return nil, fmt.Errorf("executable of pid %d: %w", pid, err)
	}
	return link, nil
}

func (m *ProcInfo) procName(args []interface{}) (interface{}, error) {
	pid, err := argInt(args, 0, "pid")
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Join(m.procRoot, fmt.Sprint(pid), "comm"))
	if err != nil {
		return nil, fmt.Errorf("name of pid %d: %w", pid, err)
	}
	return strings.TrimSpace(string(raw)), nil
}
