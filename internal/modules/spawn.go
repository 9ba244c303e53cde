package modules

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"

	"github.com/creack/pty"
	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/platform"
)

// Spawn exposes process spawning. Calls run synchronously on the script
// thread and block until the child exits (background being the exception);
// a slow child stalls startup, bounded only by the loader's overall budget.
type Spawn struct{}

// NewSpawn creates the spawn module.
func NewSpawn() *Spawn { return &Spawn{} }

func (m *Spawn) Name() string             { return "spawn" }
func (m *Spawn) Platforms() platform.Mask { return platform.Any }

func (m *Spawn) Register(b *capability.Binder) error {
	fns := map[string]capability.Func{
		"run":        m.run,
		"background": m.background,
		"run_pty":    m.runPty,
	}
	for name, fn := range fns {
		if err := b.Func(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m *Spawn) run(args []interface{}) (interface{}, error) {
	argv, err := argStrings(args, 0, "argv")
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("argv cannot be empty")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	status := int64(0)
	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("spawn %s: %w", argv[0], err)
		}
		status = int64(exitErr.ExitCode())
	}
	return map[string]interface{}{
		"status": status,
		"stdout": stdout.String(),
		"stderr": stderr.String(),
	}, nil
}

func (m *Spawn) background(args []interface{}) (interface{}, error) {
	argv, err := argStrings(args, 0, "argv")
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("argv cannot be empty")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", argv[0], err)
	}
	pid := int64(cmd.Process.Pid)
	// Reap the child when it exits so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return pid, nil
}

// runPty runs the command attached to a pseudo-terminal and captures its
// combined output, for children that refuse to talk to pipes.
func (m *Spawn) runPty(args []interface{}) (interface{}, error) {
	argv, err := argStrings(args, 0, "argv")
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("argv cannot be empty")
	}
	cols, err := optInt(args, 1, 80)
	if err != nil {
		return nil, err
	}
	rows, err := optInt(args, 2, 24)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
	if err != nil {
		return nil, fmt.Errorf("spawn pty %s: %w", argv[0], err)
	}
	defer ptmx.Close()

	var out bytes.Buffer
	// The pty read returns EIO once the child side closes; that's EOF here.
	_, _ = io.Copy(&out, ptmx)

	status := int64(0)
	if err := cmd.Wait(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("wait %s: %w", argv[0], err)
		}
		status = int64(exitErr.ExitCode())
	}
	return map[string]interface{}{
		"status": status,
		"output": out.String(),
	}, nil
}
