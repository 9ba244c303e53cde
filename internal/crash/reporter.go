package crash

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/glyphterm/glyph/internal/platform"
	"github.com/google/uuid"
)

// Reporter preserves diagnostic evidence for unrecoverable faults. It is
// installed once, before any script execution, and writes at most one
// artifact per process. It never attempts to resume execution, and failures
// while writing the artifact are swallowed: the reporter must not itself
// fault.
type Reporter struct {
	dir     string
	version string

	installOnce sync.Once
	writeOnce   sync.Once
}

var (
	mu     sync.Mutex
	global *Reporter
)

// NewReporter creates a reporter writing artifacts into dir.
func NewReporter(dir, version string) *Reporter {
	return &Reporter{dir: dir, version: version}
}

// Install publishes the reporter as the process-wide failure hook. The first
// installation wins; later calls are no-ops.
func (r *Reporter) Install() {
	r.installOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if global == nil {
			global = r
		}
	})
}

// Recover is deferred at the top of goroutines that must not die silently.
// On panic it writes the crash artifact and re-panics so the process still
// terminates: the hook's sole job is to preserve evidence, not to resume.
func Recover() {
	if p := recover(); p != nil {
		mu.Lock()
		r := global
		mu.Unlock()
		if r != nil {
			r.Write(p, debug.Stack())
		}
		panic(p)
	}
}

// Write persists the crash artifact. At most one artifact is written per
// process; the path of the written artifact is returned for logging, empty
// when writing was skipped or failed.
func (r *Reporter) Write(panicValue interface{}, stack []byte) string {
	var path string
	r.writeOnce.Do(func() {
		defer func() {
			// The reporter must never fault while reporting.
			_ = recover()
		}()

		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			return
		}

		now := time.Now().UTC()
		name := fmt.Sprintf("glyph-crash-%s-%s.txt",
			now.Format("20060102-150405"), uuid.NewString()[:8])
		candidate := filepath.Join(r.dir, name)

		body := fmt.Sprintf(
			"Glyph crash report\n"+
				"==================\n"+
				"time:     %s\n"+
				"version:  %s\n"+
				"platform: %s\n"+
				"panic:    %v\n\n"+
				"stack trace:\n%s",
			now.Format(time.RFC3339), r.version, platform.Current(), panicValue, stack)

		if err := os.WriteFile(candidate, []byte(body), 0o644); err != nil {
			return
		}
		path = candidate
	})
	return path
}

// Dir returns the artifact directory.
func (r *Reporter) Dir() string { return r.dir }
