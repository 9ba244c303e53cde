package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/glyphterm/glyph/internal/logging"
	"github.com/glyphterm/glyph/internal/script"
	"go.uber.org/zap"
)

// Status classifies the outcome of one bootstrap attempt.
type Status string

const (
	// StatusLoaded means the script ran to completion.
	StatusLoaded Status = "loaded"
	// StatusNotFound means no configuration exists. Not an error: the
	// application proceeds with defaults.
	StatusNotFound Status = "not_found"
	// StatusLoadError means the script could not be located or parsed.
	StatusLoadError Status = "load_error"
	// StatusRuntimeError means the script failed while executing, including
	// wall-clock budget expiry.
	StatusRuntimeError Status = "runtime_error"
)

// LoadResult reports one bootstrap attempt. Produced once per attempt, never
// persisted.
type LoadResult struct {
	SourcePath string
	Status     Status
	Detail     string
}

// Ok reports whether the result leaves the application in a usable state.
// NotFound is ok; script errors are ok too (the host survives, the user is
// warned), so this is about the host, not the script.
func (r LoadResult) Ok() bool {
	return r.Status == StatusLoaded || r.Status == StatusNotFound
}

// Loader locates and executes the user's configuration script under the
// engine's recovery boundary. User scripts are adversarial input with
// respect to host stability: nothing they do terminates the process.
//
// Side effects a script performed before a failing statement (shared-store
// writes, mux calls) are retained, not rolled back; the configuration that
// existed before the failure stays in effect.
type Loader struct {
	log *logging.Logger
}

// NewLoader creates a loader.
func NewLoader(log *logging.Logger) *Loader {
	if log == nil {
		log = logging.NewNop()
	}
	return &Loader{log: log}
}

// LoadAndRun resolves the configuration script and executes it against the
// engine's namespace within the wall-clock budget.
//
// Resolution: a non-empty override is used exclusively and must exist; else
// the search paths are tried in order and the first existing file wins; none
// existing is NotFound, not an error.
func (l *Loader) LoadAndRun(ctx context.Context, eng *script.Engine, override string, searchPaths []string, budget time.Duration) LoadResult {
	path, res, resolved := l.resolve(override, searchPaths)
	if !resolved {
		return res
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{
			SourcePath: path,
			Status:     StatusLoadError,
			Detail:     fmt.Sprintf("read config: %v", err),
		}
	}

	l.log.Info("executing configuration script", zap.String("path", path))
	if _, err := eng.Run(ctx, path, string(src), budget); err != nil {
		return l.classify(path, err)
	}
	return LoadResult{SourcePath: path, Status: StatusLoaded}
}

func (l *Loader) resolve(override string, searchPaths []string) (string, LoadResult, bool) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", LoadResult{
				SourcePath: override,
				Status:     StatusLoadError,
				Detail:     fmt.Sprintf("explicit config %q: %v", override, err),
			}, false
		}
		return override, LoadResult{}, true
	}

	for _, p := range searchPaths {
		if _, err := os.Stat(p); err == nil {
			return p, LoadResult{}, true
		}
	}
	return "", LoadResult{Status: StatusNotFound}, false
}

func (l *Loader) classify(path string, err error) LoadResult {
	se, ok := script.AsScriptError(err)
	if !ok {
		return LoadResult{SourcePath: path, Status: StatusRuntimeError, Detail: err.Error()}
	}
	switch se.Kind {
	case script.KindLoad:
		return LoadResult{SourcePath: path, Status: StatusLoadError, Detail: se.Detail}
	default:
		return LoadResult{SourcePath: path, Status: StatusRuntimeError, Detail: se.Detail}
	}
}
