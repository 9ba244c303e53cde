package modules

import (
	"fmt"
	"strings"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/logging"
	"github.com/glyphterm/glyph/internal/platform"
)

// Log lets scripts write to the host's structured log.
type Log struct {
	log *logging.Logger
}

// NewLog creates the log module.
func NewLog(log *logging.Logger) *Log {
	if log == nil {
		log = logging.NewNop()
	}
	return &Log{log: &logging.Logger{Logger: log.Named("script")}}
}

func (m *Log) Name() string             { return "log" }
func (m *Log) Platforms() platform.Mask { return platform.Any }

func (m *Log) Register(b *capability.Binder) error {
	levels := map[string]func(string){
		"debug": func(s string) { m.log.Debug(s) },
		"info":  func(s string) { m.log.Info(s) },
		"warn":  func(s string) { m.log.Warn(s) },
		"error": func(s string) { m.log.Error(s) },
	}
	for name, emit := range levels {
		emit := emit
		if err := b.Func(name, func(args []interface{}) (interface{}, error) {
			emit(joinArgs(args))
			return nil, nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func joinArgs(args []interface{}) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " ")
}
