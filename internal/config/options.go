package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Options holds process-level bootstrap configuration, loaded from the
// environment. The explicit config file override is used exclusively when
// set: a missing override is an error, never a fallback.
type Options struct {
	ConfigFile    string        `envconfig:"GLYPH_CONFIG_FILE"`
	LogLevel      string        `envconfig:"GLYPH_LOG_LEVEL" default:"info"`
	LogDev        bool          `envconfig:"GLYPH_LOG_DEV" default:"false"`
	ScriptTimeout time.Duration `envconfig:"GLYPH_SCRIPT_TIMEOUT" default:"30s"`
	DataDir       string        `envconfig:"GLYPH_DATA_DIR"`
	PluginDir     string        `envconfig:"GLYPH_PLUGIN_DIR"`
}

// LoadOptions loads options from environment variables.
func LoadOptions() (*Options, error) {
	var opts Options
	if err := envconfig.Process("", &opts); err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	return &opts, nil
}

// LoadOptionsOrDefault loads options, falling back to defaults on failure.
func LoadOptionsOrDefault() *Options {
	opts, err := LoadOptions()
	if err != nil {
		return &Options{LogLevel: "info", ScriptTimeout: 30 * time.Second}
	}
	return opts
}
