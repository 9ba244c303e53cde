package config

import (
	"os"
	"path/filepath"
)

// ScriptName is the configuration script file name.
const ScriptName = "glyph.js"

// appDir is the per-application directory name under OS convention paths.
const appDir = "glyph"

// SearchPaths returns the ordered candidate locations for the configuration
// script: the OS user config directory first, then a dotfile in $HOME. The
// first existing file wins.
func SearchPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, appDir, ScriptName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+ScriptName))
	}
	return paths
}

// DataDir returns the per-user data directory for managed state (shared
// store, plugins).
func DataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDir)
	}
	return filepath.Join(os.TempDir(), appDir)
}

// CrashDir returns the well-known per-user diagnostic location for crash
// artifacts.
func CrashDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, appDir, "crashes")
	}
	return filepath.Join(os.TempDir(), appDir, "crashes")
}

// StorePath returns the shared data store backing file inside dataDir.
func StorePath(dataDir string) string {
	return filepath.Join(dataDir, "shared.json")
}

// PluginDir returns the managed plugin directory inside dataDir.
func PluginDir(dataDir string) string {
	return filepath.Join(dataDir, "plugins")
}
