// Package config locates and executes the user's startup script and loads
// process-level options from the environment.
//
// Script resolution follows a fixed precedence: an explicit override path is
// used exclusively (a missing override is an error, never a fallback), then
// the platform config directory, then the home dotfile. A missing script is
// a normal outcome, not an error.
//
// Environment Variables:
//   - GLYPH_CONFIG_FILE: explicit script override
//   - GLYPH_LOG_LEVEL, GLYPH_LOG_DEV
//   - GLYPH_SCRIPT_TIMEOUT: execution budget per script run
//   - GLYPH_DATA_DIR, GLYPH_PLUGIN_DIR
package config
