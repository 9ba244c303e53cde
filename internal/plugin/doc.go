// Package plugin installs, gates, and registers third-party script modules.
//
// A plugin is a single-file JavaScript entrypoint plus a TOML manifest that
// declares a name, version, host compatibility range, and checksum. Installs
// verify the checksum before anything touches the plugin directory and are
// serialized with a directory lock. Incompatible plugins are kept on disk
// but disabled; they are rechecked against the host version on every start,
// so an upgrade can revive them without a reinstall.
package plugin
