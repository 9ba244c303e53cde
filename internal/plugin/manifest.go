package plugin

import (
	"fmt"
	"os"
	"strings"

	"github.com/glyphterm/glyph/internal/version"
	"github.com/pelletier/go-toml/v2"
)

// Manifest declares a plugin's identity, version, host-compatibility range,
// entrypoint location (local path or http(s) URL) and optional sha256
// checksum of the entrypoint contents.
type Manifest struct {
	Name          string `toml:"name"`
	Version       string `toml:"version"`
	Compatibility string `toml:"compatibility"`
	Entrypoint    string `toml:"entrypoint"`
	Checksum      string `toml:"checksum,omitempty"`
}

// ParseManifest decodes and validates a TOML manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// LoadManifest reads a manifest from disk.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// Validate checks structural manifest invariants.
func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if strings.ContainsAny(m.Name, "./\\") {
		return fmt.Errorf("manifest: name %q may not contain path or namespace separators", m.Name)
	}
	if _, err := version.Parse(m.Version); err != nil {
		return fmt.Errorf("manifest %q: %w", m.Name, err)
	}
	if _, err := version.ParseRange(m.Compatibility); err != nil {
		return fmt.Errorf("manifest %q: %w", m.Name, err)
	}
	if m.Entrypoint == "" {
		return fmt.Errorf("manifest %q: entrypoint is required", m.Name)
	}
	return nil
}

// Range returns the parsed compatibility range. Validate must have passed.
func (m Manifest) Range() version.Range {
	r, err := version.ParseRange(m.Compatibility)
	if err != nil {
		return version.Range{}
	}
	return r
}
