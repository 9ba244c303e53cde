package plugin

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/coreos/go-semver/semver"
	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/flock"
	"github.com/glyphterm/glyph/internal/logging"
	"github.com/glyphterm/glyph/internal/script"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

var (
	// ErrChecksum reports a fetched artifact whose sha256 does not match the
	// manifest. The artifact is discarded.
	ErrChecksum = errors.New("plugin: checksum mismatch")
	// ErrNotInstalled reports an operation on an unknown plugin.
	ErrNotInstalled = errors.New("plugin: not installed")
	// ErrBusy reports another process holding the managed directory lock.
	ErrBusy = errors.New("plugin: directory busy")
)

const (
	entrypointName = "plugin.js"
	recordsName    = "records.json"
	lockName       = ".lock"

	// lockWait bounds how long install/uninstall waits for the directory
	// lock held by another Glyph process.
	lockWait = 5 * time.Second
)

// Record is the authoritative per-plugin state. Created on install, updated
// on re-check, deleted on uninstall.
type Record struct {
	Manifest      Manifest  `json:"manifest"`
	InstalledPath string    `json:"installed_path"`
	Enabled       bool      `json:"enabled"`
	LastCheck     time.Time `json:"last_check"`
}

// Manager installs, verifies and registers third-party capability modules.
// Install/uninstall serialize across processes via an exclusive flock on the
// managed directory; in-process calls serialize on a mutex.
type Manager struct {
	dir  string
	host semver.Version
	log  *logging.Logger
	http *resty.Client

	mu      sync.Mutex
	records map[string]Record
}

// NewManager opens the managed plugin directory and loads known records.
func NewManager(dir string, host semver.Version, log *logging.Logger) (*Manager, error) {
	if log == nil {
		log = logging.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plugin directory: %w", err)
	}

	m := &Manager{
		dir:  dir,
		host: host,
		log:  log,
		http: resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond),
		records: make(map[string]Record),
	}
	if err := m.loadRecords(); err != nil {
		return nil, err
	}
	return m, nil
}

// Dir returns the managed plugin directory.
func (m *Manager) Dir() string { return m.dir }

// Install fetches the plugin artifact into the managed directory, verifies
// its checksum when the manifest declares one, and records it. A plugin whose
// compatibility range excludes the host version is installed disabled with a
// warning; incompatibility is never an error.
func (m *Manager) Install(manifest Manifest) (Record, error) {
	if err := manifest.Validate(); err != nil {
		return Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lock := flock.New(filepath.Join(m.dir, lockName))
	ok, err := lock.Acquire(lockWait)
	if err != nil {
		return Record{}, fmt.Errorf("lock plugin directory: %w", err)
	}
	if !ok {
		return Record{}, ErrBusy
	}
	defer lock.Unlock()

	data, err := m.fetch(manifest.Entrypoint)
	if err != nil {
		return Record{}, fmt.Errorf("fetch plugin %q: %w", manifest.Name, err)
	}
	if manifest.Checksum != "" {
		sum := sha256.Sum256(data)
		if !strings.EqualFold(hex.EncodeToString(sum[:]), manifest.Checksum) {
			return Record{}, fmt.Errorf("plugin %q: %w", manifest.Name, ErrChecksum)
		}
	}

	pluginDir := filepath.Join(m.dir, manifest.Name)
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		return Record{}, fmt.Errorf("create plugin dir: %w", err)
	}
	installed := filepath.Join(pluginDir, entrypointName)
	if err := writeAtomic(installed, data); err != nil {
		return Record{}, err
	}
	manifestCopy, err := toml.Marshal(manifest)
	if err == nil {
		err = writeAtomic(filepath.Join(pluginDir, "manifest.toml"), manifestCopy)
	}
	if err != nil {
		return Record{}, fmt.Errorf("persist manifest: %w", err)
	}

	rec := Record{
		Manifest:      manifest,
		InstalledPath: installed,
		Enabled:       m.compatible(manifest),
		LastCheck:     time.Now().UTC(),
	}
	if !rec.Enabled {
		m.log.Warn("plugin incompatible with host version, installing disabled",
			zap.String("plugin", manifest.Name),
			zap.String("plugin_version", manifest.Version),
			zap.String("compatibility", manifest.Compatibility),
			zap.String("host", m.host.String()))
	}

	m.records[manifest.Name] = rec
	if err := m.saveRecords(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Uninstall removes the managed artifact and its record.
func (m *Manager) Uninstall(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNotInstalled)
	}

	lock := flock.New(filepath.Join(m.dir, lockName))
	ok, err := lock.Acquire(lockWait)
	if err != nil {
		return fmt.Errorf("lock plugin directory: %w", err)
	}
	if !ok {
		return ErrBusy
	}
	defer lock.Unlock()

	if err := os.RemoveAll(filepath.Join(m.dir, name)); err != nil {
		return fmt.Errorf("remove plugin artifact: %w", err)
	}
	delete(m.records, name)
	return m.saveRecords()
}

// List returns all known plugins, installed or disabled, sorted by name.
func (m *Manager) List() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Manifest.Name < out[j].Manifest.Name
	})
	return out
}

// Get returns the record for a plugin.
func (m *Manager) Get(name string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[name]
	return r, ok
}

// RegisterEnabled re-checks compatibility and registers every enabled
// plugin's entrypoint as a capability module through the same registration
// procedure as built-ins, so plugin-contributed names share the uniqueness
// invariant. A plugin that fails to load is disabled with a warning and never
// blocks startup; only a structural name collision aborts, as it would for
// built-ins.
func (m *Manager) RegisterEnabled(ctx context.Context, ns *capability.Namespace, reg *capability.Registry, eng *script.Engine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.records))
	for name := range m.records {
		names = append(names, name)
	}
	sort.Strings(names)

	dirty := false
	for _, name := range names {
		rec := m.records[name]

		enabled := m.compatible(rec.Manifest)
		if enabled != rec.Enabled {
			rec.Enabled = enabled
			dirty = true
		}
		rec.LastCheck = time.Now().UTC()
		m.records[name] = rec

		if !rec.Enabled {
			m.log.Warn("skipping incompatible plugin",
				zap.String("plugin", name),
				zap.String("compatibility", rec.Manifest.Compatibility),
				zap.String("host", m.host.String()))
			continue
		}

		mod, err := m.loadModule(ctx, rec, eng)
		if err != nil {
			rec.Enabled = false
			m.records[name] = rec
			dirty = true
			m.log.Warn("plugin failed to load, disabling",
				zap.String("plugin", name), zap.Error(err))
			continue
		}

		if err := reg.RegisterOne(ns, mod); err != nil {
			var dup *capability.DuplicateNameError
			if errors.As(err, &dup) {
				return err
			}
			rec.Enabled = false
			m.records[name] = rec
			dirty = true
			m.log.Warn("plugin registration failed, disabling",
				zap.String("plugin", name), zap.Error(err))
		}
	}

	if dirty {
		if err := m.saveRecords(); err != nil {
			m.log.Warn("persisting plugin records failed", zap.Error(err))
		}
	}
	return nil
}

// Module exposes the manager itself to scripts: plugin.list() and the
// managed directory constant.
func (m *Manager) Module() capability.Module {
	return &managerModule{m: m}
}

func (m *Manager) compatible(manifest Manifest) bool {
	return manifest.Range().Contains(m.host)
}

func (m *Manager) loadModule(ctx context.Context, rec Record, eng *script.Engine) (capability.Module, error) {
	src, err := os.ReadFile(rec.InstalledPath)
	if err != nil {
		return nil, fmt.Errorf("read entrypoint: %w", err)
	}
	val, err := eng.Run(ctx, rec.InstalledPath, string(src), script.DefaultBudget)
	if err != nil {
		return nil, fmt.Errorf("evaluate entrypoint: %w", err)
	}
	exports, err := eng.Exports(val)
	if err != nil {
		return nil, err
	}
	if len(exports) == 0 {
		return nil, fmt.Errorf("entrypoint exports no functions")
	}
	return &scriptModule{name: rec.Manifest.Name, exports: exports}, nil
}

func (m *Manager) fetch(entrypoint string) ([]byte, error) {
	if strings.HasPrefix(entrypoint, "http://") || strings.HasPrefix(entrypoint, "https://") {
		resp, err := m.http.R().Get(entrypoint)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("fetch %s: status %s", entrypoint, resp.Status())
		}
		return resp.Body(), nil
	}
	return os.ReadFile(entrypoint)
}

func (m *Manager) recordsPath() string { return filepath.Join(m.dir, recordsName) }

func (m *Manager) loadRecords() error {
	data, err := os.ReadFile(m.recordsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read plugin records: %w", err)
	}
	if err := sonic.Unmarshal(data, &m.records); err != nil {
		return fmt.Errorf("decode plugin records: %w", err)
	}
	return nil
}

func (m *Manager) saveRecords() error {
	data, err := sonic.Marshal(m.records)
	if err != nil {
		return fmt.Errorf("encode plugin records: %w", err)
	}
	return writeAtomic(m.recordsPath(), data)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp-" + uuid.NewString()[:8]
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
