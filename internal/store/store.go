package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/glyphterm/glyph/internal/flock"
	"github.com/glyphterm/glyph/internal/logging"
	"go.uber.org/zap"
)

// ErrBusy is returned when the write lock cannot be obtained within the
// bounded wait. Callers should retry with backoff.
var ErrBusy = errors.New("store: busy")

// DefaultWait bounds how long a writer waits for the exclusive lock.
const DefaultWait = 1 * time.Second

// Entry is one shared record as persisted in the table.
type Entry struct {
	Value     interface{} `json:"value"`
	WriterPID int         `json:"writer_pid"`
	WrittenAt time.Time   `json:"written_at"`
}

// Store is a small persistent key/value table shared by cooperating Glyph
// processes of the same installation. It is meant for ephemeral cross-process
// signaling, not as a database: the only guarantee is single-key atomicity.
// Writers hold an exclusive flock for the whole read-modify-write; readers
// share a lock among themselves. The table is rewritten via temp file and
// rename so a reader never observes a partially written value.
type Store struct {
	path string
	wait time.Duration
	log  *logging.Logger
}

// Open creates a store over the backing file, creating parent directories.
// The file itself appears on first write.
func Open(path string, log *logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{path: path, wait: DefaultWait, log: log}, nil
}

// SetWait overrides the bounded write-lock wait. Zero restores the default.
func (s *Store) SetWait(d time.Duration) {
	if d <= 0 {
		d = DefaultWait
	}
	s.wait = d
}

// Put writes a value under key. Returns ErrBusy when the exclusive lock
// cannot be obtained within the bounded wait.
func (s *Store) Put(key string, value interface{}) error {
	return s.mutate(func(table map[string]Entry) {
		table[key] = Entry{
			Value:     value,
			WriterPID: os.Getpid(),
			WrittenAt: time.Now().UTC(),
		}
	})
}

// Get reads the value under key. The second return reports presence.
func (s *Store) Get(key string) (interface{}, bool, error) {
	table, err := s.readShared()
	if err != nil {
		return nil, false, err
	}
	e, ok := table[key]
	if !ok {
		return nil, false, nil
	}
	return e.Value, true, nil
}

// Remove deletes the value under key. Removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	return s.mutate(func(table map[string]Entry) {
		delete(table, key)
	})
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() ([]string, error) {
	table, err := s.readShared()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

func (s *Store) lockPath() string { return s.path + ".lock" }

func (s *Store) mutate(apply func(map[string]Entry)) error {
	lock := flock.New(s.lockPath())
	ok, err := lock.Acquire(s.wait)
	if err != nil {
		return fmt.Errorf("store lock: %w", err)
	}
	if !ok {
		return ErrBusy
	}
	defer lock.Unlock()

	table, err := s.load()
	if err != nil {
		return err
	}
	apply(table)
	return s.write(table)
}

func (s *Store) readShared() (map[string]Entry, error) {
	lock := flock.New(s.lockPath())
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("store read lock: %w", err)
	}
	defer lock.Unlock()
	return s.load()
}

func (s *Store) load() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]Entry), nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	table := make(map[string]Entry)
	if len(data) == 0 {
		return table, nil
	}
	if err := sonic.Unmarshal(data, &table); err != nil {
		// A corrupt table is recoverable state loss, not a fatal condition:
		// the store only carries ephemeral signals.
		s.log.Warn("shared store corrupt, resetting", zap.String("path", s.path), zap.Error(err))
		return make(map[string]Entry), nil
	}
	return table, nil
}

func (s *Store) write(table map[string]Entry) error {
	data, err := sonic.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*")
	if err != nil {
		return fmt.Errorf("store temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close store temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
