// Package flock provides advisory file locking via flock(2).
package flock

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// Lock provides cross-process mutual exclusion using flock(2). Cooperating
// Glyph processes (GUI front end, mux server) use it to guard shared files.
type Lock struct {
	path string
	file *os.File
}

// New creates a Lock over the given lock file path. The file is created on
// first acquisition.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Lock acquires the lock exclusively, blocking until available.
func (l *Lock) Lock() error {
	return l.acquire(syscall.LOCK_EX)
}

// RLock acquires the lock shared. Multiple readers may hold it concurrently;
// an exclusive holder excludes them.
func (l *Lock) RLock() error {
	return l.acquire(syscall.LOCK_SH)
}

// TryLock attempts an exclusive acquisition without blocking. Returns false
// if another process holds the lock.
func (l *Lock) TryLock() (bool, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return false, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if err == syscall.EWOULDBLOCK {
			return false, nil
		}
		return false, fmt.Errorf("flock: %w", err)
	}
	l.file = f
	return true, nil
}

// Acquire polls TryLock until it succeeds or the wait budget expires.
// Returns false when the budget expires with the lock still held elsewhere.
func (l *Lock) Acquire(wait time.Duration) (bool, error) {
	deadline := time.Now().Add(wait)
	for {
		ok, err := l.TryLock()
		if err != nil || ok {
			return ok, err
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Unlock releases the lock and closes the lock file.
func (l *Lock) Unlock() error {
	if l.file == nil {
		return nil
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = l.file.Close()
		l.file = nil
		return fmt.Errorf("funlock: %w", err)
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Lock) acquire(how int) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), how); err != nil {
		_ = f.Close()
		return fmt.Errorf("flock: %w", err)
	}
	l.file = f
	return nil
}
