package store

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Lock takes an exclusive advisory flock on the store's lock file. It
// blocks until the lock is available. Operations hold the lock across
// load, mutate, and save so two accidental concurrent invocations
// serialize instead of racing last-save-wins.
func (s *Store) Lock() error {
	if s.lockFile != nil {
		return nil
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, lockName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return fmt.Errorf("acquire lock on %s: %w", path, err)
	}
	s.lockFile = f
	return nil
}

// Unlock releases the advisory lock. Safe to call when not held.
func (s *Store) Unlock() error {
	if s.lockFile == nil {
		return nil
	}
	f := s.lockFile
	s.lockFile = nil
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		f.Close()
		return fmt.Errorf("release lock: %w", err)
	}
	return f.Close()
}
