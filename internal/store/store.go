// Package store persists the timeline aggregate as a single JSON
// document. Saves are atomic (temp file + rename) so a crash or a
// concurrent reader can never observe a half-written document, and an
// advisory flock serializes accidental concurrent invocations.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rewind-os/rewind/internal/timeline"
)

const (
	documentName = "timeline.json"
	lockName     = "timeline.lock"

	// snapshotsSubdir is pre-provisioned for a future phase that
	// attaches filesystem payloads to snapshots. The current engine
	// only writes the metadata document.
	snapshotsSubdir = "snapshots"
)

var (
	// ErrCorruptStore marks a durable document that exists but cannot
	// be parsed or fails invariant checks. It is fatal: the store never
	// repairs or discards data on its own.
	ErrCorruptStore = errors.New("timeline store is corrupt")

	// ErrPersistence marks a failed save (disk full, permissions). The
	// durable document is guaranteed unchanged when it is returned.
	ErrPersistence = errors.New("persistence failure")
)

// Store reads and writes the durable timeline document under a single
// state directory.
type Store struct {
	dir      string
	lockFile *os.File
}

// New returns a Store rooted at dir. The directory is created lazily
// on first Load or Save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the state directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the location of the durable document.
func (s *Store) Path() string { return filepath.Join(s.dir, documentName) }

// ensureDir provisions the state directory with single-user
// permissions, plus the fixed subdirectories callers expect to exist.
func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: create state directory %s: %v", ErrPersistence, s.dir, err)
	}
	if err := os.MkdirAll(filepath.Join(s.dir, snapshotsSubdir), 0o700); err != nil {
		return fmt.Errorf("%w: create snapshots directory: %v", ErrPersistence, err)
	}
	return nil
}

// Load reads the durable document. A missing file is first-run
// bootstrap, not an error: a fresh timeline with the default branch is
// returned. A present but unreadable document fails with
// ErrCorruptStore and is never discarded.
func (s *Store) Load() (*timeline.Timeline, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return timeline.New(), nil
		}
		return nil, fmt.Errorf("read timeline document: %w", err)
	}

	var tl timeline.Timeline
	if err := json.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCorruptStore, s.Path(), err)
	}
	if err := tl.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	return &tl, nil
}

// Save serializes the full aggregate and replaces the durable document
// atomically: write to a temporary file in the same directory, sync,
// then rename over the old document. A crash mid-save leaves either
// the old or the new document in place, never a mix.
func (s *Store) Save(tl *timeline.Timeline) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal timeline: %v", ErrPersistence, err)
	}
	data = append(data, '\n')

	tmp := s.Path() + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrPersistence, tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: sync %s: %v", ErrPersistence, tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", ErrPersistence, tmp, err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", ErrPersistence, s.Path(), err)
	}
	return nil
}
