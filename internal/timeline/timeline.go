// Package timeline implements the in-memory data model for the rewind
// timeline engine: branches, snapshots, stashes, and the invariants
// that hold them together. The package performs no I/O; persistence and
// transaction handling live in internal/store and internal/engine.
package timeline

import (
	"fmt"
	"strings"
	"time"
)

// AddBranch creates a new, empty branch. Branches do not copy history
// from their parent; they record it as lineage and diverge forward.
func (t *Timeline) AddBranch(name, description, parent string) (*Branch, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("branch name must not be empty: %w", ErrInvalidArgument)
	}
	if _, ok := t.Branches[name]; ok {
		return nil, fmt.Errorf("branch %q: %w", name, ErrDuplicateBranch)
	}
	if parent != "" {
		if _, ok := t.Branches[parent]; !ok {
			return nil, fmt.Errorf("parent branch %q: %w", parent, ErrUnknownBranch)
		}
	}
	b := &Branch{
		Name:        name,
		Description: description,
		Parent:      parent,
		SnapshotIDs: []string{},
		CreatedAt:   time.Now().UTC(),
	}
	t.Branches[name] = b
	return b, nil
}

// SetCurrentBranch moves the current-branch pointer.
func (t *Timeline) SetCurrentBranch(name string) error {
	if _, ok := t.Branches[name]; !ok {
		return fmt.Errorf("branch %q: %w", name, ErrUnknownBranch)
	}
	t.CurrentBranch = name
	return nil
}

// RecordSnapshot allocates a fresh snapshot on the named branch and
// indexes it globally. The new snapshot's parent is the branch head at
// the time of recording.
func (t *Timeline) RecordSnapshot(branch, message string, auto bool) (*Snapshot, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("snapshot message must not be empty: %w", ErrInvalidArgument)
	}
	b, ok := t.Branches[branch]
	if !ok {
		return nil, fmt.Errorf("branch %q: %w", branch, ErrUnknownBranch)
	}

	now := time.Now().UTC()
	s := &Snapshot{
		ID:        newID("snap", now),
		Message:   message,
		Branch:    branch,
		CreatedAt: now,
		Auto:      auto,
		ParentID:  b.Head(),
	}
	b.SnapshotIDs = append(b.SnapshotIDs, s.ID)
	t.Snapshots[s.ID] = s
	return s, nil
}

// FindSnapshot resolves a snapshot by id from the global index.
func (t *Timeline) FindSnapshot(id string) (*Snapshot, error) {
	s, ok := t.Snapshots[id]
	if !ok {
		return nil, fmt.Errorf("snapshot %q: %w", id, ErrUnknownSnapshot)
	}
	return s, nil
}

// BranchSnapshots returns the snapshots of the named branch in
// chronological order.
func (t *Timeline) BranchSnapshots(name string) ([]*Snapshot, error) {
	b, ok := t.Branches[name]
	if !ok {
		return nil, fmt.Errorf("branch %q: %w", name, ErrUnknownBranch)
	}
	snaps := make([]*Snapshot, 0, len(b.SnapshotIDs))
	for _, id := range b.SnapshotIDs {
		if s, ok := t.Snapshots[id]; ok {
			snaps = append(snaps, s)
		}
	}
	return snaps, nil
}

// PushStash records a new stash entry. Storage order is oldest-first;
// the most recent stash is the default target for apply/pop/drop.
func (t *Timeline) PushStash(message, sourceBranch string) (*Stash, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("stash message must not be empty: %w", ErrInvalidArgument)
	}
	now := time.Now().UTC()
	st := &Stash{
		ID:           newID("stash", now),
		Message:      message,
		SourceBranch: sourceBranch,
		CreatedAt:    now,
	}
	t.Stashes = append(t.Stashes, st)
	return st, nil
}

// PeekStash resolves a stash by id without removing it. An empty id
// selects the most recent stash.
func (t *Timeline) PeekStash(id string) (*Stash, error) {
	if len(t.Stashes) == 0 {
		return nil, fmt.Errorf("stash list is empty: %w", ErrNoStash)
	}
	if id == "" {
		return t.Stashes[len(t.Stashes)-1], nil
	}
	for _, st := range t.Stashes {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, fmt.Errorf("stash %q: %w", id, ErrNoStash)
}

// RemoveStash removes a stash by id. An empty id removes the most
// recent stash.
func (t *Timeline) RemoveStash(id string) error {
	if len(t.Stashes) == 0 {
		return fmt.Errorf("stash list is empty: %w", ErrNoStash)
	}
	if id == "" {
		t.Stashes = t.Stashes[:len(t.Stashes)-1]
		return nil
	}
	for i, st := range t.Stashes {
		if st.ID == id {
			t.Stashes = append(t.Stashes[:i], t.Stashes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("stash %q: %w", id, ErrNoStash)
}

// Validate checks the aggregate invariants. It runs on every load and
// is cheap enough to run after every mutation in tests.
func (t *Timeline) Validate() error {
	if len(t.Branches) == 0 {
		return fmt.Errorf("timeline has no branches")
	}
	if _, ok := t.Branches[DefaultBranch]; !ok {
		return fmt.Errorf("default branch %q is missing", DefaultBranch)
	}
	if _, ok := t.Branches[t.CurrentBranch]; !ok {
		return fmt.Errorf("current branch %q does not exist", t.CurrentBranch)
	}

	seen := make(map[string]string, len(t.Snapshots))
	for name, b := range t.Branches {
		if b.Name != name {
			return fmt.Errorf("branch key %q does not match record name %q", name, b.Name)
		}
		for _, id := range b.SnapshotIDs {
			s, ok := t.Snapshots[id]
			if !ok {
				return fmt.Errorf("branch %q references unknown snapshot %q", name, id)
			}
			if s.Branch != name {
				return fmt.Errorf("snapshot %q is on branch %q but claims branch %q", id, name, s.Branch)
			}
			if owner, dup := seen[id]; dup {
				return fmt.Errorf("snapshot %q referenced by both %q and %q", id, owner, name)
			}
			seen[id] = name
		}
	}
	for id := range t.Snapshots {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("snapshot %q is indexed but referenced by no branch", id)
		}
	}

	stashIDs := make(map[string]bool, len(t.Stashes))
	for _, st := range t.Stashes {
		if stashIDs[st.ID] {
			return fmt.Errorf("duplicate stash id %q", st.ID)
		}
		stashIDs[st.ID] = true
	}
	return nil
}
