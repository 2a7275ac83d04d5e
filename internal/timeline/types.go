package timeline

import "time"

// SchemaVersion is written into every durable document so future
// readers can detect incompatible layouts instead of guessing.
const SchemaVersion = 1

// DefaultBranch is the branch every timeline starts with. It is the
// terminal floor of the model: it always exists and cannot be deleted.
const DefaultBranch = "main"

// Snapshot is an immutable record of a state transition. Once recorded
// it is never modified; prune is the only operation that removes one.
type Snapshot struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Branch    string    `json:"branch"`
	CreatedAt time.Time `json:"created_at"`
	Auto      bool      `json:"auto"`

	// ParentID references the snapshot this one was recorded on top of.
	// Empty for the first snapshot on a branch.
	ParentID string `json:"parent_id,omitempty"`

	// RestoredFrom and PreRestoreSnapshot are set on the record appended
	// after a successful restore: the target snapshot and the automatic
	// safety snapshot taken immediately before (empty in unsafe mode).
	RestoredFrom       string `json:"restored_from,omitempty"`
	PreRestoreSnapshot string `json:"pre_restore_snapshot,omitempty"`

	// StashApplied references the stash a stash-apply record came from.
	StashApplied string `json:"stash_applied,omitempty"`
}

// Branch is a named, ordered line of history. SnapshotIDs is
// append-only except for prune; insertion order is chronological order.
type Branch struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Parent      string    `json:"parent,omitempty"`
	SnapshotIDs []string  `json:"snapshot_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// Head returns the id of the most recent snapshot on the branch, or ""
// when the branch has none.
func (b *Branch) Head() string {
	if len(b.SnapshotIDs) == 0 {
		return ""
	}
	return b.SnapshotIDs[len(b.SnapshotIDs)-1]
}

// Stash is a detached, stack-ordered holding record for state not yet
// committed to a branch. Stashes carry no snapshot linkage.
type Stash struct {
	ID           string    `json:"id"`
	Message      string    `json:"message"`
	SourceBranch string    `json:"source_branch"`
	CreatedAt    time.Time `json:"created_at"`
}

// Timeline is the aggregate root: branches, the current-branch pointer,
// the global snapshot index, and the stash stack. All mutation goes
// through the methods in this package; callers never reach into the
// maps directly.
type Timeline struct {
	SchemaVersion int                  `json:"schema_version"`
	CurrentBranch string               `json:"current_branch"`
	Branches      map[string]*Branch   `json:"branches"`
	Snapshots     map[string]*Snapshot `json:"snapshots"`
	Stashes       []*Stash             `json:"stashes"`
}

// New returns a freshly initialized timeline containing only the
// default branch. This is the first-run bootstrap state.
func New() *Timeline {
	return &Timeline{
		SchemaVersion: SchemaVersion,
		CurrentBranch: DefaultBranch,
		Branches: map[string]*Branch{
			DefaultBranch: {
				Name:        DefaultBranch,
				Description: "Main timeline branch",
				SnapshotIDs: []string{},
				CreatedAt:   time.Now().UTC(),
			},
		},
		Snapshots: map[string]*Snapshot{},
		Stashes:   []*Stash{},
	}
}

// Clone returns a deep copy of the timeline. Operations mutate a clone
// and adopt it only after the persistence layer accepts it, so a failed
// save never leaves a half-applied aggregate behind.
func (t *Timeline) Clone() *Timeline {
	c := &Timeline{
		SchemaVersion: t.SchemaVersion,
		CurrentBranch: t.CurrentBranch,
		Branches:      make(map[string]*Branch, len(t.Branches)),
		Snapshots:     make(map[string]*Snapshot, len(t.Snapshots)),
		Stashes:       make([]*Stash, len(t.Stashes)),
	}
	for name, b := range t.Branches {
		nb := *b
		nb.SnapshotIDs = append([]string(nil), b.SnapshotIDs...)
		c.Branches[name] = &nb
	}
	for id, s := range t.Snapshots {
		ns := *s
		c.Snapshots[id] = &ns
	}
	for i, st := range t.Stashes {
		nst := *st
		c.Stashes[i] = &nst
	}
	return c
}
