package timeline

import (
	"fmt"
	"time"
)

// RetentionPolicy bounds a branch's snapshot history. Zero values
// disable the corresponding limit.
type RetentionPolicy struct {
	// MaxSnapshots keeps at most this many snapshots on the branch.
	MaxSnapshots int
	// MaxAge removes snapshots older than this.
	MaxAge time.Duration
}

// Enabled reports whether the policy constrains anything at all.
func (p RetentionPolicy) Enabled() bool {
	return p.MaxSnapshots > 0 || p.MaxAge > 0
}

// Prune applies a retention policy to the named branch, removing the
// oldest snapshots first. The branch's most recent snapshot is never
// removed regardless of policy, so the branch head stays recoverable.
// Removed ids are returned for audit logging and are never reused.
func (t *Timeline) Prune(branch string, policy RetentionPolicy) ([]string, error) {
	b, ok := t.Branches[branch]
	if !ok {
		return nil, fmt.Errorf("branch %q: %w", branch, ErrUnknownBranch)
	}
	if !policy.Enabled() {
		return nil, fmt.Errorf("retention policy sets no limits: %w", ErrInvalidArgument)
	}
	if len(b.SnapshotIDs) <= 1 {
		return nil, nil
	}

	overCount := 0
	if policy.MaxSnapshots > 0 && len(b.SnapshotIDs) > policy.MaxSnapshots {
		overCount = len(b.SnapshotIDs) - policy.MaxSnapshots
	}
	var cutoff time.Time
	if policy.MaxAge > 0 {
		cutoff = time.Now().UTC().Add(-policy.MaxAge)
	}

	var removed []string
	kept := b.SnapshotIDs[:0:0]
	for i, id := range b.SnapshotIDs {
		// The head (last entry) is always kept.
		last := i == len(b.SnapshotIDs)-1
		drop := false
		if !last {
			if i < overCount {
				drop = true
			}
			if !drop && policy.MaxAge > 0 {
				if s, ok := t.Snapshots[id]; ok && s.CreatedAt.Before(cutoff) {
					drop = true
				}
			}
		}
		if drop {
			removed = append(removed, id)
			delete(t.Snapshots, id)
		} else {
			kept = append(kept, id)
		}
	}
	b.SnapshotIDs = kept

	// Clear the oldest survivor's parent if it was pruned away.
	if len(removed) > 0 && len(b.SnapshotIDs) > 0 {
		if s, ok := t.Snapshots[b.SnapshotIDs[0]]; ok && s.ParentID != "" {
			if _, alive := t.Snapshots[s.ParentID]; !alive {
				s.ParentID = ""
			}
		}
	}
	return removed, nil
}
