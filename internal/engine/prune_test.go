package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rewind-os/rewind/internal/audit"
	"github.com/rewind-os/rewind/internal/store"
	"github.com/rewind-os/rewind/internal/timeline"
)

func TestPruneDefaultsToCurrentBranch(t *testing.T) {
	eng, _ := newTestEngine(t)

	var ids []string
	for i := 0; i < 8; i++ {
		snap, err := eng.Snapshot("s", false)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, snap.ID)
	}

	removed, err := eng.Prune("", timeline.RetentionPolicy{MaxSnapshots: 3})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(removed) != 5 {
		t.Fatalf("removed %d, want 5", len(removed))
	}
	for i, id := range removed {
		if id != ids[i] {
			t.Errorf("removed[%d] = %q, want oldest %q", i, id, ids[i])
		}
	}

	tl, err := eng.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if got := len(tl.Branches[timeline.DefaultBranch].SnapshotIDs); got != 3 {
		t.Errorf("%d snapshots remain, want 3", got)
	}
	if err := tl.Validate(); err != nil {
		t.Errorf("Validate(): %v", err)
	}
}

func TestPruneRecordsAudit(t *testing.T) {
	log, err := audit.Open(":memory:")
	if err != nil {
		t.Fatalf("audit.Open: %v", err)
	}
	defer log.Close()

	eng := New(store.New(t.TempDir()), log, nil)
	for i := 0; i < 4; i++ {
		if _, err := eng.Snapshot("s", false); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := eng.Prune("", timeline.RetentionPolicy{MaxSnapshots: 1}); err != nil {
		t.Fatal(err)
	}

	events, err := log.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	// 4 snapshots + 1 prune, newest first.
	if len(events) != 5 {
		t.Fatalf("len(events) = %d, want 5", len(events))
	}
	if events[0].Op != "prune" {
		t.Errorf("latest event op = %q, want prune", events[0].Op)
	}
}

// TestRandomOperationSequences drives the engine through random valid
// operation sequences and asserts the aggregate invariants after every
// step.
func TestRandomOperationSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	eng, _ := newTestEngine(t)

	var branches = []string{timeline.DefaultBranch}
	var snapshotIDs []string

	for step := 0; step < 120; step++ {
		switch rng.Intn(6) {
		case 0, 1: // snapshot is the most common operation
			snap, err := eng.Snapshot("random snapshot", rng.Intn(2) == 0)
			if err != nil {
				t.Fatalf("step %d: Snapshot: %v", step, err)
			}
			snapshotIDs = append(snapshotIDs, snap.ID)
		case 2:
			name := string(rune('a'+rng.Intn(26))) + string(rune('a'+rng.Intn(26)))
			b, err := eng.CreateBranch(name, "random", "", rng.Intn(2) == 0)
			if err == nil {
				branches = append(branches, b.Name)
			}
		case 3:
			if _, err := eng.Switch(branches[rng.Intn(len(branches))]); err != nil {
				t.Fatalf("step %d: Switch: %v", step, err)
			}
		case 4:
			if len(snapshotIDs) == 0 {
				continue
			}
			id := snapshotIDs[rng.Intn(len(snapshotIDs))]
			if _, err := eng.Restore(id, rng.Intn(2) == 0); err != nil {
				t.Fatalf("step %d: Restore(%s): %v", step, id, err)
			}
		case 5:
			if rng.Intn(2) == 0 {
				if _, err := eng.Stash("random stash"); err != nil {
					t.Fatalf("step %d: Stash: %v", step, err)
				}
			} else {
				// Ignore ErrNoStash; the stack may be empty.
				_, _ = eng.StashApply("", rng.Intn(2) == 0)
			}
		}

		tl, err := eng.Inspect()
		if err != nil {
			t.Fatalf("step %d: Inspect: %v", step, err)
		}
		if err := tl.Validate(); err != nil {
			t.Fatalf("step %d: invariants violated: %v", step, err)
		}
	}
}
