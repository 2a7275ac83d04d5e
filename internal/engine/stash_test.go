package engine

import (
	"errors"
	"testing"

	"github.com/rewind-os/rewind/internal/timeline"
)

func TestStashRoundTrip(t *testing.T) {
	eng, _ := newTestEngine(t)

	st, err := eng.Stash("wip")
	if err != nil {
		t.Fatalf("Stash: %v", err)
	}
	if st.SourceBranch != timeline.DefaultBranch {
		t.Errorf("SourceBranch = %q, want %q", st.SourceBranch, timeline.DefaultBranch)
	}

	tl, err := eng.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Stashes) != 1 {
		t.Fatalf("len(Stashes) = %d, want 1", len(tl.Stashes))
	}
	// Stashing does not touch branch history.
	if len(tl.Branches[timeline.DefaultBranch].SnapshotIDs) != 0 {
		t.Error("stash altered branch snapshot history")
	}

	res, err := eng.StashApply("", true)
	if err != nil {
		t.Fatalf("StashApply pop: %v", err)
	}
	if !res.Popped {
		t.Error("Popped = false, want true")
	}
	if res.Snapshot.StashApplied != st.ID {
		t.Errorf("StashApplied = %q, want %q", res.Snapshot.StashApplied, st.ID)
	}

	tl, err = eng.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Stashes) != 0 {
		t.Errorf("len(Stashes) = %d after pop, want 0", len(tl.Stashes))
	}
	if got := len(tl.Branches[timeline.DefaultBranch].SnapshotIDs); got != 1 {
		t.Errorf("branch has %d snapshots after pop, want 1", got)
	}
}

func TestStashApplyKeepsStash(t *testing.T) {
	eng, _ := newTestEngine(t)

	st, err := eng.Stash("keep me")
	if err != nil {
		t.Fatal(err)
	}

	res, err := eng.StashApply(st.ID, false)
	if err != nil {
		t.Fatalf("StashApply: %v", err)
	}
	if res.Popped {
		t.Error("Popped = true for plain apply")
	}

	tl, err := eng.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Stashes) != 1 {
		t.Errorf("apply removed the stash: %d remain, want 1", len(tl.Stashes))
	}
}

func TestStashApplyTargetsMostRecent(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.Stash("older"); err != nil {
		t.Fatal(err)
	}
	newer, err := eng.Stash("newer")
	if err != nil {
		t.Fatal(err)
	}

	res, err := eng.StashApply("", false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stash.ID != newer.ID {
		t.Errorf("default apply used %q, want most recent %q", res.Stash.ID, newer.ID)
	}
}

func TestStashDrop(t *testing.T) {
	eng, _ := newTestEngine(t)

	st, err := eng.Stash("drop me")
	if err != nil {
		t.Fatal(err)
	}

	dropped, err := eng.StashDrop("")
	if err != nil {
		t.Fatalf("StashDrop: %v", err)
	}
	if dropped.ID != st.ID {
		t.Errorf("dropped %q, want %q", dropped.ID, st.ID)
	}

	tl, err := eng.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Stashes) != 0 {
		t.Error("stash not removed")
	}
	// Dropping never records a snapshot.
	if len(tl.Branches[timeline.DefaultBranch].SnapshotIDs) != 0 {
		t.Error("drop altered branch snapshot history")
	}
}

func TestStashErrors(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.Stash(" "); !errors.Is(err, timeline.ErrInvalidArgument) {
		t.Errorf("blank message error = %v, want ErrInvalidArgument", err)
	}
	if _, err := eng.StashApply("", false); !errors.Is(err, timeline.ErrNoStash) {
		t.Errorf("apply on empty list error = %v, want ErrNoStash", err)
	}
	if _, err := eng.StashDrop(""); !errors.Is(err, timeline.ErrNoStash) {
		t.Errorf("drop on empty list error = %v, want ErrNoStash", err)
	}

	if _, err := eng.Stash("wip"); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.StashApply("stash_0_deadbeef", false); !errors.Is(err, timeline.ErrNoStash) {
		t.Errorf("unknown id error = %v, want ErrNoStash", err)
	}
}
