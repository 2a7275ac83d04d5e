package engine

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/rewind-os/rewind/internal/store"
	"github.com/rewind-os/rewind/internal/timeline"
)

func TestRestoreSafeOnCurrentBranch(t *testing.T) {
	eng, sink := newTestEngine(t)

	a, err := eng.Snapshot("A", false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := eng.Snapshot("B", false)
	if err != nil {
		t.Fatal(err)
	}

	res, err := eng.Restore(a.ID, false)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if res.Safety == nil {
		t.Fatal("no safety snapshot recorded in safe mode")
	}
	if !res.Safety.Auto {
		t.Error("safety snapshot not marked auto")
	}
	if res.Safety.Message != SafetyMessage {
		t.Errorf("safety message = %q, want %q", res.Safety.Message, SafetyMessage)
	}
	if res.Switched {
		t.Error("restore within one branch reported a switch")
	}
	if res.Record == nil {
		t.Fatal("no restore record appended")
	}
	if res.Record.RestoredFrom != a.ID {
		t.Errorf("RestoredFrom = %q, want %q", res.Record.RestoredFrom, a.ID)
	}
	if res.Record.PreRestoreSnapshot != res.Safety.ID {
		t.Errorf("PreRestoreSnapshot = %q, want %q", res.Record.PreRestoreSnapshot, res.Safety.ID)
	}

	// History: [A, B, safety, restore-record], current branch unchanged.
	tl, err := eng.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if tl.CurrentBranch != timeline.DefaultBranch {
		t.Errorf("CurrentBranch = %q, want %q", tl.CurrentBranch, timeline.DefaultBranch)
	}
	ids := tl.Branches[timeline.DefaultBranch].SnapshotIDs
	want := []string{a.ID, b.ID, res.Safety.ID, res.Record.ID}
	if len(ids) != len(want) {
		t.Fatalf("history = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
	if err := tl.Validate(); err != nil {
		t.Errorf("Validate(): %v", err)
	}

	if len(sink.events) != 1 || sink.events[0].Op != "restore" {
		t.Errorf("events = %+v, want one restore event", sink.events)
	}
	if sink.events[0].SnapshotID != a.ID {
		t.Errorf("event snapshot = %q, want %q", sink.events[0].SnapshotID, a.ID)
	}
}

func TestRestoreAcrossBranches(t *testing.T) {
	eng, _ := newTestEngine(t)

	target, err := eng.Snapshot("on main", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.CreateBranch("feature", "", "", true); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Snapshot("on feature", false); err != nil {
		t.Fatal(err)
	}

	res, err := eng.Restore(target.ID, false)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !res.Switched {
		t.Error("cross-branch restore did not report a switch")
	}
	// The safety snapshot lands on the branch we came from.
	if res.Safety.Branch != "feature" {
		t.Errorf("safety branch = %q, want feature", res.Safety.Branch)
	}
	// The restore record lands on the branch we restored into.
	if res.Record.Branch != "main" {
		t.Errorf("record branch = %q, want main", res.Record.Branch)
	}

	tl, err := eng.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if tl.CurrentBranch != "main" {
		t.Errorf("CurrentBranch = %q, want main", tl.CurrentBranch)
	}
	if err := tl.Validate(); err != nil {
		t.Errorf("Validate(): %v", err)
	}
}

func TestRestoreUnsafeSkipsSafetySnapshot(t *testing.T) {
	eng, _ := newTestEngine(t)

	a, err := eng.Snapshot("A", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Snapshot("B", false); err != nil {
		t.Fatal(err)
	}

	res, err := eng.Restore(a.ID, true)
	if err != nil {
		t.Fatalf("Restore unsafe: %v", err)
	}
	if res.Safety != nil {
		t.Error("unsafe restore recorded a safety snapshot")
	}
	if res.Record == nil {
		t.Error("unsafe restore to a non-current snapshot should still append a record")
	}

	tl, err := eng.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range tl.Snapshots {
		if s.Auto {
			t.Errorf("auto snapshot %q exists after unsafe restore", s.ID)
		}
	}
}

func TestRestoreToCurrentSnapshot(t *testing.T) {
	t.Run("safe mode still records safety snapshot", func(t *testing.T) {
		eng, _ := newTestEngine(t)
		head, err := eng.Snapshot("head", false)
		if err != nil {
			t.Fatal(err)
		}

		res, err := eng.Restore(head.ID, false)
		if err != nil {
			t.Fatalf("Restore: %v", err)
		}
		if res.Safety == nil {
			t.Error("safety snapshot missing")
		}
		if res.Record != nil {
			t.Error("restore-to-current appended a restore record")
		}
	})

	t.Run("unsafe mode is a pure no-op", func(t *testing.T) {
		eng, sink := newTestEngine(t)
		head, err := eng.Snapshot("head", false)
		if err != nil {
			t.Fatal(err)
		}
		st := store.New(engineDir(t, eng))
		before, err := os.ReadFile(st.Path())
		if err != nil {
			t.Fatal(err)
		}

		res, err := eng.Restore(head.ID, true)
		if err != nil {
			t.Fatalf("Restore: %v", err)
		}
		if res.Safety != nil || res.Record != nil {
			t.Errorf("no-op restore produced snapshots: %+v", res)
		}
		if len(sink.events) != 0 {
			t.Errorf("no-op restore fired triggers: %+v", sink.events)
		}

		after, err := os.ReadFile(st.Path())
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(before, after) {
			t.Error("no-op restore modified the durable document")
		}
	})
}

func TestRestoreUnknownSnapshot(t *testing.T) {
	eng, sink := newTestEngine(t)

	_, err := eng.Restore("snap_0_deadbeef", false)
	if !errors.Is(err, timeline.ErrUnknownSnapshot) {
		t.Errorf("error = %v, want ErrUnknownSnapshot", err)
	}
	if len(sink.events) != 0 {
		t.Error("trigger fired for failed restore")
	}
}

func TestPlanRestore(t *testing.T) {
	eng, _ := newTestEngine(t)

	target, err := eng.Snapshot("on main", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.CreateBranch("feature", "", "", true); err != nil {
		t.Fatal(err)
	}

	plan, err := eng.PlanRestore(target.ID)
	if err != nil {
		t.Fatalf("PlanRestore: %v", err)
	}
	if plan.Target.ID != target.ID {
		t.Errorf("plan target = %q, want %q", plan.Target.ID, target.ID)
	}
	if !plan.WouldSwitch {
		t.Error("WouldSwitch = false, want true")
	}
	if plan.FromBranch != "feature" {
		t.Errorf("FromBranch = %q, want feature", plan.FromBranch)
	}
	if plan.Describe() == "" {
		t.Error("Describe() returned empty string")
	}

	// Planning never mutates.
	tl, err := eng.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Snapshots) != 1 {
		t.Errorf("PlanRestore created snapshots: %d", len(tl.Snapshots))
	}

	if _, err := eng.PlanRestore("snap_0_deadbeef"); !errors.Is(err, timeline.ErrUnknownSnapshot) {
		t.Errorf("unknown id error = %v, want ErrUnknownSnapshot", err)
	}
}
