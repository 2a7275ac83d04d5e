package engine

import (
	"fmt"

	"github.com/rewind-os/rewind/internal/audit"
	"github.com/rewind-os/rewind/internal/timeline"
)

// StashApplyResult reports a completed stash apply.
type StashApplyResult struct {
	Stash *timeline.Stash
	// Snapshot is the apply record appended to the current branch.
	Snapshot *timeline.Snapshot
	// Popped reports whether the stash was removed afterwards.
	Popped bool
}

// Stash pushes a stash entry referencing the current branch. Branch
// snapshot history is not touched.
func (e *Engine) Stash(message string) (*timeline.Stash, error) {
	var st *timeline.Stash
	_, err := e.transact(func(work *timeline.Timeline) error {
		var err error
		st, err = work.PushStash(message, work.CurrentBranch)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.record(audit.Event{Op: "stash", Branch: st.SourceBranch, RefID: st.ID, Detail: message})
	return st, nil
}

// StashApply re-materializes a stash as a new snapshot on the current
// branch. An empty id targets the most recent stash; pop removes the
// stash after a successful apply.
func (e *Engine) StashApply(id string, pop bool) (*StashApplyResult, error) {
	res := &StashApplyResult{}
	_, err := e.transact(func(work *timeline.Timeline) error {
		st, err := work.PeekStash(id)
		if err != nil {
			return err
		}
		res.Stash = st

		snap, err := work.RecordSnapshot(work.CurrentBranch,
			fmt.Sprintf("applied stash %s: %s", st.ID, st.Message), false)
		if err != nil {
			return err
		}
		snap.StashApplied = st.ID
		res.Snapshot = snap

		if pop {
			if err := work.RemoveStash(st.ID); err != nil {
				return err
			}
			res.Popped = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	op := "stash-apply"
	if pop {
		op = "stash-pop"
	}
	e.record(audit.Event{Op: op, Branch: res.Snapshot.Branch, RefID: res.Stash.ID, Detail: res.Stash.Message})
	return res, nil
}

// StashDrop removes a stash without applying it. An empty id targets
// the most recent stash.
func (e *Engine) StashDrop(id string) (*timeline.Stash, error) {
	var dropped *timeline.Stash
	_, err := e.transact(func(work *timeline.Timeline) error {
		st, err := work.PeekStash(id)
		if err != nil {
			return err
		}
		dropped = st
		return work.RemoveStash(st.ID)
	})
	if err != nil {
		return nil, err
	}
	e.record(audit.Event{Op: "stash-drop", Branch: dropped.SourceBranch, RefID: dropped.ID, Detail: dropped.Message})
	return dropped, nil
}
