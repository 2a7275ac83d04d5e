package engine

import (
	"errors"
	"fmt"

	"github.com/rewind-os/rewind/internal/audit"
	"github.com/rewind-os/rewind/internal/timeline"
	"github.com/rewind-os/rewind/internal/trigger"
)

// SafetyMessage is the message recorded on the automatic snapshot
// taken immediately before a restore.
const SafetyMessage = "pre-restore safety snapshot"

// RestorePlan describes what a restore would do, for confirmation
// prompts and the --info path. It is produced without mutating
// anything.
type RestorePlan struct {
	Target      *timeline.Snapshot
	FromBranch  string
	WouldSwitch bool
}

// Describe renders a one-line summary of the plan for confirmation
// prompts.
func (p *RestorePlan) Describe() string {
	if p.WouldSwitch {
		return fmt.Sprintf("Restore to %s (%q) and switch from branch %q to %q?",
			p.Target.ID, p.Target.Message, p.FromBranch, p.Target.Branch)
	}
	return fmt.Sprintf("Restore to %s (%q) on branch %q?",
		p.Target.ID, p.Target.Message, p.FromBranch)
}

// RestoreResult reports a completed restore.
type RestoreResult struct {
	Target *timeline.Snapshot
	// Safety is the automatic pre-restore snapshot, nil in unsafe mode
	// or when the restore was a no-op in unsafe mode.
	Safety *timeline.Snapshot
	// Record is the restore record appended to the landing branch, nil
	// when restoring to the snapshot that is already current.
	Record   *timeline.Snapshot
	Switched bool
}

// PlanRestore resolves a restore target without mutating anything.
// This backs the CLI confirmation prompt and `restore --info`.
func (e *Engine) PlanRestore(id string) (*RestorePlan, error) {
	tl, err := e.Inspect()
	if err != nil {
		return nil, err
	}
	target, err := tl.FindSnapshot(id)
	if err != nil {
		return nil, err
	}
	return &RestorePlan{
		Target:      target,
		FromBranch:  tl.CurrentBranch,
		WouldSwitch: target.Branch != tl.CurrentBranch,
	}, nil
}

// Restore moves the timeline to a prior snapshot. Unless unsafe, an
// automatic safety snapshot is recorded on the current branch first so
// the pre-restore state stays recoverable. The current branch switches
// to the target's branch when they differ, and a restore record is
// appended to the landing branch.
//
// Restoring to the snapshot that is already current is a no-op that
// still records the safety snapshot unless unsafe; in unsafe mode the
// durable document is left untouched.
func (e *Engine) Restore(id string, unsafe bool) (*RestoreResult, error) {
	res := &RestoreResult{}
	work, err := e.transact(func(work *timeline.Timeline) error {
		target, err := work.FindSnapshot(id)
		if err != nil {
			return err
		}
		res.Target = target

		fromBranch := work.CurrentBranch
		atCurrent := target.Branch == fromBranch && work.Branches[fromBranch].Head() == target.ID

		if !unsafe {
			safety, err := work.RecordSnapshot(fromBranch, SafetyMessage, true)
			if err != nil {
				return err
			}
			res.Safety = safety
		}
		if atCurrent {
			if unsafe {
				return errNoop
			}
			return nil
		}

		if target.Branch != fromBranch {
			if err := work.SetCurrentBranch(target.Branch); err != nil {
				return err
			}
			res.Switched = true
		}

		record, err := work.RecordSnapshot(work.CurrentBranch,
			fmt.Sprintf("restored to %s: %s", target.ID, target.Message), false)
		if err != nil {
			return err
		}
		record.RestoredFrom = target.ID
		if res.Safety != nil {
			record.PreRestoreSnapshot = res.Safety.ID
		}
		res.Record = record
		return nil
	})
	if err == errNoop {
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	e.record(audit.Event{
		Op:     "restore",
		Branch: work.CurrentBranch,
		RefID:  id,
		Detail: res.Target.Message,
	})
	if res.Record != nil || res.Switched {
		e.notify(trigger.Event{Op: "restore", Branch: work.CurrentBranch, SnapshotID: id})
	}
	return res, nil
}

// errNoop aborts a transaction that turned out to have nothing to
// persist, without surfacing an error to the caller.
var errNoop = errors.New("no-op")
