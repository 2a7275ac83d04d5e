// Package engine implements the stateful timeline verbs. Every
// operation is a transaction: validate against a working copy of the
// aggregate, save it, and only then adopt it and fire side effects.
// A failed save leaves the durable document byte-for-byte unchanged.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rewind-os/rewind/internal/audit"
	"github.com/rewind-os/rewind/internal/store"
	"github.com/rewind-os/rewind/internal/timeline"
	"github.com/rewind-os/rewind/internal/trigger"
)

// Engine drives all timeline mutations. The audit log and trigger sink
// are optional; both are best-effort and never fail an operation.
type Engine struct {
	store *store.Store
	audit *audit.Log
	sink  trigger.Sink

	// Stderr receives warnings for failed audit writes and reload
	// hooks. Defaults to os.Stderr.
	Stderr io.Writer
}

// New creates an Engine over the given store. auditLog and sink may be
// nil to disable the audit trail or reload hooks.
func New(st *store.Store, auditLog *audit.Log, sink trigger.Sink) *Engine {
	return &Engine{
		store:  st,
		audit:  auditLog,
		sink:   sink,
		Stderr: os.Stderr,
	}
}

// transact runs one load-mutate-save pass under the store's advisory
// lock. fn mutates a deep copy of the loaded aggregate; the copy is
// adopted only if the save succeeds.
func (e *Engine) transact(fn func(work *timeline.Timeline) error) (*timeline.Timeline, error) {
	if err := e.store.Lock(); err != nil {
		return nil, err
	}
	defer e.store.Unlock()

	cur, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	work := cur.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	if err := e.store.Save(work); err != nil {
		return nil, err
	}
	return work, nil
}

// Inspect returns a read-only copy of the current aggregate.
func (e *Engine) Inspect() (*timeline.Timeline, error) {
	if err := e.store.Lock(); err != nil {
		return nil, err
	}
	defer e.store.Unlock()
	return e.store.Load()
}

// Snapshot records a snapshot on the current branch.
func (e *Engine) Snapshot(message string, auto bool) (*timeline.Snapshot, error) {
	var snap *timeline.Snapshot
	_, err := e.transact(func(work *timeline.Timeline) error {
		var err error
		snap, err = work.RecordSnapshot(work.CurrentBranch, message, auto)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.record(audit.Event{Op: "snapshot", Branch: snap.Branch, RefID: snap.ID, Detail: message})
	return snap, nil
}

// CreateBranch creates a new branch, conceptually rooted at `from`
// (the current branch when empty), and optionally switches to it.
// Branches start with no snapshots and diverge going forward.
func (e *Engine) CreateBranch(name, description, from string, switchTo bool) (*timeline.Branch, error) {
	var branch *timeline.Branch
	work, err := e.transact(func(work *timeline.Timeline) error {
		parent := from
		if parent == "" {
			parent = work.CurrentBranch
		}
		var err error
		branch, err = work.AddBranch(name, description, parent)
		if err != nil {
			return err
		}
		if switchTo {
			return work.SetCurrentBranch(name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.record(audit.Event{Op: "branch", Branch: name, Detail: description})
	if switchTo {
		e.notify(trigger.Event{Op: "switch", Branch: work.CurrentBranch})
	}
	return branch, nil
}

// Switch changes the current branch. Switching to the branch that is
// already current is a no-op: nothing is saved and no trigger fires.
func (e *Engine) Switch(name string) (switched bool, err error) {
	if err := e.store.Lock(); err != nil {
		return false, err
	}
	defer e.store.Unlock()

	cur, err := e.store.Load()
	if err != nil {
		return false, err
	}
	if cur.CurrentBranch == name {
		if _, ok := cur.Branches[name]; !ok {
			return false, fmt.Errorf("branch %q: %w", name, timeline.ErrUnknownBranch)
		}
		return false, nil
	}

	work := cur.Clone()
	if err := work.SetCurrentBranch(name); err != nil {
		return false, err
	}
	if err := e.store.Save(work); err != nil {
		return false, err
	}
	e.record(audit.Event{Op: "switch", Branch: name})
	e.notify(trigger.Event{Op: "switch", Branch: name})
	return true, nil
}

// record appends to the audit trail. Failures are downgraded to
// warnings: the operation already persisted and must not be failed
// retroactively.
func (e *Engine) record(ev audit.Event) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Record(ev); err != nil {
		fmt.Fprintf(e.Stderr, "warning: audit record failed: %v\n", err)
	}
}

// notify fires the reload hook. Failures and timeouts are logged and
// discarded; the timeline mutation they follow has already succeeded.
func (e *Engine) notify(ev trigger.Event) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Notify(context.Background(), ev); err != nil {
		fmt.Fprintf(e.Stderr, "warning: %v\n", err)
	}
}
