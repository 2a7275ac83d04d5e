package engine

import (
	"fmt"
	"strings"

	"github.com/rewind-os/rewind/internal/audit"
	"github.com/rewind-os/rewind/internal/timeline"
)

// Prune applies a retention policy to the named branch (the current
// branch when empty) and returns the removed snapshot ids, oldest
// first, for audit logging.
func (e *Engine) Prune(branch string, policy timeline.RetentionPolicy) ([]string, error) {
	var removed []string
	var pruned string
	_, err := e.transact(func(work *timeline.Timeline) error {
		pruned = branch
		if pruned == "" {
			pruned = work.CurrentBranch
		}
		var err error
		removed, err = work.Prune(pruned, policy)
		if err != nil {
			return err
		}
		if len(removed) == 0 {
			return errNoop
		}
		return nil
	})
	if err == errNoop {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e.record(audit.Event{
		Op:     "prune",
		Branch: pruned,
		Detail: fmt.Sprintf("removed %d: %s", len(removed), strings.Join(removed, " ")),
	})
	return removed, nil
}
