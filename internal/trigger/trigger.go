// Package trigger invokes external reload hooks after state-changing
// timeline operations. Hooks are best-effort: the engine logs a failed
// or timed-out hook and never rolls back the mutation that already
// persisted.
package trigger

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds hook execution when the configuration does not
// set one. A hung desktop reload must never wedge a CLI invocation.
const DefaultTimeout = 30 * time.Second

// Event describes the operation that just completed.
type Event struct {
	// Op is the operation name: "restore" or "switch".
	Op string
	// Branch is the current branch after the operation.
	Branch string
	// SnapshotID is the restore target, when applicable.
	SnapshotID string
}

// Sink receives post-operation events. Implementations must bound
// their own execution time; Notify errors are logged and discarded by
// the caller.
type Sink interface {
	Notify(ctx context.Context, ev Event) error
}

// CommandSink runs a configured external command with the reload mode
// as its single argument (e.g. `rewind-reload smart`). Event details
// are passed in the environment so scripts can branch on them without
// argument parsing.
type CommandSink struct {
	// Command is the hook executable. Empty disables the sink.
	Command string
	// Mode is the reload mode argument: "full", "light", "smart", ...
	Mode string
	// Timeout bounds a single invocation; DefaultTimeout when zero.
	Timeout time.Duration
}

// Notify runs the hook and returns its failure, if any, with captured
// output attached. A nil error means the hook exited zero in time.
func (c *CommandSink) Notify(ctx context.Context, ev Event) error {
	if c.Command == "" {
		return nil
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Command, c.Mode)
	cmd.Env = append(cmd.Environ(),
		"REWIND_EVENT="+ev.Op,
		"REWIND_BRANCH="+ev.Branch,
		"REWIND_SNAPSHOT="+ev.SnapshotID,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("reload hook %s timed out after %s", c.Command, timeout)
		}
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("reload hook %s failed: %w: %s", c.Command, err, msg)
		}
		return fmt.Errorf("reload hook %s failed: %w", c.Command, err)
	}
	return nil
}
