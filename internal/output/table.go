// Package output renders terminal tables and detail views for the
// rewind CLI. Tables use ASCII layout with ANSI colors gated on the
// terminal being a TTY and NO_COLOR being unset.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/rewind-os/rewind/internal/audit"
	"github.com/rewind-os/rewind/internal/timeline"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is
// not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(s, color string) string {
	if !IsColorEnabled() {
		return s
	}
	return color + s + colorReset
}

// RenderBranchTable renders all branches with the current branch
// marked. Branches are sorted by name with the default branch first.
func RenderBranchTable(tl *timeline.Timeline) string {
	if len(tl.Branches) == 0 {
		return "No branches found.\n"
	}

	names := make([]string, 0, len(tl.Branches))
	for name := range tl.Branches {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == timeline.DefaultBranch {
			return true
		}
		if names[j] == timeline.DefaultBranch {
			return false
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %-20s %-10s %-14s %s\n", "BRANCH", "SNAPSHOTS", "CREATED", "DESCRIPTION"))
	for _, name := range names {
		b := tl.Branches[name]
		marker := "  "
		// Pad before colorizing: ANSI codes break %-20s width math.
		display := fmt.Sprintf("%-20s", name)
		if name == tl.CurrentBranch {
			marker = "* "
			display = colorize(name, colorGreen) + display[len(name):]
		}
		sb.WriteString(fmt.Sprintf("%s%s %-10d %-14s %s\n",
			marker, display, len(b.SnapshotIDs), FormatAge(b.CreatedAt), b.Description))
	}
	return sb.String()
}

// RenderSnapshotTable renders snapshots in chronological order.
func RenderSnapshotTable(snaps []*timeline.Snapshot) string {
	if len(snaps) == 0 {
		return "No snapshots found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-28s %-14s %-9s %s\n", "ID", "CREATED", "KIND", "MESSAGE"))
	for _, s := range snaps {
		kind, color := "manual", ""
		switch {
		case s.Auto:
			kind, color = "auto", colorGray
		case s.RestoredFrom != "":
			kind, color = "restore", colorYellow
		case s.StashApplied != "":
			kind = "stash"
		}
		// Pad before colorizing: ANSI codes break %-9s width math.
		pad := strings.Repeat(" ", 9-len(kind))
		if color != "" {
			kind = colorize(kind, color)
		}
		sb.WriteString(fmt.Sprintf("%-28s %-14s %s %s\n",
			s.ID, FormatAge(s.CreatedAt), kind+pad, s.Message))
	}
	return sb.String()
}

// RenderStashTable renders the stash stack, most recent first.
func RenderStashTable(stashes []*timeline.Stash) string {
	if len(stashes) == 0 {
		return "No stashes.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-29s %-14s %-16s %s\n", "ID", "CREATED", "BRANCH", "MESSAGE"))
	for i := len(stashes) - 1; i >= 0; i-- {
		st := stashes[i]
		sb.WriteString(fmt.Sprintf("%-29s %-14s %-16s %s\n",
			st.ID, FormatAge(st.CreatedAt), st.SourceBranch, st.Message))
	}
	return sb.String()
}

// RenderAuditTable renders audit events, newest first as queried.
func RenderAuditTable(events []audit.Event) string {
	if len(events) == 0 {
		return "No audit events.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %-12s %-16s %-28s %s\n", "SEQ", "OP", "BRANCH", "REF", "DETAIL"))
	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("%-6d %-12s %-16s %-28s %s\n",
			ev.ID, ev.Op, ev.Branch, ev.RefID, ev.Detail))
	}
	return sb.String()
}

// RenderSnapshotInfo renders the full detail view for one snapshot.
func RenderSnapshotInfo(s *timeline.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Snapshot %s\n", s.ID))
	sb.WriteString(fmt.Sprintf("  Branch:   %s\n", s.Branch))
	sb.WriteString(fmt.Sprintf("  Created:  %s (%s)\n", s.CreatedAt.Format("2006-01-02 15:04:05"), FormatAge(s.CreatedAt)))
	sb.WriteString(fmt.Sprintf("  Message:  %s\n", s.Message))
	sb.WriteString(fmt.Sprintf("  Auto:     %v\n", s.Auto))
	if s.ParentID != "" {
		sb.WriteString(fmt.Sprintf("  Parent:   %s\n", s.ParentID))
	}
	if s.RestoredFrom != "" {
		sb.WriteString(fmt.Sprintf("  Restored from:   %s\n", s.RestoredFrom))
	}
	if s.PreRestoreSnapshot != "" {
		sb.WriteString(fmt.Sprintf("  Safety snapshot: %s\n", s.PreRestoreSnapshot))
	}
	if s.StashApplied != "" {
		sb.WriteString(fmt.Sprintf("  Applied stash:   %s\n", s.StashApplied))
	}
	return sb.String()
}

// FormatAge renders a timestamp as a relative age like "3h ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
