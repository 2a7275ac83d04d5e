// Package diff renders a unified diff between two snapshot records,
// backing the `rewind diff` command. The timeline tracks metadata, so
// the diff compares the records themselves, not filesystem content.
package diff

import (
	"encoding/json"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/rewind-os/rewind/internal/timeline"
)

// Render returns a unified diff of the two snapshots rendered as
// indented JSON. Identical records produce an empty string.
func Render(a, b *timeline.Snapshot) (string, error) {
	left, err := marshal(a)
	if err != nil {
		return "", err
	}
	right, err := marshal(b)
	if err != nil {
		return "", err
	}
	if left == right {
		return "", nil
	}

	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(left),
		B:        difflib.SplitLines(right),
		FromFile: a.ID,
		ToFile:   b.ID,
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "", fmt.Errorf("failed to render diff: %w", err)
	}
	return out, nil
}

func marshal(s *timeline.Snapshot) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot %s: %w", s.ID, err)
	}
	return string(data) + "\n", nil
}
