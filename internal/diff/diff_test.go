package diff

import (
	"strings"
	"testing"
	"time"

	"github.com/rewind-os/rewind/internal/timeline"
)

func TestRenderDifferingSnapshots(t *testing.T) {
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &timeline.Snapshot{ID: "snap_1_aaaa", Message: "before tweak", Branch: "main", CreatedAt: when}
	b := &timeline.Snapshot{ID: "snap_2_bbbb", Message: "after tweak", Branch: "main", CreatedAt: when.Add(time.Hour)}

	out, err := Render(a, b)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out == "" {
		t.Fatal("Render returned empty diff for differing snapshots")
	}
	if !strings.Contains(out, "--- snap_1_aaaa") || !strings.Contains(out, "+++ snap_2_bbbb") {
		t.Errorf("diff header missing snapshot ids:\n%s", out)
	}
	if !strings.Contains(out, "-") || !strings.Contains(out, "before tweak") {
		t.Errorf("diff missing removed content:\n%s", out)
	}
	if !strings.Contains(out, "after tweak") {
		t.Errorf("diff missing added content:\n%s", out)
	}
}

func TestRenderIdenticalSnapshots(t *testing.T) {
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &timeline.Snapshot{ID: "snap_1_aaaa", Message: "same", Branch: "main", CreatedAt: when}

	out, err := Render(a, a)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "" {
		t.Errorf("Render of identical snapshots = %q, want empty", out)
	}
}
