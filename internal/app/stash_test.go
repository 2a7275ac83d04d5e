package app

import (
	"testing"
)

func TestStashCommand(t *testing.T) {
	if stashCmd.Short == "" {
		t.Error("stashCmd.Short is empty")
	}
	if stashCmd.RunE == nil {
		t.Error("stashCmd.RunE is nil")
	}
}

func TestStashFlags(t *testing.T) {
	for _, name := range []string{"apply", "pop", "drop", "list"} {
		t.Run(name, func(t *testing.T) {
			flag := stashCmd.Flags().Lookup(name)
			if flag == nil {
				t.Fatalf("flag %q not found", name)
			}
			if flag.DefValue != "false" {
				t.Errorf("flag %q default = %q, want false", name, flag.DefValue)
			}
		})
	}
}
