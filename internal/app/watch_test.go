package app

import (
	"testing"
)

func TestWatchCommand(t *testing.T) {
	if watchCmd.Use != "watch" {
		t.Errorf("watchCmd.Use = %q, want %q", watchCmd.Use, "watch")
	}
	if watchCmd.Short == "" {
		t.Error("watchCmd.Short is empty")
	}
	if watchCmd.RunE == nil {
		t.Error("watchCmd.RunE is nil")
	}
}

func TestWatchFlags(t *testing.T) {
	tests := []struct {
		flagName string
		hidden   bool
	}{
		{"daemon", false},
		{"daemon-child", true},
		{"stop", false},
		{"status", false},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := watchCmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("flag %q not found", tt.flagName)
			}
			if flag.Hidden != tt.hidden {
				t.Errorf("flag %q hidden = %v, want %v", tt.flagName, flag.Hidden, tt.hidden)
			}
		})
	}
}
