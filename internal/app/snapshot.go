package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot MESSAGE",
	Short: "Record a snapshot on the current branch",
	Long: `Record a snapshot of the current system state on the current branch.

The message should describe the state transition, e.g. what was just
installed or reconfigured. Snapshots are immutable once recorded.`,
	Example: `  rewind snapshot "installed vscode"
  rewind snapshot "enabled bluetooth in configuration.nix"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSnapshot,
}

func init() {
	RootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	eng, cleanup, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	message := strings.Join(args, " ")
	snap, err := eng.Snapshot(message, false)
	if err != nil {
		return err
	}

	fmt.Printf("Created snapshot %s on branch %q\n", snap.ID, snap.Branch)
	return nil
}
