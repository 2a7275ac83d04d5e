package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewind-os/rewind/internal/output"
)

var infoCmd = &cobra.Command{
	Use:   "info [ID]",
	Short: "Show timeline or snapshot details",
	Long: `Without an ID, show the current branch and overall timeline counts.
With a snapshot ID, show that snapshot's full record.`,
	Example: `  rewind info
  rewind info snap_1724700000_1a2b3c4d`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	eng, cleanup, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	tl, err := eng.Inspect()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		snap, err := tl.FindSnapshot(args[0])
		if err != nil {
			return fmt.Errorf("%w\n\nRun 'rewind list --snapshots' to see available snapshots", err)
		}
		fmt.Print(output.RenderSnapshotInfo(snap))
		return nil
	}

	current := tl.Branches[tl.CurrentBranch]
	fmt.Printf("Current branch: %s\n", tl.CurrentBranch)
	fmt.Printf("  Snapshots on branch: %d\n", len(current.SnapshotIDs))
	if head := current.Head(); head != "" {
		fmt.Printf("  Head snapshot:       %s\n", head)
	}
	fmt.Printf("Branches:  %d\n", len(tl.Branches))
	fmt.Printf("Snapshots: %d\n", len(tl.Snapshots))
	fmt.Printf("Stashes:   %d\n", len(tl.Stashes))
	fmt.Printf("Store:     %s\n", cfg.Dir)
	return nil
}
