package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewind-os/rewind/internal/output"
)

var (
	listFlagBranches  bool
	listFlagSnapshots bool
	listFlagStashes   bool
	listFlagBranch    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List branches, snapshots, or stashes",
	Long: `List timeline contents. Without flags, branches are listed with the
current branch marked.`,
	Example: `  rewind list
  rewind list --snapshots
  rewind list --snapshots --branch experiment
  rewind list --stashes`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listFlagBranches, "branches", false, "list branches (default)")
	listCmd.Flags().BoolVarP(&listFlagSnapshots, "snapshots", "s", false, "list snapshots")
	listCmd.Flags().BoolVar(&listFlagStashes, "stashes", false, "list stashes")
	listCmd.Flags().StringVarP(&listFlagBranch, "branch", "b", "", "branch to list snapshots from (default: current)")

	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	switch {
	case listFlagSnapshots:
		branch := listFlagBranch
		if branch == "" {
			branch = tl.CurrentBranch
		}
		snaps, err := tl.BranchSnapshots(branch)
		if err != nil {
			return err
		}
		fmt.Printf("Snapshots on branch %q:\n\n", branch)
		fmt.Print(output.RenderSnapshotTable(snaps))
	case listFlagStashes:
		fmt.Print(output.RenderStashTable(tl.Stashes))
	default:
		fmt.Print(output.RenderBranchTable(tl))
	}
	return nil
}
