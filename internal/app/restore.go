package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rewind-os/rewind/internal/engine"
	"github.com/rewind-os/rewind/internal/output"
)

var (
	restoreFlagForce  bool
	restoreFlagUnsafe bool
	restoreFlagInfo   bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Restore the timeline to a snapshot",
	Long: `Restore the timeline to a prior snapshot.

Unless --unsafe is given, an automatic safety snapshot is recorded on
the current branch first, so the state immediately before the restore
stays recoverable. If the target snapshot lives on another branch, the
current branch switches to it.

The restore tracks metadata only; the configured reload hook is invoked
afterwards to bring the running environment in line.`,
	Example: `  rewind restore snap_1724700000_1a2b3c4d
  rewind restore snap_1724700000_1a2b3c4d --info   # show what would happen
  rewind restore snap_1724700000_1a2b3c4d --force  # no confirmation prompt
  rewind restore snap_1724700000_1a2b3c4d --unsafe # skip the safety snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().BoolVar(&restoreFlagForce, "force", false, "skip confirmation prompt")
	restoreCmd.Flags().BoolVar(&restoreFlagUnsafe, "unsafe", false, "skip the pre-restore safety snapshot")
	restoreCmd.Flags().BoolVar(&restoreFlagInfo, "info", false, "show the restore target without restoring")

	RootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	eng, cleanup, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	id := args[0]
	plan, err := eng.PlanRestore(id)
	if err != nil {
		return fmt.Errorf("%w\n\nRun 'rewind list --snapshots' to see available snapshots", err)
	}

	if restoreFlagInfo {
		fmt.Print(output.RenderSnapshotInfo(plan.Target))
		if plan.WouldSwitch {
			fmt.Printf("\nRestoring would switch from branch %q to %q.\n", plan.FromBranch, plan.Target.Branch)
		}
		return nil
	}

	if !restoreFlagForce && !cfg.Force {
		if !confirmRestore(plan) {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	res, err := eng.Restore(id, restoreFlagUnsafe)
	if err != nil {
		return err
	}

	if res.Safety != nil {
		fmt.Printf("Recorded safety snapshot %s\n", res.Safety.ID)
	}
	if res.Switched {
		fmt.Printf("Switched to branch %q\n", res.Target.Branch)
	}
	if res.Record == nil {
		fmt.Printf("Snapshot %s is already current.\n", res.Target.ID)
		return nil
	}
	fmt.Printf("Restored to snapshot %s: %s\n", res.Target.ID, res.Target.Message)
	return nil
}

// confirmRestore prompts the user before restoring.
func confirmRestore(plan *engine.RestorePlan) bool {
	fmt.Printf("%s [y/N]: ", plan.Describe())

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
