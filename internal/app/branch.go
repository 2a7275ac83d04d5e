package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	branchFlagFrom   string
	branchFlagSwitch bool
)

var branchCmd = &cobra.Command{
	Use:   "branch NAME [DESCRIPTION]",
	Short: "Create a new branch",
	Long: `Create a new branch of history. Branches start empty and diverge from
their parent going forward; no snapshots are copied.`,
	Example: `  rewind branch experiment "trying the new compositor"
  rewind branch experiment --switch
  rewind branch hotfix --from main`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBranch,
}

func init() {
	branchCmd.Flags().StringVar(&branchFlagFrom, "from", "", "parent branch (default: current)")
	branchCmd.Flags().BoolVar(&branchFlagSwitch, "switch", false, "switch to the new branch after creating it")

	RootCmd.AddCommand(branchCmd)
}

func runBranch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	eng, cleanup, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	name := args[0]
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	branch, err := eng.CreateBranch(name, description, branchFlagFrom, branchFlagSwitch)
	if err != nil {
		return err
	}

	fmt.Printf("Created branch %q\n", branch.Name)
	if branchFlagSwitch {
		fmt.Printf("Switched to branch %q\n", branch.Name)
	}
	return nil
}
