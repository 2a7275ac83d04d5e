package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var switchCmd = &cobra.Command{
	Use:   "switch NAME",
	Short: "Switch to a different branch",
	Long: `Change the current branch. Switching fires the configured reload hook;
switching to the branch that is already current is a no-op.`,
	Example: `  rewind switch main
  rewind switch experiment`,
	Args: cobra.ExactArgs(1),
	RunE: runSwitch,
}

func init() {
	RootCmd.AddCommand(switchCmd)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	eng, cleanup, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	name := args[0]
	switched, err := eng.Switch(name)
	if err != nil {
		return fmt.Errorf("%w\n\nRun 'rewind list' to see available branches", err)
	}
	if !switched {
		fmt.Printf("Already on branch %q\n", name)
		return nil
	}
	fmt.Printf("Switched to branch %q\n", name)
	return nil
}
