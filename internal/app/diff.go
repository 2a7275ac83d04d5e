package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewind-os/rewind/internal/diff"
)

var diffCmd = &cobra.Command{
	Use:   "diff ID ID",
	Short: "Show a unified diff between two snapshot records",
	Example: `  rewind diff snap_1724700000_1a2b3c4d snap_1724700100_5e6f7a8b`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
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

	a, err := tl.FindSnapshot(args[0])
	if err != nil {
		return err
	}
	b, err := tl.FindSnapshot(args[1])
	if err != nil {
		return err
	}

	out, err := diff.Render(a, b)
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Println("Snapshots are identical.")
		return nil
	}
	fmt.Print(out)
	return nil
}
