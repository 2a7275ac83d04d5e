package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewind-os/rewind/internal/timeline"
)

var (
	pruneFlagBranch       string
	pruneFlagMaxSnapshots int
	pruneFlagMaxAgeDays   int
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old snapshots per a retention policy",
	Long: `Apply a retention policy to a branch, removing the oldest snapshots
first. The branch's most recent snapshot is never removed. Flags
override the retention settings from the config file; at least one
limit must be in effect.`,
	Example: `  rewind prune --max-snapshots 50
  rewind prune --branch experiment --max-age 90
  rewind prune          # use retention settings from config`,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().StringVar(&pruneFlagBranch, "branch", "", "branch to prune (default: current)")
	pruneCmd.Flags().IntVar(&pruneFlagMaxSnapshots, "max-snapshots", 0, "keep at most this many snapshots")
	pruneCmd.Flags().IntVar(&pruneFlagMaxAgeDays, "max-age", 0, "remove snapshots older than this many days")

	RootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	eng, cleanup, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	policy := timeline.RetentionPolicy{
		MaxSnapshots: pruneFlagMaxSnapshots,
		MaxAge:       time.Duration(pruneFlagMaxAgeDays) * 24 * time.Hour,
	}
	if !policy.Enabled() {
		policy = timeline.RetentionPolicy{
			MaxSnapshots: cfg.Retention.MaxSnapshots,
			MaxAge:       time.Duration(cfg.Retention.MaxAgeDays) * 24 * time.Hour,
		}
	}
	if !policy.Enabled() {
		return fmt.Errorf("no retention limits configured\n\nPass --max-snapshots or --max-age, or set retention limits in the config file")
	}

	removed, err := eng.Prune(pruneFlagBranch, policy)
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		fmt.Println("Nothing to prune.")
		return nil
	}
	fmt.Printf("Pruned %d snapshots:\n", len(removed))
	for _, id := range removed {
		fmt.Printf("  - %s\n", id)
	}
	return nil
}
