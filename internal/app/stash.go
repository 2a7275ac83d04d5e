package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rewind-os/rewind/internal/output"
)

var (
	stashFlagApply bool
	stashFlagPop   bool
	stashFlagDrop  bool
	stashFlagList  bool
)

var stashCmd = &cobra.Command{
	Use:   "stash [MESSAGE | --apply [ID] | --pop [ID] | --drop [ID] | --list]",
	Short: "Shelve or re-apply work-in-progress state",
	Long: `Stashes are a detached, stack-ordered shelf for state you do not want
on the branch yet. Applying a stash records a new snapshot on the
current branch; --pop additionally removes the stash, --drop removes it
without applying. Without an ID, the most recent stash is targeted.`,
	Example: `  rewind stash "half-finished audio config"
  rewind stash --list
  rewind stash --apply
  rewind stash --pop stash_1724700000_1a2b3c4d
  rewind stash --drop`,
	RunE: runStash,
}

func init() {
	stashCmd.Flags().BoolVar(&stashFlagApply, "apply", false, "apply a stash, keeping it on the shelf")
	stashCmd.Flags().BoolVar(&stashFlagPop, "pop", false, "apply a stash and remove it")
	stashCmd.Flags().BoolVar(&stashFlagDrop, "drop", false, "remove a stash without applying it")
	stashCmd.Flags().BoolVar(&stashFlagList, "list", false, "list stashes")

	RootCmd.AddCommand(stashCmd)
}

func runStash(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	eng, cleanup, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	modes := 0
	for _, set := range []bool{stashFlagApply, stashFlagPop, stashFlagDrop, stashFlagList} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("--apply, --pop, --drop, and --list are mutually exclusive")
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	switch {
	case stashFlagList:
		tl, err := eng.Inspect()
		if err != nil {
			return err
		}
		fmt.Print(output.RenderStashTable(tl.Stashes))
		return nil

	case stashFlagApply, stashFlagPop:
		res, err := eng.StashApply(id, stashFlagPop)
		if err != nil {
			return err
		}
		fmt.Printf("Applied stash %s as snapshot %s\n", res.Stash.ID, res.Snapshot.ID)
		if res.Popped {
			fmt.Printf("Dropped stash %s\n", res.Stash.ID)
		}
		return nil

	case stashFlagDrop:
		dropped, err := eng.StashDrop(id)
		if err != nil {
			return err
		}
		fmt.Printf("Dropped stash %s: %s\n", dropped.ID, dropped.Message)
		return nil

	default:
		if len(args) == 0 {
			return fmt.Errorf("stash message required\n\nUsage: rewind stash MESSAGE")
		}
		st, err := eng.Stash(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Created stash %s on branch %q\n", st.ID, st.SourceBranch)
		return nil
	}
}
