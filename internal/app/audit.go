package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewind-os/rewind/internal/audit"
	"github.com/rewind-os/rewind/internal/output"
)

var auditFlagLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the operation audit trail",
	Long: `Every mutating timeline operation is recorded in a local audit
database. The trail is append-only; prune and drop never erase it, so
snapshot ids referenced here stay meaningful after removal.`,
	Example: `  rewind audit
  rewind audit --limit 20`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().IntVar(&auditFlagLimit, "limit", 50, "maximum number of events to show (0 = all)")

	RootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	log, err := audit.Open(auditPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to open audit trail: %w", err)
	}
	defer log.Close()

	events, err := log.Recent(auditFlagLimit)
	if err != nil {
		return err
	}
	fmt.Print(output.RenderAuditTable(events))
	return nil
}
