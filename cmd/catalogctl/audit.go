// AngelaMos | 2026
// audit.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/catalog-admin/internal/audit"
)

func (a *app) auditService(cmd *cobra.Command) (*audit.Service, error) {
	db, err := a.database(cmd.Context())
	if err != nil {
		return nil, err
	}
	return audit.NewService(audit.NewRepository(db.DB), a.logger, a.cfg.Audit.RetentionDays), nil
}

func newAuditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and maintain the audit log",
	}

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent audit entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.auditService(cmd)
			if err != nil {
				return err
			}
			entries, err := svc.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			renderEntries(a.out, entries)
			return nil
		},
	}
	recent.Flags().IntVar(&limit, "limit", audit.DefaultRecentLimit, "number of entries")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show entry counts by action and by user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.auditService(cmd)
			if err != nil {
				return err
			}
			s, err := svc.Summary(cmd.Context())
			if err != nil {
				return err
			}
			renderSummary(a.out, s)
			return nil
		},
	}

	var days int
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete audit entries older than the retention period",
		Long:  "Delete audit entries older than --days. Without --days the configured audit.retention_days applies.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must be positive")
			}
			svc, err := a.auditService(cmd)
			if err != nil {
				return err
			}
			res, err := svc.Purge(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "purged %d entries older than %d days (before %s)\n",
				res.Deleted, res.Days, res.Cutoff.Format("2006-01-02"))
			return nil
		},
	}
	purge.Flags().IntVar(&days, "days", 0, "retention in days (default: audit.retention_days)")

	cmd.AddCommand(recent, summary, purge)
	return cmd
}
