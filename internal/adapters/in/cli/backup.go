package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bnema/wpbackup/internal/adapters/in/cli/ui/components"
	"github.com/bnema/wpbackup/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/wpbackup/internal/domain"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Run and list WordPress backups",
	}

	cmd.AddCommand(newBackupRunCmd(opts))
	cmd.AddCommand(newBackupListCmd(opts))

	return cmd
}

func newBackupRunCmd(opts *rootOptions) *cobra.Command {
	var sites []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Back up WordPress sites and apply retention",
		Long: `Archive the configured WordPress sites into today's backup unit, upload
them and prune older units. Use --site to restrict the run to some sites.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a Application) error {
				result, err := a.RunBackup(ctx, sites...)
				if result != nil {
					if werr := renderRunResult(cmd.OutOrStdout(), result, a.Location()); werr != nil {
						return werr
					}
				}
				return err
			})
		},
	}

	cmd.Flags().StringSliceVarP(&sites, "site", "s", nil, "Site to back up (repeatable, default all)")

	return cmd
}

func newBackupListCmd(opts *rootOptions) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List backup units with their dates and current verdicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts, local)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "List the local backup directory instead of S3")

	return cmd
}

func renderRunResult(w io.Writer, result *domain.BackupRunResult, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	if err := cliWriteLine(w, cliRenderTitle("Backup unit "+result.UnitID)); err != nil {
		return err
	}
	if err := cliWriteLine(w, cliRenderMeta("Run:", result.RunID)); err != nil {
		return err
	}
	if err := cliWriteLine(w, cliRenderMeta("Started:", result.StartedAt.In(loc).Format(time.RFC3339))); err != nil {
		return err
	}

	if len(result.Sites) == 0 {
		if err := cliWriteLine(w, cliRenderEmptyState("No sites were backed up")); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(result.Sites))
		for _, s := range result.Sites {
			rows = append(rows, siteResultRow(s))
		}
		if err := cliWriteLine(w, components.SiteResultTable(rows)); err != nil {
			return err
		}
	}

	if result.RetentionSkipped {
		if err := cliWriteLine(w, cliRenderWarning("Retention skipped: no site was stored")); err != nil {
			return err
		}
	}
	if result.Retention != nil {
		if err := renderSummary(w, "Remote retention", *result.Retention); err != nil {
			return err
		}
	}
	if result.LocalRetention != nil {
		if err := renderSummary(w, "Local retention", *result.LocalRetention); err != nil {
			return err
		}
	}

	msg := fmt.Sprintf("%d/%d sites backed up", result.Succeeded(), len(result.Sites))
	if result.Succeeded() == len(result.Sites) {
		return cliWriteLine(w, cliRenderSuccess(msg))
	}
	return cliWriteLine(w, cliRenderError(msg))
}

func siteResultRow(s domain.SiteBackupResult) []string {
	size := "-"
	detail := s.RemoteKey
	if s.Status == domain.SiteBackupCompleted {
		size = humanize.IBytes(uint64(s.SizeBytes))
	} else {
		detail = s.Error
	}
	return []string{
		s.Site,
		styles.RenderBadge(string(s.Status)),
		size,
		s.Duration.Round(time.Millisecond).String(),
		detail,
	}
}

func renderSummary(w io.Writer, label string, summary domain.RetentionSummary) error {
	if summary.Empty {
		return cliWriteLine(w, cliRenderMeta(label+":", "no backup units found"))
	}

	line := fmt.Sprintf("%d retained, %d deleted, %d failed, %d unparsed",
		summary.Retained, summary.Deleted, summary.Failed, summary.Unparsed)
	if summary.Failed > 0 {
		return cliWriteLine(w, cliRenderWarning(label+": "+line))
	}
	return cliWriteLine(w, cliRenderMeta(label+":", line))
}
