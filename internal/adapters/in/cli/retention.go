package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bnema/wpbackup/internal/adapters/in/cli/ui/components"
	"github.com/bnema/wpbackup/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/wpbackup/internal/domain"
)

func newRetentionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retention",
		Short: "Inspect and apply the retention policy",
	}

	cmd.AddCommand(newRetentionPlanCmd(opts))
	cmd.AddCommand(newRetentionApplyCmd(opts))

	return cmd
}

func newRetentionPlanCmd(opts *rootOptions) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the verdict of every backup unit without deleting anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts, local)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Use the local backup directory instead of S3")

	return cmd
}

func runPlan(cmd *cobra.Command, opts *rootOptions, local bool) error {
	return withApp(cmd, opts, func(ctx context.Context, a Application) error {
		svc, err := a.Retention(local)
		if err != nil {
			return err
		}
		plan, err := svc.Plan(ctx)
		if err != nil {
			return err
		}
		return renderPlan(cmd.OutOrStdout(), plan)
	})
}

func newRetentionApplyCmd(opts *rootOptions) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Delete every backup unit that falls out of policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a Application) error {
				svc, err := a.Retention(local)
				if err != nil {
					return err
				}
				summary, err := svc.Apply(ctx)
				if err != nil {
					return err
				}
				label := "Remote retention"
				if local {
					label = "Local retention"
				}
				if err := renderSummary(cmd.OutOrStdout(), label, summary); err != nil {
					return err
				}
				if summary.Failed > 0 {
					return fmt.Errorf("%w: %d unit(s) could not be deleted", domain.ErrDeletionFailed, summary.Failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Use the local backup directory instead of S3")

	return cmd
}

func renderPlan(w io.Writer, plan *domain.RetentionPlan) error {
	if plan.Empty() {
		return cliWriteLine(w, cliRenderEmptyState("No backup units found"))
	}

	if err := cliWriteLine(w, cliRenderTitle("Retention plan for "+plan.Today.String())); err != nil {
		return err
	}

	kept, deleted := 0, 0
	if len(plan.Decisions) > 0 {
		rows := make([][]string, 0, len(plan.Decisions))
		for _, d := range plan.Decisions {
			if d.Verdict.Keep() {
				kept++
			} else {
				deleted++
			}
			rows = append(rows, []string{
				d.Unit.ID,
				d.Unit.Date.String(),
				fmt.Sprintf("%dd", domain.AgeInDays(plan.Today, d.Unit.Date)),
				styles.RenderBadge(string(d.Verdict)),
			})
		}
		if err := cliWriteLine(w, components.UnitTable(rows)); err != nil {
			return err
		}
	}

	if len(plan.ParseFailures) > 0 {
		if err := cliWriteLine(w, cliRenderWarning("Ignored entries without a usable date:")); err != nil {
			return err
		}
		for _, f := range plan.ParseFailures {
			if err := cliWriteLine(w, cliRenderListItem(f.ID)); err != nil {
				return err
			}
		}
	}

	return cliWritef(w, "%s\n", cliRenderInfo(fmt.Sprintf("%d to keep, %d to delete, %d unparsed",
		kept, deleted, len(plan.ParseFailures))))
}
