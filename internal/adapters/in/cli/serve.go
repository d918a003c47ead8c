package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// newServeCmd creates the serve command.
func newServeCmd(opts *rootOptions) *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run backups on the configured schedule",
		Long:  `Start the scheduler and run a backup each time the cron expression fires, until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a Application) error {
				return a.Serve(ctx, runNow)
			})
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", false, "Also run a backup immediately at startup")
	return cmd
}
