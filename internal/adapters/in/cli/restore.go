package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <site> [unit]",
		Short: "Restore a site from a backup unit",
		Long: `Restore the files and database of a site. Without a unit the newest unit
holding an archive of the site is used.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			site := args[0]
			unit := ""
			if len(args) == 2 {
				unit = args[1]
			}

			return withApp(cmd, opts, func(ctx context.Context, a Application) error {
				restored, err := a.Backup().Restore(ctx, site, unit)
				if err != nil {
					return err
				}
				return cliWriteLine(cmd.OutOrStdout(), cliRenderSuccess("Restored "+site+" from "+restored))
			})
		},
	}
}
