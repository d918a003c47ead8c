// Package cli implements the command-line adapter of wpbackup.
// Commands delegate to the app layer and render results with the ui packages.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/wpbackup/internal/app"
	"github.com/bnema/wpbackup/internal/boundaries/in"
	"github.com/bnema/wpbackup/internal/domain"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Application is the wired backend driven by the commands.
type Application interface {
	Context(ctx context.Context) context.Context
	Backup() in.BackupService
	Retention(local bool) (in.RetentionService, error)
	RunBackup(ctx context.Context, sites ...string) (*domain.BackupRunResult, error)
	Location() *time.Location
	Serve(ctx context.Context, runNow bool) error
	Close()
}

var newApplication = func(ctx context.Context, configPath string) (Application, error) {
	a, err := app.New(ctx, configPath, Version)
	if err != nil {
		return nil, err
	}
	return a, nil
}

type rootOptions struct {
	configPath string
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "wpbackup",
		Short: "wpbackup - WordPress backups with tiered retention on S3",
		Long: `wpbackup archives WordPress sites (files and database) into dated units
on S3 compatible storage and prunes them with a daily, weekly and monthly
retention policy.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(newBackupCmd(opts))
	rootCmd.AddCommand(newRestoreCmd(opts))
	rootCmd.AddCommand(newRetentionCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("wpbackup %s\n", Version)
			cmd.Printf("Commit: %s\n", Commit)
			cmd.Printf("Build Date: %s\n", BuildDate)
		},
	}
}

// withApp builds the application for one command and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a Application) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApplication(ctx, opts.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a.Context(ctx), a)
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(version, commit, date string) {
	Version = version
	Commit = commit
	BuildDate = date
}
