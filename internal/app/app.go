package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/zerowrap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bnema/wpbackup/internal/adapters/out/archive"
	"github.com/bnema/wpbackup/internal/adapters/out/filesystem"
	"github.com/bnema/wpbackup/internal/adapters/out/mysqldump"
	"github.com/bnema/wpbackup/internal/adapters/out/pushgateway"
	"github.com/bnema/wpbackup/internal/adapters/out/s3store"
	"github.com/bnema/wpbackup/internal/adapters/out/telemetry"
	"github.com/bnema/wpbackup/internal/adapters/out/wpconfig"
	"github.com/bnema/wpbackup/internal/boundaries/in"
	"github.com/bnema/wpbackup/internal/domain"
	"github.com/bnema/wpbackup/internal/usecase/backup"
	"github.com/bnema/wpbackup/internal/usecase/cron"
	"github.com/bnema/wpbackup/internal/usecase/retention"
)

const (
	serviceName     = "wpbackup"
	backupJobID     = "backup"
	shutdownTimeout = 10 * time.Second
)

// App holds the wired services behind every CLI command.
//
// It does not start the scheduler by itself; Serve does.
type App struct {
	cfg             Config
	log             zerowrap.Logger
	location        *time.Location
	schedule        domain.CronSchedule
	backupSvc       *backup.Service
	remoteRetention *retention.Service
	localRetention  *retention.Service
	tracer          trace.Tracer
	cleanups        []func()
}

// New loads configuration and wires every adapter and use case.
func New(ctx context.Context, configPath, version string) (*App, error) {
	_, cfg, err := initConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, logCleanup, err := initLogger(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log, tracer: otel.Tracer(serviceName)}
	if logCleanup != nil {
		a.cleanups = append(a.cleanups, logCleanup)
	}

	ctx = zerowrap.WithCtx(ctx, log)
	if err := a.wire(ctx, version); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// initLogger initializes the zerowrap logger.
func initLogger(cfg Config) (zerowrap.Logger, func(), error) {
	logConfig := zerowrap.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}

	if cfg.Logging.File.Enabled {
		logPath := resolveLogFilePath(cfg)
		log, cleanup, err := zerowrap.NewWithFile(logConfig, zerowrap.FileConfig{
			Enabled:    true,
			Path:       logPath,
			MaxSize:    cfg.Logging.File.MaxSize,
			MaxBackups: cfg.Logging.File.MaxBackups,
			MaxAge:     cfg.Logging.File.MaxAge,
			Compress:   true,
		})
		if err != nil {
			return zerowrap.Default(), nil, fmt.Errorf("failed to create logger with file: %w", err)
		}
		return log, cleanup, nil
	}

	return zerowrap.New(logConfig), nil, nil
}

// resolveLogFilePath returns the configured log file path or a default.
func resolveLogFilePath(cfg Config) string {
	if cfg.Logging.File.Path != "" {
		return cfg.Logging.File.Path
	}
	return "/var/log/wpbackup/wpbackup.log"
}

func (a *App) wire(ctx context.Context, version string) error {
	cfg := a.cfg
	log := a.log

	loc, err := resolveLocation(cfg.Retention.Timezone)
	if err != nil {
		return fmt.Errorf("%w: retention.timezone: %w", domain.ErrInvalidConfig, err)
	}
	a.location = loc

	if a.schedule, err = resolveSchedule(cfg.Schedule.Cron); err != nil {
		return fmt.Errorf("%w: schedule.cron: %w", domain.ErrInvalidConfig, err)
	}

	policy, err := retentionPolicy(cfg)
	if err != nil {
		return fmt.Errorf("%w: retention: %w", domain.ErrInvalidConfig, err)
	}

	_, shutdown, err := telemetry.NewProvider(ctx, cfg.Telemetry, serviceName, version)
	if err != nil {
		return log.WrapErr(err, "failed to initialize telemetry")
	}
	a.cleanups = append(a.cleanups, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdown(shutdownCtx)
	})

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return log.WrapErr(err, "failed to create metric instruments")
	}
	recorder := &recorders{}
	recorder.add(metrics)
	if cfg.Metrics.Pushgateway.Enabled {
		recorder.add(pushgateway.New(cfg.Metrics.Pushgateway))
	}

	remote, err := s3store.New(ctx, s3store.Config{
		Endpoint:     cfg.Storage.S3.Endpoint,
		Region:       cfg.Storage.S3.Region,
		Bucket:       cfg.Storage.S3.Bucket,
		Prefix:       cfg.Storage.S3.Prefix,
		AccessKey:    cfg.Storage.S3.AccessKey,
		SecretKey:    cfg.Storage.S3.SecretKey,
		UsePathStyle: cfg.Storage.S3.UsePathStyle,
		PartSizeMB:   cfg.Storage.S3.PartSizeMB,
	}, log)
	if err != nil {
		return log.WrapErr(err, "failed to create s3 storage")
	}

	retentionConfig := retention.Config{
		Policy:              policy,
		Location:            loc,
		MaxParallelDeletes:  cfg.Retention.MaxParallelDeletes,
		DeleteRatePerSecond: cfg.Retention.DeleteRatePerSecond,
	}

	remoteCfg := retentionConfig
	remoteCfg.Target = "remote"
	a.remoteRetention = retention.NewService(remote, recorder, remoteCfg)

	tarball, err := archive.NewTarball(cfg.Tools.CompressionLevel)
	if err != nil {
		return fmt.Errorf("%w: tools.compression_level: %w", domain.ErrInvalidConfig, err)
	}

	dumper := mysqldump.New(mysqldump.Config{
		DumpBinary:   cfg.Tools.Mysqldump,
		ClientBinary: cfg.Tools.Mysql,
		ExtraArgs:    cfg.Tools.DumpArgs,
	}, log)

	a.backupSvc = backup.NewService(
		remote,
		tarball,
		dumper,
		wpconfig.NewReader(log),
		a.remoteRetention,
		backup.Config{
			Sites:    cfg.sites(),
			Location: loc,
			WorkDir:  cfg.Tools.WorkDir,
		},
		log,
	).WithRecorder(recorder)

	if cfg.Storage.Local.Enabled {
		local, err := filesystem.NewBackupStorage(cfg.Storage.Local.Dir, log)
		if err != nil {
			return log.WrapErr(err, "failed to create local storage")
		}

		localCfg := retentionConfig
		localCfg.Target = "local"
		a.localRetention = retention.NewService(local, recorder, localCfg)

		var localRetention in.RetentionService
		if cfg.Retention.Local {
			localRetention = a.localRetention
		}
		a.backupSvc.WithLocalCopy(local, localRetention)
	}

	log.Debug().
		Str(zerowrap.FieldLayer, "app").
		Str("bucket", cfg.Storage.S3.Bucket).
		Int(zerowrap.FieldCount, len(cfg.Sites)).
		Bool("local_copy", cfg.Storage.Local.Enabled).
		Msg("services wired")

	return nil
}

// Context attaches the application logger to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	return zerowrap.WithCtx(ctx, a.log)
}

// Backup returns the backup service.
func (a *App) Backup() in.BackupService { return a.backupSvc }

// Retention returns the retention service of the remote catalogue, or of the
// local catalogue when local is set.
func (a *App) Retention(local bool) (in.RetentionService, error) {
	if !local {
		return a.remoteRetention, nil
	}
	if a.localRetention == nil {
		return nil, fmt.Errorf("%w: storage.local is not enabled", domain.ErrInvalidConfig)
	}
	return a.localRetention, nil
}

// Location is the calendar zone used to name and age backup units.
func (a *App) Location() *time.Location { return a.location }

// Schedule is the cron schedule of the backup job.
func (a *App) Schedule() domain.CronSchedule { return a.schedule }

// RunBackup runs one traced backup job.
func (a *App) RunBackup(ctx context.Context, sites ...string) (*domain.BackupRunResult, error) {
	ctx, span := a.tracer.Start(ctx, "backup.run", trace.WithAttributes(
		attribute.StringSlice("sites", sites),
	))
	defer span.End()

	result, err := a.backupSvc.Run(ctx, sites...)
	if result != nil {
		span.SetAttributes(
			attribute.String("unit_id", result.UnitID),
			attribute.Int("sites.succeeded", result.Succeeded()),
			attribute.Int("sites.total", len(result.Sites)),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

// Serve runs the backup job on its cron schedule until ctx is done or the
// process receives SIGINT or SIGTERM. With runNow the job also runs once at
// startup. Running jobs are cancelled and drained before Serve returns.
func (a *App) Serve(ctx context.Context, runNow bool) error {
	ctx = a.Context(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := a.log
	scheduler := cron.NewScheduler(log, cron.WithLocation(a.location))
	err := scheduler.Add(backupJobID, "WordPress backup", a.schedule, func(ctx context.Context) error {
		_, err := a.RunBackup(ctx)
		return err
	})
	if err != nil {
		return log.WrapErr(err, "failed to schedule backup job")
	}

	scheduler.Start(ctx)
	if runNow {
		go func() {
			err := scheduler.RunNow(ctx, backupJobID)
			if err != nil && !errors.Is(err, cron.ErrStopped) {
				log.Warn().Err(err).Str(zerowrap.FieldLayer, "app").Msg("startup backup failed")
			}
		}()
	}
	for _, entry := range scheduler.List() {
		log.Info().
			Str(zerowrap.FieldLayer, "app").
			Str("schedule", entry.Schedule.Expr).
			Time("next_run", entry.NextRun).
			Msg("backup scheduler started")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-ctx.Done():
		log.Info().Str(zerowrap.FieldLayer, "app").Msg("context cancelled, shutting down")
	case sig := <-quit:
		log.Info().Str(zerowrap.FieldLayer, "app").Str("signal", sig.String()).Msg("received shutdown signal")
	}

	cancel()
	scheduler.Stop()
	scheduler.Wait()
	return nil
}

// Close flushes telemetry and releases the log file.
func (a *App) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}
