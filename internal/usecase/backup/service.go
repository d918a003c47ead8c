// Package backup orchestrates per-site WordPress backups, their upload into
// dated backup units and the retention pass that follows every run.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"

	"github.com/bnema/wpbackup/internal/boundaries/in"
	"github.com/bnema/wpbackup/internal/boundaries/out"
	"github.com/bnema/wpbackup/internal/domain"
)

const (
	dumpTimeout   = 30 * time.Minute
	importTimeout = 60 * time.Minute
)

// Config holds the backup settings a Service needs.
type Config struct {
	Sites []domain.Site
	// Location fixes the calendar day used to name backup units. Defaults to UTC.
	Location *time.Location
	// WorkDir receives temporary dumps and archives. Defaults to os.TempDir().
	WorkDir string
}

// Service orchestrates backup operations.
type Service struct {
	remote          out.BackupStorage
	local           out.BackupStorage
	archiver        out.Archiver
	dumper          out.DatabaseDumper
	siteConfig      out.SiteConfigReader
	remoteRetention in.RetentionService
	localRetention  in.RetentionService
	recorder        out.BackupRecorder
	config          Config
	log             zerowrap.Logger
	nowFn           func() time.Time
}

// NewService creates a backup service. Local storage, local retention and
// the recorder are optional; use the With* options to attach them.
func NewService(
	remote out.BackupStorage,
	archiver out.Archiver,
	dumper out.DatabaseDumper,
	siteConfig out.SiteConfigReader,
	remoteRetention in.RetentionService,
	config Config,
	log zerowrap.Logger,
) *Service {
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &Service{
		remote:          remote,
		archiver:        archiver,
		dumper:          dumper,
		siteConfig:      siteConfig,
		remoteRetention: remoteRetention,
		config:          config,
		log:             log,
		nowFn:           time.Now,
	}
}

// WithLocalCopy keeps a copy of every archive in storage and applies
// retention to it after each run when retention is non-nil.
func (s *Service) WithLocalCopy(storage out.BackupStorage, retention in.RetentionService) *Service {
	s.local = storage
	s.localRetention = retention
	return s
}

// WithRecorder reports every run to recorder.
func (s *Service) WithRecorder(recorder out.BackupRecorder) *Service {
	s.recorder = recorder
	return s
}

// Run backs up the selected sites into today's unit, then applies retention.
//
// A failing site is logged and the run moves on to the next one. Retention
// only runs when at least one site was stored. The first error encountered
// is returned along with the full result.
func (s *Service) Run(ctx context.Context, sites ...string) (*domain.BackupRunResult, error) {
	selected, err := selectSites(s.config.Sites, sites)
	if err != nil {
		return nil, err
	}

	started := s.nowFn()
	result := &domain.BackupRunResult{
		RunID:     uuid.NewString(),
		UnitID:    domain.BackupUnitID(domain.Today(started, s.config.Location)),
		StartedAt: started.UTC(),
		Sites:     make([]domain.SiteBackupResult, 0, len(selected)),
	}

	ctx = zerowrap.WithCtx(ctx, s.log)
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "RunBackup",
		"run_id":              result.RunID,
		"unit":                result.UnitID,
	})
	log := zerowrap.FromCtx(ctx)
	log.Info().Int("sites", len(selected)).Msg("backup run started")

	var firstErr error
	for _, site := range selected {
		siteResult, err := s.backupSite(ctx, result.RunID, result.UnitID, site)
		result.Sites = append(result.Sites, siteResult)
		if err != nil {
			log.Error().Err(err).Str("site", site.Name).Msg("site backup failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("backup site %s: %w", site.Name, err)
			}
		}
	}

	if result.Succeeded() == 0 {
		result.RetentionSkipped = true
		log.Warn().Msg("no site was stored, skipping retention")
	} else {
		summary, err := s.applyRetention(ctx, s.remoteRetention)
		result.Retention = summary
		if err != nil {
			log.Error().Err(err).Msg("remote retention failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("apply remote retention: %w", err)
			}
		}

		if s.local != nil && s.localRetention != nil {
			summary, err := s.applyRetention(ctx, s.localRetention)
			result.LocalRetention = summary
			if err != nil {
				log.Error().Err(err).Msg("local retention failed")
				if firstErr == nil {
					firstErr = fmt.Errorf("apply local retention: %w", err)
				}
			}
		}
	}

	duration := s.nowFn().Sub(started)
	log.Info().
		Int("succeeded", result.Succeeded()).
		Int("failed", len(result.Sites)-result.Succeeded()).
		Dur(zerowrap.FieldDuration, duration).
		Msg("backup run completed")

	if s.recorder != nil {
		s.recorder.RecordBackupRun(ctx, *result, duration)
	}

	return result, firstErr
}

// applyRetention returns the pass summary, also when a started pass was cut
// short. A pass that never listed the catalogue has no summary.
func (s *Service) applyRetention(ctx context.Context, svc in.RetentionService) (*domain.RetentionSummary, error) {
	if svc == nil {
		return nil, nil
	}
	summary, err := svc.Apply(ctx)
	if err != nil && !errors.Is(err, domain.ErrRetentionFailed) {
		return nil, err
	}
	return &summary, err
}

func (s *Service) backupSite(ctx context.Context, runID, unitID string, site domain.Site) (domain.SiteBackupResult, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldAction:   "BackupSite",
		zerowrap.FieldEntityID: site.Name,
	})
	log := zerowrap.FromCtx(ctx)
	started := s.nowFn()

	result := domain.SiteBackupResult{
		Site:   site.Name,
		UnitID: unitID,
		Status: domain.SiteBackupFailed,
	}
	fail := func(err error) (domain.SiteBackupResult, error) {
		result.Error = err.Error()
		result.Duration = s.nowFn().Sub(started)
		return result, err
	}

	creds, err := s.resolveCredentials(ctx, site)
	if err != nil {
		return fail(err)
	}

	workDir, err := os.MkdirTemp(s.config.WorkDir, "wpbackup-"+domain.SanitizeSiteName(site.Name)+"-")
	if err != nil {
		return fail(fmt.Errorf("create work dir: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Warn().Err(err).Str("path", workDir).Msg("failed to remove work dir")
		}
	}()

	dumpPath := filepath.Join(workDir, domain.ArchiveDatabaseDump)
	dumpSize, err := s.dumpDatabase(ctx, creds, dumpPath)
	if err != nil {
		return fail(err)
	}
	log.Debug().Int64("bytes", dumpSize).Str("db", creds.Name).Msg("database dumped")

	runLogPath := filepath.Join(workDir, domain.ArchiveRunLog)
	if err := writeRunLog(runLogPath, runID, unitID, site, creds, started, dumpSize); err != nil {
		return fail(fmt.Errorf("write run log: %w", err))
	}

	name := domain.SiteArchiveName(site.Name)
	archivePath := filepath.Join(workDir, name)
	size, err := s.packArchive(ctx, archivePath, []domain.ArchiveEntry{
		{Name: domain.ArchiveContentDir, Path: site.Path},
		{Name: domain.ArchiveDatabaseDump, Path: dumpPath},
		{Name: domain.ArchiveRunLog, Path: runLogPath},
	})
	if err != nil {
		return fail(err)
	}
	result.SizeBytes = size

	key, err := storeFile(ctx, s.remote, unitID, name, archivePath, size)
	if err != nil {
		return fail(fmt.Errorf("upload archive: %w", err))
	}
	result.RemoteKey = key

	if s.local != nil {
		path, err := storeFile(ctx, s.local, unitID, name, archivePath, size)
		if err != nil {
			// the remote copy is what counts
			log.Warn().Err(err).Msg("failed to keep local copy")
		} else {
			result.LocalPath = path
		}
	}

	result.Status = domain.SiteBackupCompleted
	result.Duration = s.nowFn().Sub(started)
	log.Info().
		Str("key", key).
		Int64("bytes", size).
		Dur(zerowrap.FieldDuration, result.Duration).
		Msg("site backed up")

	return result, nil
}

func (s *Service) resolveCredentials(ctx context.Context, site domain.Site) (domain.DBCredentials, error) {
	if site.DB.Name != "" && site.DB.User != "" {
		return site.DB, nil
	}

	detected, err := s.siteConfig.ReadCredentials(ctx, site.Path)
	if err != nil {
		return domain.DBCredentials{}, err
	}

	creds := mergeCredentials(detected, site.DB)
	if creds.Empty() {
		return domain.DBCredentials{}, fmt.Errorf("%w for site %s", domain.ErrCredentialsMissing, site.Name)
	}
	return creds, nil
}

func (s *Service) dumpDatabase(ctx context.Context, creds domain.DBCredentials, path string) (int64, error) {
	dumpCtx, cancel := context.WithTimeout(ctx, dumpTimeout)
	defer cancel()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create dump file: %w", err)
	}

	counter := &byteCounter{}
	dumpErr := s.dumper.Dump(dumpCtx, creds, io.MultiWriter(f, counter))
	closeErr := f.Close()

	if dumpErr != nil {
		if errors.Is(dumpCtx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: timed out after %s", domain.ErrDumpFailed, dumpTimeout)
		}
		return 0, dumpErr
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close dump file: %w", closeErr)
	}
	return counter.n, nil
}

func (s *Service) packArchive(ctx context.Context, path string, entries []domain.ArchiveEntry) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}

	counter := &byteCounter{}
	packErr := s.archiver.Pack(ctx, io.MultiWriter(f, counter), entries)
	closeErr := f.Close()

	if packErr != nil {
		return 0, fmt.Errorf("pack archive: %w", packErr)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close archive: %w", closeErr)
	}
	return counter.n, nil
}

func storeFile(ctx context.Context, storage out.BackupStorage, unitID, name, path string, size int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return storage.Store(ctx, unitID, name, f, size)
}

// Restore downloads a site archive, swaps the site directory for its
// content and replays the database dump. It returns the unit restored from.
func (s *Service) Restore(ctx context.Context, siteName, unitID string) (string, error) {
	site, err := findSite(s.config.Sites, siteName)
	if err != nil {
		return "", err
	}

	ctx = zerowrap.WithCtx(ctx, s.log)
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "RestoreBackup",
		zerowrap.FieldEntityID: site.Name,
	})
	log := zerowrap.FromCtx(ctx)

	name := domain.SiteArchiveName(site.Name)
	unitID, err = s.resolveRestoreUnit(ctx, unitID, name)
	if err != nil {
		return "", err
	}
	ctx = zerowrap.CtxWithField(ctx, "unit", unitID)
	log = zerowrap.FromCtx(ctx)

	parent := filepath.Dir(filepath.Clean(site.Path))
	workDir, err := os.MkdirTemp(parent, ".wpbackup-restore-")
	if err != nil {
		return "", log.WrapErr(err, "failed to create restore dir")
	}
	defer os.RemoveAll(workDir)

	rc, err := s.remote.Open(ctx, unitID, name)
	if err != nil {
		return "", log.WrapErr(err, "failed to download archive")
	}
	unpackErr := s.archiver.Unpack(ctx, rc, workDir)
	_ = rc.Close()
	if unpackErr != nil {
		return "", log.WrapErr(unpackErr, "failed to unpack archive")
	}

	restoredContent := filepath.Join(workDir, domain.ArchiveContentDir)
	dumpPath := filepath.Join(workDir, domain.ArchiveDatabaseDump)
	for _, p := range []string{restoredContent, dumpPath} {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("archive %s/%s is incomplete: %w", unitID, name, err)
		}
	}

	previous, err := swapDir(site.Path, restoredContent, s.nowFn())
	if err != nil {
		return "", log.WrapErr(err, "failed to replace site files")
	}
	if previous != "" {
		log.Info().Str("path", previous).Msg("previous site files kept aside")
	}

	creds, err := s.resolveCredentials(ctx, site)
	if err == nil {
		err = s.importDatabase(ctx, creds, dumpPath)
	}
	if err != nil {
		if rbErr := rollbackDir(site.Path, previous, workDir); rbErr != nil {
			log.Error().Err(rbErr).Str("path", previous).Msg("failed to put previous site files back, move them manually")
		} else {
			log.Warn().Msg("database import failed, previous site files put back")
		}
		return "", err
	}

	log.Info().Msg("site restored")
	return unitID, nil
}

// resolveRestoreUnit validates an explicit unit, or finds the newest unit
// holding the archive.
func (s *Service) resolveRestoreUnit(ctx context.Context, unitID, archive string) (string, error) {
	if unitID != "" {
		unit, err := domain.ParseBackupUnit(unitID)
		if err != nil {
			return "", err
		}
		return unit.ID, nil
	}

	ids, err := s.remote.ListUnits(ctx)
	if err != nil {
		return "", fmt.Errorf("list backup units: %w", err)
	}

	units := make([]domain.BackupUnit, 0, len(ids))
	for _, id := range ids {
		if unit, err := domain.ParseBackupUnit(id); err == nil {
			units = append(units, unit)
		}
	}
	slices.SortFunc(units, func(a, b domain.BackupUnit) int {
		switch {
		case a.Date.After(b.Date):
			return -1
		case a.Date.Before(b.Date):
			return 1
		}
		return 0
	})

	for _, unit := range units {
		archives, err := s.remote.ListArchives(ctx, unit.ID)
		if err != nil {
			return "", fmt.Errorf("list archives of %s: %w", unit.ID, err)
		}
		if slices.Contains(archives, archive) {
			return unit.ID, nil
		}
	}

	return "", fmt.Errorf("%w: %s", domain.ErrArchiveNotFound, archive)
}

func (s *Service) importDatabase(ctx context.Context, creds domain.DBCredentials, path string) error {
	importCtx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	if err := s.dumper.Import(importCtx, creds, f); err != nil {
		if errors.Is(importCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: timed out after %s", domain.ErrImportFailed, importTimeout)
		}
		return err
	}
	return nil
}

// swapDir moves restored into place at target. An existing target is
// renamed aside and its new path returned.
func swapDir(target, restored string, now time.Time) (string, error) {
	var previous string
	if _, err := os.Stat(target); err == nil {
		previous = fmt.Sprintf("%s.pre-restore-%s", target, now.UTC().Format("20060102T150405"))
		if err := os.Rename(target, previous); err != nil {
			return "", err
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	if err := os.Rename(restored, target); err != nil {
		if previous != "" {
			_ = os.Rename(previous, target)
		}
		return "", err
	}
	return previous, nil
}

// rollbackDir undoes swapDir: the restored tree moves into scratch and the
// previous tree, if any, returns to target.
func rollbackDir(target, previous, scratch string) error {
	if err := os.Rename(target, filepath.Join(scratch, "failed-restore")); err != nil {
		return err
	}
	if previous == "" {
		return nil
	}
	return os.Rename(previous, target)
}

func writeRunLog(path, runID, unitID string, site domain.Site, creds domain.DBCredentials, started time.Time, dumpSize int64) error {
	content := fmt.Sprintf(
		"run_id=%s\nunit=%s\nsite=%s\npath=%s\ndatabase=%s\ndb_host=%s\nstarted_at=%s\ndump_bytes=%d\n",
		runID, unitID, site.Name, site.Path, creds.Name, hostLabel(creds), started.UTC().Format(time.RFC3339), dumpSize,
	)
	return os.WriteFile(path, []byte(content), 0o600)
}

type byteCounter struct {
	n int64
}

func (c *byteCounter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
