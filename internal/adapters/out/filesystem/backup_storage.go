// Package filesystem keeps backup units as directories on local disk.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/zerowrap"

	"github.com/bnema/wpbackup/internal/domain"
)

const tmpSuffix = ".tmp"

// BackupStorage implements backup unit persistence on the local filesystem.
// Each unit is a directory directly below rootDir holding one archive per site.
type BackupStorage struct {
	rootDir string
	log     zerowrap.Logger
}

// NewBackupStorage creates a new filesystem backup storage.
func NewBackupStorage(rootDir string, log zerowrap.Logger) (*BackupStorage, error) {
	rootDir = expandTilde(rootDir)

	if err := os.MkdirAll(rootDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &BackupStorage{rootDir: rootDir, log: log}, nil
}

// Root returns the directory holding every unit.
func (s *BackupStorage) Root() string {
	return s.rootDir
}

// expandTilde replaces a leading "~/" with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path[2:])
	}
	return path
}

// ListUnits returns the name of every directory below the root.
func (s *BackupStorage) ListUnits(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	units := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			units = append(units, e.Name())
		}
	}
	sort.Strings(units)
	return units, nil
}

// DeleteUnit removes a unit directory and everything in it. Deleting a unit
// that no longer exists succeeds.
func (s *BackupStorage) DeleteUnit(ctx context.Context, unitID string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "filesystem",
		zerowrap.FieldAction:   "DeleteUnit",
		zerowrap.FieldEntityID: unitID,
	})
	log := zerowrap.FromCtx(ctx)

	dir, err := s.unitDir(unitID)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		log.Debug().Msg("backup unit already gone")
		return nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w %s: %w", domain.ErrDeletionFailed, unitID, err)
	}
	return nil
}

// Store writes an archive into a unit, creating the unit when needed, and
// returns the final file path. Data lands in a temporary file first so a
// partial write never shows up as an archive.
func (s *BackupStorage) Store(_ context.Context, unitID, name string, data io.Reader, _ int64) (string, error) {
	dir, err := s.unitDir(unitID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create backup unit: %w", err)
	}

	finalPath := filepath.Join(dir, sanitizeBackupPathComponent(name))
	tmpPath := finalPath + tmpSuffix

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create temp archive file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write archive data: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp archive file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize archive file: %w", err)
	}

	s.log.Debug().Str(zerowrap.FieldPath, finalPath).Msg("archive stored")
	return finalPath, nil
}

// Open returns a reader for an archive stored in a unit.
func (s *BackupStorage) Open(_ context.Context, unitID, name string) (io.ReadCloser, error) {
	dir, err := s.unitDir(unitID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, sanitizeBackupPathComponent(name)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrArchiveNotFound, unitID, name)
		}
		return nil, err
	}
	return f, nil
}

// ListArchives returns the completed archives stored in a unit.
func (s *BackupStorage) ListArchives(_ context.Context, unitID string) ([]string, error) {
	dir, err := s.unitDir(unitID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnitNotFound, unitID)
		}
		return nil, err
	}

	archives := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), tmpSuffix) {
			continue
		}
		archives = append(archives, e.Name())
	}
	sort.Strings(archives)
	return archives, nil
}

// unitDir resolves the directory of a unit and refuses anything that would
// land outside the root or on the root itself.
func (s *BackupStorage) unitDir(unitID string) (string, error) {
	clean := sanitizeBackupPathComponent(strings.TrimSuffix(unitID, "/"))
	dir := filepath.Join(s.rootDir, clean)
	if !pathWithinRoot(s.rootDir, dir) || filepath.Clean(dir) == filepath.Clean(s.rootDir) {
		return "", fmt.Errorf("backup unit %q escapes storage root", unitID)
	}
	return dir, nil
}

func sanitizeBackupPathComponent(input string) string {
	clean := strings.TrimSpace(input)
	if strings.Trim(clean, ".") == "" {
		return "unknown"
	}
	clean = strings.Trim(clean, ".")
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(clean)
}

func pathWithinRoot(root, path string) bool {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rootClean := filepath.Clean(rootAbs)
	pathClean := filepath.Clean(pathAbs)
	rel, err := filepath.Rel(rootClean, pathClean)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
