package out

import (
	"context"
	"io"
)

// BackupCatalogue lists and deletes backup units at one storage location.
// Unit identifiers are the raw folder names (YYYYMMDD_Daily_Backup_Job).
type BackupCatalogue interface {
	// ListUnits returns every unit identifier currently stored.
	ListUnits(ctx context.Context) ([]string, error)

	// DeleteUnit removes a unit and everything stored under it.
	DeleteUnit(ctx context.Context, unitID string) error
}

// BackupStorage persists site archives inside backup units.
type BackupStorage interface {
	BackupCatalogue

	// Store writes one archive into a unit and returns its storage location.
	Store(ctx context.Context, unitID, name string, data io.Reader, size int64) (string, error)

	// Open returns a reader for an archive previously stored in a unit.
	Open(ctx context.Context, unitID, name string) (io.ReadCloser, error)

	// ListArchives returns the archive names stored in a unit.
	ListArchives(ctx context.Context, unitID string) ([]string, error)
}
