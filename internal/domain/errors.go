package domain

import "errors"

// Domain errors represent business-level errors that can occur in the system.
// These errors are used across layers to communicate specific failure conditions.
var (
	// Catalogue errors
	ErrInvalidBackupName = errors.New("backup name does not match YYYYMMDD" + BackupUnitSuffix)
	ErrInvalidBackupDate = errors.New("backup name carries an invalid calendar date")
	ErrUnitNotFound      = errors.New("backup unit not found")
	ErrArchiveNotFound   = errors.New("site archive not found in backup unit")

	// Retention errors
	ErrDeletionFailed  = errors.New("failed to delete backup unit")
	ErrInvalidPolicy   = errors.New("invalid retention policy")
	ErrRetentionFailed = errors.New("retention pass failed")

	// Site errors
	ErrSiteNotFound       = errors.New("site not found")
	ErrCredentialsMissing = errors.New("database credentials not found")
	ErrDumpFailed         = errors.New("database dump failed")
	ErrImportFailed       = errors.New("database import failed")

	// Config errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrConfigLoadFailed = errors.New("failed to load configuration")
)
