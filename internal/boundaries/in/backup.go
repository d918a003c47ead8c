package in

import (
	"context"

	"github.com/bnema/wpbackup/internal/domain"
)

// BackupService defines backup orchestration use cases.
type BackupService interface {
	// Run backs up the named sites (all configured sites when empty) and
	// applies retention afterwards.
	Run(ctx context.Context, sites ...string) (*domain.BackupRunResult, error)

	// Restore restores a site from the given unit, or from the newest unit
	// holding an archive of the site when unitID is empty.
	Restore(ctx context.Context, site, unitID string) (string, error)
}
