package out

import (
	"context"
	"time"

	"github.com/bnema/wpbackup/internal/domain"
)

// RetentionRecorder receives the outcome of every retention pass.
// target names the catalogue ("remote" or "local").
type RetentionRecorder interface {
	RecordRetentionPass(ctx context.Context, target string, summary domain.RetentionSummary, duration time.Duration)
}

// BackupRecorder receives the outcome of every backup run.
type BackupRecorder interface {
	RecordBackupRun(ctx context.Context, result domain.BackupRunResult, duration time.Duration)
}
