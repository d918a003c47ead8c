package app

import (
	"context"
	"time"

	"github.com/bnema/wpbackup/internal/boundaries/out"
	"github.com/bnema/wpbackup/internal/domain"
)

type recorder interface {
	out.RetentionRecorder
	out.BackupRecorder
}

// recorders fans every outcome out to all registered sinks.
type recorders struct {
	sinks []recorder
}

func (r *recorders) add(sink recorder) {
	r.sinks = append(r.sinks, sink)
}

func (r *recorders) RecordRetentionPass(ctx context.Context, target string, summary domain.RetentionSummary, duration time.Duration) {
	for _, s := range r.sinks {
		s.RecordRetentionPass(ctx, target, summary, duration)
	}
}

func (r *recorders) RecordBackupRun(ctx context.Context, result domain.BackupRunResult, duration time.Duration) {
	for _, s := range r.sinks {
		s.RecordBackupRun(ctx, result, duration)
	}
}
