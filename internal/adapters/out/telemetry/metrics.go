package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bnema/wpbackup/internal/domain"
)

const meterName = "wpbackup"

// Metrics holds wpbackup OTel metric instruments. It implements
// out.RetentionRecorder and out.BackupRecorder.
type Metrics struct {
	// Retention
	RetentionRetained metric.Int64Counter
	RetentionDeleted  metric.Int64Counter
	RetentionFailed   metric.Int64Counter
	RetentionUnparsed metric.Int64Counter
	RetentionDuration metric.Float64Histogram

	// Backups
	BackupSites    metric.Int64Counter
	BackupBytes    metric.Int64Counter
	BackupDuration metric.Float64Histogram
}

// NewMetrics creates all instruments on the global MeterProvider.
// All fields are always initialized: OTel returns noop instruments when no
// MeterProvider is set.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(meterName))
}

// NewMetricsWithMeter creates all instruments on the given meter.
func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.RetentionRetained, err = meter.Int64Counter("wpbackup.retention.retained",
		metric.WithDescription("Backup units kept by retention passes")); err != nil {
		return nil, err
	}
	if m.RetentionDeleted, err = meter.Int64Counter("wpbackup.retention.deleted",
		metric.WithDescription("Backup units deleted by retention passes")); err != nil {
		return nil, err
	}
	if m.RetentionFailed, err = meter.Int64Counter("wpbackup.retention.failed",
		metric.WithDescription("Backup unit deletions that failed")); err != nil {
		return nil, err
	}
	if m.RetentionUnparsed, err = meter.Int64Counter("wpbackup.retention.unparsed",
		metric.WithDescription("Catalogue entries with no parseable date")); err != nil {
		return nil, err
	}
	if m.RetentionDuration, err = meter.Float64Histogram("wpbackup.retention.duration_seconds",
		metric.WithDescription("Retention pass duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 5, 10, 30, 60, 300)); err != nil {
		return nil, err
	}
	if m.BackupSites, err = meter.Int64Counter("wpbackup.backup.sites",
		metric.WithDescription("Sites processed by backup runs, by status")); err != nil {
		return nil, err
	}
	if m.BackupBytes, err = meter.Int64Counter("wpbackup.backup.bytes",
		metric.WithDescription("Archive bytes uploaded by backup runs"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if m.BackupDuration, err = meter.Float64Histogram("wpbackup.backup.duration_seconds",
		metric.WithDescription("Backup run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(10, 30, 60, 300, 900, 1800, 3600)); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRetentionPass adds one retention outcome.
func (m *Metrics) RecordRetentionPass(ctx context.Context, target string, summary domain.RetentionSummary, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("target", target))
	m.RetentionRetained.Add(ctx, int64(summary.Retained), attrs)
	m.RetentionDeleted.Add(ctx, int64(summary.Deleted), attrs)
	m.RetentionFailed.Add(ctx, int64(summary.Failed), attrs)
	m.RetentionUnparsed.Add(ctx, int64(summary.Unparsed), attrs)
	m.RetentionDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordBackupRun adds one backup run outcome.
func (m *Metrics) RecordBackupRun(ctx context.Context, result domain.BackupRunResult, duration time.Duration) {
	for _, site := range result.Sites {
		m.BackupSites.Add(ctx, 1, metric.WithAttributes(
			attribute.String("site", site.Site),
			attribute.String("status", string(site.Status)),
		))
		if site.Status == domain.SiteBackupCompleted {
			m.BackupBytes.Add(ctx, site.SizeBytes, metric.WithAttributes(attribute.String("site", site.Site)))
		}
	}
	m.BackupDuration.Record(ctx, duration.Seconds())
}
