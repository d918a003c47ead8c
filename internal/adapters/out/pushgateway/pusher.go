// Package pushgateway reports batch outcomes to a Prometheus Pushgateway.
//
// Backup and retention runs are short-lived, so nothing can scrape them.
// Each recorded outcome sets gauges on a private registry and pushes the
// whole registry under the configured job, replacing the previous values.
package pushgateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/bnema/wpbackup/internal/domain"
)

const namespace = "wpbackup"

// Config holds Pushgateway settings.
type Config struct {
	Enabled  bool          `mapstructure:"enabled"`
	URL      string        `mapstructure:"url"`
	Job      string        `mapstructure:"job"`
	Instance string        `mapstructure:"instance"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Pusher implements out.RetentionRecorder and out.BackupRecorder.
type Pusher struct {
	config   Config
	client   *http.Client
	registry *prometheus.Registry
	mu       sync.Mutex
	nowFn    func() time.Time

	retentionUnits    *prometheus.GaugeVec
	retentionDuration *prometheus.GaugeVec
	retentionLastRun  *prometheus.GaugeVec
	backupSites       *prometheus.GaugeVec
	backupBytes       prometheus.Gauge
	backupDuration    prometheus.Gauge
	backupLastSuccess prometheus.Gauge
}

// New creates a pusher. Job defaults to "wpbackup".
func New(config Config) *Pusher {
	if config.Job == "" {
		config.Job = namespace
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	p := &Pusher{
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
		registry: prometheus.NewRegistry(),
		nowFn:    time.Now,

		retentionUnits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "units",
			Help:      "Backup units per outcome in the last retention pass.",
		}, []string{"target", "outcome"}),
		retentionDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "duration_seconds",
			Help:      "Duration of the last retention pass.",
		}, []string{"target"}),
		retentionLastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last retention pass.",
		}, []string{"target"}),
		backupSites: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backup",
			Name:      "sites",
			Help:      "Sites per status in the last backup run.",
		}, []string{"status"}),
		backupBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backup",
			Name:      "bytes",
			Help:      "Archive bytes stored by the last backup run.",
		}),
		backupDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backup",
			Name:      "duration_seconds",
			Help:      "Duration of the last backup run.",
		}),
		backupLastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backup",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last backup run that stored at least one site.",
		}),
	}

	p.registry.MustRegister(
		p.retentionUnits,
		p.retentionDuration,
		p.retentionLastRun,
		p.backupSites,
		p.backupBytes,
		p.backupDuration,
		p.backupLastSuccess,
	)
	return p
}

// Registry exposes the gauges, mainly for tests.
func (p *Pusher) Registry() *prometheus.Registry {
	return p.registry
}

// RecordRetentionPass sets the retention gauges and pushes them.
func (p *Pusher) RecordRetentionPass(ctx context.Context, target string, summary domain.RetentionSummary, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.retentionUnits.WithLabelValues(target, "retained").Set(float64(summary.Retained))
	p.retentionUnits.WithLabelValues(target, "deleted").Set(float64(summary.Deleted))
	p.retentionUnits.WithLabelValues(target, "failed").Set(float64(summary.Failed))
	p.retentionUnits.WithLabelValues(target, "unparsed").Set(float64(summary.Unparsed))
	p.retentionDuration.WithLabelValues(target).Set(duration.Seconds())
	p.retentionLastRun.WithLabelValues(target).Set(float64(p.nowFn().Unix()))

	p.push(ctx)
}

// RecordBackupRun sets the backup gauges and pushes them.
func (p *Pusher) RecordBackupRun(ctx context.Context, result domain.BackupRunResult, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var completed, failed int
	var bytes int64
	for _, site := range result.Sites {
		if site.Status == domain.SiteBackupCompleted {
			completed++
			bytes += site.SizeBytes
		} else {
			failed++
		}
	}

	p.backupSites.WithLabelValues(string(domain.SiteBackupCompleted)).Set(float64(completed))
	p.backupSites.WithLabelValues(string(domain.SiteBackupFailed)).Set(float64(failed))
	p.backupBytes.Set(float64(bytes))
	p.backupDuration.Set(duration.Seconds())
	if completed > 0 {
		p.backupLastSuccess.Set(float64(p.nowFn().Unix()))
	}

	p.push(ctx)
}

// push never fails the caller: a metrics outage must not fail a backup.
func (p *Pusher) push(ctx context.Context) {
	log := zerowrap.FromCtx(ctx)

	pusher := push.New(p.config.URL, p.config.Job).
		Gatherer(p.registry).
		Client(p.client)
	if p.config.Instance != "" {
		pusher = pusher.Grouping("instance", p.config.Instance)
	}
	if p.config.Username != "" {
		pusher = pusher.BasicAuth(p.config.Username, p.config.Password)
	}

	if err := pusher.PushContext(ctx); err != nil {
		log.Warn().
			Err(err).
			Str(zerowrap.FieldAdapter, "pushgateway").
			Str("url", p.config.URL).
			Msg("failed to push metrics")
		return
	}
	log.Debug().Str(zerowrap.FieldAdapter, "pushgateway").Msg("metrics pushed")
}
