package domain

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Verdict is the retention outcome for one backup unit.
type Verdict string

const (
	VerdictKeepDaily   Verdict = "keep-daily"
	VerdictKeepWeekly  Verdict = "keep-weekly"
	VerdictKeepMonthly Verdict = "keep-monthly"
	VerdictDelete      Verdict = "delete"
)

// Keep reports whether the verdict retains the unit.
func (v Verdict) Keep() bool {
	return v != VerdictDelete
}

// BackupUnit is one dated, remote backup folder.
type BackupUnit struct {
	ID   string
	Date civil.Date
}

// RetentionDecision is the verdict reached for a single unit.
type RetentionDecision struct {
	Unit    BackupUnit
	Verdict Verdict
}

// ParseFailure records a catalogue entry whose name carries no usable date.
type ParseFailure struct {
	ID  string
	Err error
}

// RetentionPolicy defines the window (in days) of each retention tier.
// Upper bounds are exclusive.
type RetentionPolicy struct {
	DailyWindowDays   int
	WeeklyWindowDays  int
	MonthlyWindowDays int
}

// DefaultRetentionPolicy keeps a week of dailies, four weeks of Sundays and
// roughly three months of month-end backups.
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{
		DailyWindowDays:   7,
		WeeklyWindowDays:  28,
		MonthlyWindowDays: 90,
	}
}

// Validate checks that every window is positive and that the tiers nest.
func (p RetentionPolicy) Validate() error {
	switch {
	case p.DailyWindowDays <= 0:
		return fmt.Errorf("%w: daily window must be positive, got %d", ErrInvalidPolicy, p.DailyWindowDays)
	case p.WeeklyWindowDays <= p.DailyWindowDays:
		return fmt.Errorf("%w: weekly window (%d) must be longer than daily window (%d)", ErrInvalidPolicy, p.WeeklyWindowDays, p.DailyWindowDays)
	case p.MonthlyWindowDays <= p.WeeklyWindowDays:
		return fmt.Errorf("%w: monthly window (%d) must be longer than weekly window (%d)", ErrInvalidPolicy, p.MonthlyWindowDays, p.WeeklyWindowDays)
	}
	return nil
}

// RetentionPlan is the dry-run classification of a catalogue.
type RetentionPlan struct {
	Today         civil.Date
	Decisions     []RetentionDecision
	ParseFailures []ParseFailure
}

// Empty reports whether the plan had nothing to classify.
func (p RetentionPlan) Empty() bool {
	return len(p.Decisions) == 0 && len(p.ParseFailures) == 0
}

// RetentionSummary reports the outcome of a retention pass.
type RetentionSummary struct {
	Retained int
	Deleted  int
	Failed   int
	Unparsed int
	// Empty is set when the catalogue held nothing at all.
	Empty bool
}

// SiteBackupStatus tracks one site within a backup run.
type SiteBackupStatus string

const (
	SiteBackupCompleted SiteBackupStatus = "completed"
	SiteBackupFailed    SiteBackupStatus = "failed"
)

// SiteBackupResult is returned for each site processed by a backup run.
type SiteBackupResult struct {
	Site      string
	UnitID    string
	Status    SiteBackupStatus
	RemoteKey string
	LocalPath string
	SizeBytes int64
	Duration  time.Duration
	Error     string
}

// BackupRunResult aggregates a full backup run.
type BackupRunResult struct {
	RunID            string
	UnitID           string
	StartedAt        time.Time
	Sites            []SiteBackupResult
	Retention        *RetentionSummary
	LocalRetention   *RetentionSummary
	RetentionSkipped bool
}

// Succeeded counts sites that were stored successfully.
func (r BackupRunResult) Succeeded() int {
	n := 0
	for _, s := range r.Sites {
		if s.Status == SiteBackupCompleted {
			n++
		}
	}
	return n
}
