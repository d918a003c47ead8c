package domain

import "time"

// CronSchedule represents a recurring schedule as a standard 5-field cron
// expression (or a descriptor such as "@daily").
type CronSchedule struct {
	Expr string
}

// CronEntry represents a registered cron job.
type CronEntry struct {
	ID       string
	Name     string
	Schedule CronSchedule
	LastRun  time.Time
	NextRun  time.Time
	Running  bool
}
