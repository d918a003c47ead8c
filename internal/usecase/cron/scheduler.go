// Package cron runs recurring jobs, such as the nightly backup, on standard
// cron expressions.
package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/zerowrap"
	robfigcron "github.com/robfig/cron/v3"

	"github.com/bnema/wpbackup/internal/domain"
)

var (
	// ErrJobRunning is returned when a job is triggered while it runs.
	ErrJobRunning = errors.New("scheduled job is already running")
	// ErrJobNotFound is returned for unknown job ids.
	ErrJobNotFound = errors.New("scheduled job not found")
	// ErrStopped is returned when a job is triggered after Stop.
	ErrStopped = errors.New("scheduler is stopped")
)

// Scheduler runs recurring jobs on cron schedules.
type Scheduler struct {
	entries  map[string]*entry
	mu       sync.RWMutex
	stopCh   chan struct{}
	stopped  atomic.Bool
	started  atomic.Bool
	inflight sync.WaitGroup
	log      zerowrap.Logger
	nowFn    func() time.Time
	location *time.Location
	tick     time.Duration
}

type entry struct {
	id       string
	name     string
	schedule domain.CronSchedule
	spec     robfigcron.Schedule
	job      func(ctx context.Context) error
	lastRun  time.Time
	nextRun  time.Time
	running  atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocation evaluates cron expressions in loc instead of UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithTick sets how often due jobs are checked.
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// NewScheduler creates a scheduler instance.
func NewScheduler(log zerowrap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		entries:  make(map[string]*entry),
		stopCh:   make(chan struct{}),
		log:      log,
		location: time.UTC,
		tick:     time.Minute,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseSchedule validates a standard 5-field cron expression or descriptor.
func ParseSchedule(expr string) (robfigcron.Schedule, error) {
	spec, err := robfigcron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return spec, nil
}

// Add registers a new scheduled job.
func (s *Scheduler) Add(id, name string, sched domain.CronSchedule, job func(ctx context.Context) error) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if job == nil {
		return fmt.Errorf("job is required")
	}

	spec, err := ParseSchedule(sched.Expr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		return fmt.Errorf("schedule %q already exists", id)
	}

	s.entries[id] = &entry{
		id:       id,
		name:     name,
		schedule: sched,
		spec:     spec,
		job:      job,
		nextRun:  s.next(spec, s.nowFn()),
	}

	return nil
}

// Start begins the scheduler loop. It is a no-op once stopped or when ctx
// is already done.
func (s *Scheduler) Start(ctx context.Context) {
	if s.stopped.Load() || ctx.Err() != nil {
		return
	}
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	ticker := time.NewTicker(s.tick)
	go func() {
		defer ticker.Stop()
		defer s.started.Store(false)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.runDue(ctx)
			}
		}
	}()
}

// Stop stops the scheduler loop. No job starts once Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopCh)
	}
}

// Wait blocks until every job started by the loop or RunNow has returned.
// Call it after Stop.
func (s *Scheduler) Wait() {
	s.inflight.Wait()
}

// List returns current scheduler entries.
func (s *Scheduler) List() []domain.CronEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.CronEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, domain.CronEntry{
			ID:       e.id,
			Name:     e.name,
			Schedule: e.schedule,
			LastRun:  e.lastRun,
			NextRun:  e.nextRun,
			Running:  e.running.Load(),
		})
	}

	return entries
}

// RunNow runs a registered job immediately and waits for it. It fails with
// ErrJobRunning if the job is already running.
func (s *Scheduler) RunNow(ctx context.Context, id string) error {
	e := s.getEntry(id)
	if e == nil {
		return fmt.Errorf("%w: %q", ErrJobNotFound, id)
	}
	if !s.track() {
		return ErrStopped
	}
	defer s.inflight.Done()

	return s.executeEntry(ctx, e)
}

func (s *Scheduler) runDue(ctx context.Context) {
	now := s.nowFn()
	for _, e := range s.snapshotEntries() {
		// nextRun only moves once a run finishes
		if e.running.Load() || now.Before(s.nextRunOf(e)) {
			continue
		}
		if !s.track() {
			return
		}

		go func() {
			defer s.inflight.Done()
			err := s.executeEntry(ctx, e)
			switch {
			case errors.Is(err, ErrJobRunning):
				s.log.Debug().Str("schedule_id", e.id).Msg("scheduled job still running, skipped")
			case err != nil:
				s.log.Warn().Err(err).Str("schedule_id", e.id).Msg("scheduled job failed")
			}
		}()
	}
}

// track registers a job with the inflight group unless the scheduler is
// stopped. Stop holds the same lock, so Wait never races an Add.
func (s *Scheduler) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.Load() {
		return false
	}
	s.inflight.Add(1)
	return true
}

func (s *Scheduler) executeEntry(ctx context.Context, e *entry) (err error) {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %q", ErrJobRunning, e.id)
	}
	defer e.running.Store(false)

	started := s.nowFn()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scheduled job %q panic: %v", e.id, r)
		}

		// next run counts from the finish time so a long job never fires twice
		finished := s.nowFn()
		s.mu.Lock()
		e.lastRun = started
		e.nextRun = s.next(e.spec, finished)
		s.mu.Unlock()
	}()

	s.log.Info().Str("schedule_id", e.id).Str("schedule", e.schedule.Expr).Msg("scheduled job started")
	return e.job(ctx)
}

func (s *Scheduler) next(spec robfigcron.Schedule, now time.Time) time.Time {
	return spec.Next(now.In(s.location)).UTC()
}

func (s *Scheduler) nextRunOf(e *entry) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return e.nextRun
}

func (s *Scheduler) getEntry(id string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id]
}

func (s *Scheduler) snapshotEntries() []*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	return entries
}
