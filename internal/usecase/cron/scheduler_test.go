package cron

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wpbackup/internal/domain"
)

const (
	hourly  = "0 * * * *"
	nightly = "0 2 * * *"
)

func TestNextRunExpressions(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 34, 20, 0, time.UTC)
	s := NewScheduler(zerowrap.Default())

	tests := []struct {
		name     string
		expr     string
		expected time.Time
	}{
		{
			name:     "hourly",
			expr:     hourly,
			expected: time.Date(2026, 2, 7, 13, 0, 0, 0, time.UTC),
		},
		{
			name:     "nightly",
			expr:     nightly,
			expected: time.Date(2026, 2, 8, 2, 0, 0, 0, time.UTC),
		},
		{
			name:     "sunday",
			expr:     "0 3 * * 0",
			expected: time.Date(2026, 2, 8, 3, 0, 0, 0, time.UTC),
		},
		{
			name:     "first of month",
			expr:     "0 4 1 * *",
			expected: time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC),
		},
		{
			name:     "descriptor",
			expr:     "@daily",
			expected: time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSchedule(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.next(spec, now))
		})
	}
}

func TestNextRunHonoursLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata not available")
	}

	s := NewScheduler(zerowrap.Default(), WithLocation(paris))
	spec, err := ParseSchedule(nightly)
	require.NoError(t, err)

	// 02:00 in Paris during winter is 01:00 UTC
	next := s.next(spec, time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 2, 8, 1, 0, 0, 0, time.UTC), next)
}

func TestParseScheduleRejectsGarbage(t *testing.T) {
	_, err := ParseSchedule("every night")
	require.Error(t, err)

	s := NewScheduler(zerowrap.Default())
	err = s.Add("backup", "backup", domain.CronSchedule{Expr: "61 * * * *"}, func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Empty(t, s.List())
}

func TestSchedulerAddListAndRunNow(t *testing.T) {
	s := NewScheduler(zerowrap.Default())
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return now }

	runs := 0
	err := s.Add("backup-nightly", "nightly backup", domain.CronSchedule{Expr: nightly}, func(context.Context) error {
		runs++
		return nil
	})
	require.NoError(t, err)

	entries := s.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "backup-nightly", entries[0].ID)
	assert.Equal(t, "nightly backup", entries[0].Name)
	assert.Equal(t, nightly, entries[0].Schedule.Expr)

	err = s.RunNow(context.Background(), "backup-nightly")
	require.NoError(t, err)
	assert.Equal(t, 1, runs)

	entries = s.List()
	require.Len(t, entries, 1)
	assert.Equal(t, now, entries[0].LastRun)
	assert.Equal(t, time.Date(2026, 2, 8, 2, 0, 0, 0, time.UTC), entries[0].NextRun)
}

func TestSchedulerAddRejectsDuplicates(t *testing.T) {
	s := NewScheduler(zerowrap.Default())
	job := func(context.Context) error { return nil }

	require.NoError(t, s.Add("backup", "backup", domain.CronSchedule{Expr: nightly}, job))
	require.Error(t, s.Add("backup", "backup", domain.CronSchedule{Expr: nightly}, job))
}

func TestSchedulerRunNowUnknownJob(t *testing.T) {
	s := NewScheduler(zerowrap.Default())
	assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), ErrJobNotFound)
}

func TestSchedulerRunNowAfterStop(t *testing.T) {
	s := NewScheduler(zerowrap.Default())
	runs := 0
	require.NoError(t, s.Add("backup", "backup", domain.CronSchedule{Expr: nightly}, func(context.Context) error {
		runs++
		return nil
	}))

	s.Stop()
	assert.ErrorIs(t, s.RunNow(context.Background(), "backup"), ErrStopped)
	s.Wait()
	assert.Zero(t, runs)
}

func TestSchedulerRunNowRejectsConcurrentRun(t *testing.T) {
	s := NewScheduler(zerowrap.Default())

	started := make(chan struct{})
	release := make(chan struct{})
	err := s.Add("backup-hourly", "hourly backup", domain.CronSchedule{Expr: hourly}, func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	firstErrCh := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErrCh <- s.RunNow(context.Background(), "backup-hourly")
	}()

	<-started
	err2 := s.RunNow(context.Background(), "backup-hourly")
	assert.ErrorIs(t, err2, ErrJobRunning)

	close(release)
	wg.Wait()
	err1 := <-firstErrCh
	require.NoError(t, err1)
}

func TestSchedulerRunNowRecoversFromPanics(t *testing.T) {
	s := NewScheduler(zerowrap.Default())
	err := s.Add("panic-job", "panic job", domain.CronSchedule{Expr: hourly}, func(context.Context) error {
		panic("boom")
	})
	require.NoError(t, err)

	err = s.RunNow(context.Background(), "panic-job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")

	entries := s.List()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Running)
	assert.False(t, entries[0].LastRun.IsZero())
	assert.False(t, entries[0].NextRun.IsZero())
}

func TestSchedulerRunNowComputesNextRunFromJobFinishTime(t *testing.T) {
	s := NewScheduler(zerowrap.Default())
	current := time.Date(2026, 2, 7, 12, 59, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return current }

	err := s.Add("backup-hourly", "hourly backup", domain.CronSchedule{Expr: hourly}, func(context.Context) error {
		current = time.Date(2026, 2, 7, 13, 1, 0, 0, time.UTC)
		return nil
	})
	require.NoError(t, err)

	err = s.RunNow(context.Background(), "backup-hourly")
	require.NoError(t, err)

	entries := s.List()
	require.Len(t, entries, 1)
	assert.Equal(t, time.Date(2026, 2, 7, 14, 0, 0, 0, time.UTC), entries[0].NextRun)
}

func TestSchedulerStartRunsDueJobs(t *testing.T) {
	s := NewScheduler(zerowrap.Default(), WithTick(5*time.Millisecond))
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return now }

	var runs atomic.Int32
	done := make(chan struct{})
	err := s.Add("due-job", "due job", domain.CronSchedule{Expr: nightly}, func(context.Context) error {
		if runs.Add(1) == 1 {
			close(done)
		}
		return nil
	})
	require.NoError(t, err)

	s.mu.Lock()
	s.entries["due-job"].nextRun = now.Add(-time.Minute)
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("due job did not run")
	}

	// once run, the job waits for its next slot
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestSchedulerStartNoOpWhenStopped(t *testing.T) {
	s := NewScheduler(zerowrap.Default(), WithTick(5*time.Millisecond))
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return now }

	var runs atomic.Int32
	err := s.Add("stopped-job", "stopped job", domain.CronSchedule{Expr: nightly}, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)

	s.mu.Lock()
	s.entries["stopped-job"].nextRun = now.Add(-time.Minute)
	s.mu.Unlock()

	s.Stop()
	s.Start(context.Background())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
	assert.False(t, s.started.Load())
}

func TestSchedulerStartNoOpWhenContextAlreadyCanceled(t *testing.T) {
	s := NewScheduler(zerowrap.Default(), WithTick(5*time.Millisecond))
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return now }

	var runs atomic.Int32
	err := s.Add("canceled-job", "canceled job", domain.CronSchedule{Expr: nightly}, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)

	s.mu.Lock()
	s.entries["canceled-job"].nextRun = now.Add(-time.Minute)
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(0), runs.Load())
	assert.False(t, s.started.Load())
}

func TestSchedulerWaitDrainsRunningJobs(t *testing.T) {
	s := NewScheduler(zerowrap.Default(), WithTick(5*time.Millisecond))
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return now }

	started := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool
	err := s.Add("slow-job", "slow job", domain.CronSchedule{Expr: nightly}, func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
		return ctx.Err()
	})
	require.NoError(t, err)

	s.mu.Lock()
	s.entries["slow-job"].nextRun = now.Add(-time.Minute)
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not start")
	}

	cancel()
	s.Stop()
	s.Wait()
	assert.True(t, finished.Load())
}

// lockedBuffer lets concurrent job goroutines share one log sink.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSchedulerDoesNotRedispatchRunningJob(t *testing.T) {
	var out lockedBuffer
	log := zerowrap.New(zerowrap.Config{Level: "info", Format: "json", Output: &out})
	s := NewScheduler(log, WithTick(2*time.Millisecond))
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return now }

	started := make(chan struct{})
	release := make(chan struct{})
	var runs atomic.Int32
	err := s.Add("slow-job", "slow job", domain.CronSchedule{Expr: nightly}, func(context.Context) error {
		if runs.Add(1) == 1 {
			close(started)
		}
		<-release
		return nil
	})
	require.NoError(t, err)

	s.mu.Lock()
	s.entries["slow-job"].nextRun = now.Add(-time.Minute)
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not start")
	}

	// many ticks pass while the job is still past due
	time.Sleep(40 * time.Millisecond)
	close(release)
	s.Stop()
	s.Wait()

	assert.Equal(t, int32(1), runs.Load())
	logs := out.String()
	assert.Equal(t, 1, strings.Count(logs, "scheduled job started"))
	assert.NotContains(t, logs, "scheduled job failed")
}

func TestSchedulerRunDueAfterStopStartsNothing(t *testing.T) {
	s := NewScheduler(zerowrap.Default())
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return now }

	var runs atomic.Int32
	require.NoError(t, s.Add("due-job", "due job", domain.CronSchedule{Expr: nightly}, func(context.Context) error {
		runs.Add(1)
		return nil
	}))
	s.mu.Lock()
	s.entries["due-job"].nextRun = now.Add(-time.Minute)
	s.mu.Unlock()

	s.Stop()
	s.runDue(context.Background())
	s.Wait()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}
