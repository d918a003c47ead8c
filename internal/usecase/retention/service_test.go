package retention

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wpbackup/internal/boundaries/out/mocks"
	"github.com/bnema/wpbackup/internal/domain"
)

type recordedPass struct {
	target  string
	summary domain.RetentionSummary
}

type fakeRecorder struct {
	mu     sync.Mutex
	passes []recordedPass
}

func (f *fakeRecorder) RecordRetentionPass(_ context.Context, target string, summary domain.RetentionSummary, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passes = append(f.passes, recordedPass{target: target, summary: summary})
}

func newTestService(t *testing.T, catalogue *mocks.MockBackupCatalogue, recorder *fakeRecorder, cfg Config) *Service {
	t.Helper()
	if cfg.Policy == (domain.RetentionPolicy{}) {
		cfg.Policy = domain.DefaultRetentionPolicy()
	}
	var svc *Service
	if recorder != nil {
		svc = NewService(catalogue, recorder, cfg)
	} else {
		svc = NewService(catalogue, nil, cfg)
	}
	svc.nowFn = func() time.Time {
		return time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

// Seen from 2024-05-01: three dailies, one Sunday, two month ends, three to delete.
var mixedCatalogue = []string{
	"20240501_Daily_Backup_Job",
	"20240428_Daily_Backup_Job",
	"20240425_Daily_Backup_Job",
	"20240424_Daily_Backup_Job",
	"20240421_Daily_Backup_Job",
	"20240418_Daily_Backup_Job",
	"20240331_Daily_Backup_Job",
	"20240229_Daily_Backup_Job",
	"20240115_Daily_Backup_Job",
}

var mixedExpired = []string{
	"20240424_Daily_Backup_Job",
	"20240418_Daily_Backup_Job",
	"20240115_Daily_Backup_Job",
}

func TestService_Plan(t *testing.T) {
	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(mixedCatalogue, nil).Once()

	svc := newTestService(t, catalogue, nil, Config{})

	plan, err := svc.Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", plan.Today.String())
	require.Len(t, plan.Decisions, len(mixedCatalogue))

	verdicts := map[string]domain.Verdict{}
	for _, d := range plan.Decisions {
		verdicts[d.Unit.ID] = d.Verdict
	}
	assert.Equal(t, domain.VerdictKeepDaily, verdicts["20240501_Daily_Backup_Job"])
	assert.Equal(t, domain.VerdictKeepDaily, verdicts["20240428_Daily_Backup_Job"])
	assert.Equal(t, domain.VerdictKeepDaily, verdicts["20240425_Daily_Backup_Job"])
	assert.Equal(t, domain.VerdictDelete, verdicts["20240424_Daily_Backup_Job"])
	assert.Equal(t, domain.VerdictKeepWeekly, verdicts["20240421_Daily_Backup_Job"])
	assert.Equal(t, domain.VerdictDelete, verdicts["20240418_Daily_Backup_Job"])
	assert.Equal(t, domain.VerdictKeepMonthly, verdicts["20240331_Daily_Backup_Job"])
	assert.Equal(t, domain.VerdictKeepMonthly, verdicts["20240229_Daily_Backup_Job"])
	assert.Equal(t, domain.VerdictDelete, verdicts["20240115_Daily_Backup_Job"])
}

func TestService_PlanUsesConfiguredTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata not available")
	}

	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(nil, nil).Once()

	svc := newTestService(t, catalogue, nil, Config{Location: tokyo})
	svc.nowFn = func() time.Time {
		return time.Date(2024, time.April, 30, 20, 0, 0, 0, time.UTC)
	}

	plan, err := svc.Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", plan.Today.String())
}

func TestService_PlanRejectsInvalidPolicy(t *testing.T) {
	catalogue := mocks.NewMockBackupCatalogue(t)
	svc := newTestService(t, catalogue, nil, Config{
		Policy: domain.RetentionPolicy{DailyWindowDays: 7, WeeklyWindowDays: 3, MonthlyWindowDays: 90},
	})

	_, err := svc.Plan(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidPolicy)
}

func TestService_ApplyDeletesExpiredUnits(t *testing.T) {
	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(mixedCatalogue, nil).Once()
	for _, id := range mixedExpired {
		catalogue.EXPECT().DeleteUnit(mock.Anything, id).Return(nil).Once()
	}

	recorder := &fakeRecorder{}
	svc := newTestService(t, catalogue, recorder, Config{})

	summary, err := svc.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RetentionSummary{Retained: 6, Deleted: 3}, summary)

	require.Len(t, recorder.passes, 1)
	assert.Equal(t, "remote", recorder.passes[0].target)
	assert.Equal(t, summary, recorder.passes[0].summary)
}

func TestService_ApplyEmptyCatalogueIsNoop(t *testing.T) {
	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return([]string{}, nil).Once()

	recorder := &fakeRecorder{}
	svc := newTestService(t, catalogue, recorder, Config{Target: "local"})

	summary, err := svc.Apply(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Empty)
	assert.Zero(t, summary.Retained)
	assert.Zero(t, summary.Deleted)
	assert.Zero(t, summary.Failed)

	require.Len(t, recorder.passes, 1)
	assert.Equal(t, "local", recorder.passes[0].target)
}

func TestService_ApplySkipsMalformedNames(t *testing.T) {
	ids := append([]string{"not-a-date_Daily_Backup_Job"}, mixedCatalogue...)

	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(ids, nil).Once()
	for _, id := range mixedExpired {
		catalogue.EXPECT().DeleteUnit(mock.Anything, id).Return(nil).Once()
	}

	svc := newTestService(t, catalogue, nil, Config{})

	summary, err := svc.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RetentionSummary{Retained: 6, Deleted: 3, Unparsed: 1}, summary)
	catalogue.AssertNotCalled(t, "DeleteUnit", mock.Anything, "not-a-date_Daily_Backup_Job")
}

func TestService_ApplyContinuesAfterDeletionFailure(t *testing.T) {
	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(mixedCatalogue, nil).Once()
	catalogue.EXPECT().DeleteUnit(mock.Anything, "20240424_Daily_Backup_Job").Return(errors.New("access denied")).Once()
	catalogue.EXPECT().DeleteUnit(mock.Anything, "20240418_Daily_Backup_Job").Return(nil).Once()
	catalogue.EXPECT().DeleteUnit(mock.Anything, "20240115_Daily_Backup_Job").Return(nil).Once()

	svc := newTestService(t, catalogue, nil, Config{})

	summary, err := svc.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RetentionSummary{Retained: 6, Deleted: 2, Failed: 1}, summary)
}

func TestService_ApplyListFailure(t *testing.T) {
	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(nil, errors.New("no such bucket")).Once()

	recorder := &fakeRecorder{}
	svc := newTestService(t, catalogue, recorder, Config{})

	_, err := svc.Apply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such bucket")
	assert.Empty(t, recorder.passes)
}

func TestService_ApplyIsIdempotent(t *testing.T) {
	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(mixedCatalogue, nil).Once()
	for _, id := range mixedExpired {
		catalogue.EXPECT().DeleteUnit(mock.Anything, id).Return(nil).Once()
	}

	svc := newTestService(t, catalogue, nil, Config{})
	_, err := svc.Apply(context.Background())
	require.NoError(t, err)

	survivors := make([]string, 0, len(mixedCatalogue))
	for _, id := range mixedCatalogue {
		if !slices.Contains(mixedExpired, id) {
			survivors = append(survivors, id)
		}
	}
	catalogue.EXPECT().ListUnits(mock.Anything).Return(survivors, nil).Once()

	summary, err := svc.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RetentionSummary{Retained: 6}, summary)
}

func TestService_ApplyBoundsParallelDeletes(t *testing.T) {
	ids := make([]string, 0, 12)
	start := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		ids = append(ids, start.AddDate(0, 0, i).Format("20060102")+domain.BackupUnitSuffix)
	}

	var inFlight, peak atomic.Int32
	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(ids, nil).Once()
	catalogue.EXPECT().DeleteUnit(mock.Anything, mock.Anything).RunAndReturn(func(context.Context, string) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}).Times(len(ids))

	svc := newTestService(t, catalogue, nil, Config{MaxParallelDeletes: 3})

	summary, err := svc.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(ids), summary.Deleted)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestService_ApplyCancelledCountsRemainingAsFailed(t *testing.T) {
	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(mixedCatalogue, nil).Once()

	svc := newTestService(t, catalogue, nil, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := svc.Apply(ctx)
	require.ErrorIs(t, err, domain.ErrRetentionFailed)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 6, summary.Retained)
	assert.Equal(t, 0, summary.Deleted)
	assert.Equal(t, 3, summary.Failed)
	catalogue.AssertNotCalled(t, "DeleteUnit", mock.Anything, mock.Anything)
}

func TestService_ApplyPacesDeletes(t *testing.T) {
	catalogue := mocks.NewMockBackupCatalogue(t)
	catalogue.EXPECT().ListUnits(mock.Anything).Return(mixedCatalogue, nil).Once()
	catalogue.EXPECT().DeleteUnit(mock.Anything, mock.Anything).Return(nil).Times(len(mixedExpired))

	svc := newTestService(t, catalogue, nil, Config{MaxParallelDeletes: 3, DeleteRatePerSecond: 20})

	started := time.Now()
	summary, err := svc.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(mixedExpired), summary.Deleted)
	// burst of one: the second and third deletes wait 50ms each
	assert.GreaterOrEqual(t, time.Since(started), 90*time.Millisecond)
}
