package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wpbackup/internal/boundaries/in/mocks"
	"github.com/bnema/wpbackup/internal/domain"
)

func TestBackupCommand(t *testing.T) {
	a := &fakeApp{runResult: &domain.BackupRunResult{
		RunID:     "run-1",
		UnitID:    "20240331_Daily_Backup_Job",
		StartedAt: time.Date(2024, 3, 31, 2, 0, 0, 0, time.UTC),
		Sites: []domain.SiteBackupResult{
			{Site: "blog", Status: domain.SiteBackupCompleted, RemoteKey: "20240331_Daily_Backup_Job/blog.tar.gz", SizeBytes: 2048, Duration: 3 * time.Second},
		},
		Retention: &domain.RetentionSummary{Retained: 5, Deleted: 2},
	}}
	path := useApp(t, a, nil)

	out, err := execute("backup", "run", "-c", "custom.toml", "--site", "blog")
	require.NoError(t, err)

	assert.Equal(t, []string{"blog"}, a.runSites)
	assert.Equal(t, "custom.toml", *path)
	assert.True(t, a.closed)

	assert.Contains(t, out, "Backup unit 20240331_Daily_Backup_Job")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "5 retained, 2 deleted, 0 failed, 0 unparsed")
	assert.Contains(t, out, "1/1 sites backed up")
}

func TestBackupCommandReportsFailedSites(t *testing.T) {
	runErr := errors.New("dump blog: exit status 2")
	a := &fakeApp{
		runResult: &domain.BackupRunResult{
			RunID:  "run-2",
			UnitID: "20240331_Daily_Backup_Job",
			Sites: []domain.SiteBackupResult{
				{Site: "blog", Status: domain.SiteBackupFailed, Error: "exit status 2"},
				{Site: "shop", Status: domain.SiteBackupCompleted, SizeBytes: 10},
			},
			Retention: &domain.RetentionSummary{Retained: 6},
		},
		runErr: runErr,
	}
	useApp(t, a, nil)

	out, err := execute("backup", "run")
	require.ErrorIs(t, err, runErr)

	assert.Empty(t, a.runSites)
	assert.Contains(t, out, "exit status 2")
	assert.Contains(t, out, "6 retained")
	assert.NotContains(t, out, "Retention skipped")
	assert.Contains(t, out, "1/2 sites backed up")
}

func TestBackupCommandReportsSkippedRetention(t *testing.T) {
	a := &fakeApp{
		runResult: &domain.BackupRunResult{
			UnitID:           "20240331_Daily_Backup_Job",
			Sites:            []domain.SiteBackupResult{{Site: "blog", Status: domain.SiteBackupFailed, Error: "no DB_NAME"}},
			RetentionSkipped: true,
		},
		runErr: domain.ErrCredentialsMissing,
	}
	useApp(t, a, nil)

	out, err := execute("backup", "run")
	require.ErrorIs(t, err, domain.ErrCredentialsMissing)
	assert.Contains(t, out, "Retention skipped: no site was stored")
	assert.Contains(t, out, "0/1 sites backed up")
}

func TestBackupCommandWithoutResult(t *testing.T) {
	a := &fakeApp{runErr: domain.ErrSiteNotFound}
	useApp(t, a, nil)

	out, err := execute("backup", "run", "--site", "nope")
	require.ErrorIs(t, err, domain.ErrSiteNotFound)
	assert.NotContains(t, out, "Backup unit")
}

func TestBackupListCommand(t *testing.T) {
	local := mocks.NewMockRetentionService(t)
	local.EXPECT().Plan(mock.Anything).Return(&domain.RetentionPlan{
		Today: date(2024, 4, 14),
		Decisions: []domain.RetentionDecision{
			{Unit: domain.BackupUnit{ID: "20240407_Daily_Backup_Job", Date: date(2024, 4, 7)}, Verdict: domain.VerdictKeepWeekly},
		},
	}, nil)
	useApp(t, &fakeApp{local: local}, nil)

	out, err := execute("backup", "list", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, "20240407_Daily_Backup_Job")
	assert.Contains(t, out, "keep-weekly")
	assert.Contains(t, out, "1 to keep, 0 to delete, 0 unparsed")
}

func TestRenderSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary domain.RetentionSummary
		want    string
	}{
		{name: "empty catalogue", summary: domain.RetentionSummary{Empty: true}, want: "no backup units found"},
		{name: "clean pass", summary: domain.RetentionSummary{Retained: 3}, want: "3 retained, 0 deleted"},
		{name: "failures", summary: domain.RetentionSummary{Retained: 3, Failed: 1}, want: "1 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf stringWriter
			require.NoError(t, renderSummary(&buf, "Remote retention", tt.summary))
			assert.Contains(t, stripANSI(buf.String()), tt.want)
		})
	}
}

type stringWriter struct{ b []byte }

func (w *stringWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func (w *stringWriter) String() string { return string(w.b) }
