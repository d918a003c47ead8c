package cli

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wpbackup/internal/boundaries/in"
	"github.com/bnema/wpbackup/internal/boundaries/in/mocks"
	"github.com/bnema/wpbackup/internal/domain"
)

type fakeApp struct {
	backup *mocks.MockBackupService
	remote *mocks.MockRetentionService
	local  *mocks.MockRetentionService

	runResult *domain.BackupRunResult
	runErr    error
	runSites  []string
	serveErr  error
	served    bool
	runNow    bool
	closed    bool
}

func (f *fakeApp) Context(ctx context.Context) context.Context { return ctx }
func (f *fakeApp) Backup() in.BackupService { return f.backup }
func (f *fakeApp) Location() *time.Location { return time.UTC }
func (f *fakeApp) Close() { f.closed = true }

func (f *fakeApp) Retention(local bool) (in.RetentionService, error) {
	if local {
		if f.local == nil {
			return nil, domain.ErrInvalidConfig
		}
		return f.local, nil
	}
	return f.remote, nil
}

func (f *fakeApp) RunBackup(_ context.Context, sites ...string) (*domain.BackupRunResult, error) {
	f.runSites = sites
	return f.runResult, f.runErr
}

func (f *fakeApp) Serve(_ context.Context, runNow bool) error {
	f.served = true
	f.runNow = runNow
	return f.serveErr
}

// useApp swaps the application factory and returns the config path it was called with.
func useApp(t *testing.T, a Application, err error) *string {
	t.Helper()
	var configPath string
	prev := newApplication
	newApplication = func(_ context.Context, path string) (Application, error) {
		configPath = path
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	t.Cleanup(func() { newApplication = prev })
	return &configPath
}

func execute(args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stripANSI(out.String()), err
}

func stripANSI(input string) string {
	return regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`).ReplaceAllString(input, "")
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-04-01")
	t.Cleanup(func() { SetVersionInfo("dev", "unknown", "unknown") })

	out, err := execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, "wpbackup 1.2.3")
	assert.Contains(t, out, "Commit: abc123")
	assert.Contains(t, out, "Build Date: 2024-04-01")
}

func TestApplicationErrorIsReturned(t *testing.T) {
	useApp(t, nil, domain.ErrConfigLoadFailed)

	_, err := execute("retention", "plan")
	require.ErrorIs(t, err, domain.ErrConfigLoadFailed)
}

func TestServeCommand(t *testing.T) {
	a := &fakeApp{}
	path := useApp(t, a, nil)

	_, err := execute("serve", "--config", "/etc/wpbackup/wpbackup.toml")
	require.NoError(t, err)
	assert.True(t, a.served)
	assert.False(t, a.runNow)
	assert.True(t, a.closed)
	assert.Equal(t, "/etc/wpbackup/wpbackup.toml", *path)
}

func TestServeCommandRunNow(t *testing.T) {
	a := &fakeApp{}
	useApp(t, a, nil)

	_, err := execute("serve", "--run-now")
	require.NoError(t, err)
	assert.True(t, a.served)
	assert.True(t, a.runNow)
}

func TestServeCommandPropagatesError(t *testing.T) {
	a := &fakeApp{serveErr: errors.New("scheduler failed")}
	useApp(t, a, nil)

	_, err := execute("serve")
	require.EqualError(t, err, "scheduler failed")
	assert.True(t, a.closed)
}
