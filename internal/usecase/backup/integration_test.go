//go:build integration

package backup_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wpbackup/internal/adapters/out/archive"
	"github.com/bnema/wpbackup/internal/adapters/out/filesystem"
	"github.com/bnema/wpbackup/internal/adapters/out/mysqldump"
	"github.com/bnema/wpbackup/internal/adapters/out/wpconfig"
	"github.com/bnema/wpbackup/internal/domain"
	"github.com/bnema/wpbackup/internal/usecase/backup"
	"github.com/bnema/wpbackup/internal/usecase/retention"
)

const wpConfig = `<?php
define( 'DB_NAME', 'blog_db' );
define( 'DB_USER', 'blog' );
define( 'DB_PASSWORD', 's3cret' );
define( 'DB_HOST', '127.0.0.1:3307' );
`

// writeScript installs an executable shell script standing in for a mysql tool.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestBackupService_Integration_RunAndRestore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}

	ctx := context.Background()
	log := zerowrap.New(zerowrap.Config{Level: "error", Format: "console"})
	root := t.TempDir()

	sitePath := filepath.Join(root, "www", "blog")
	require.NoError(t, os.MkdirAll(filepath.Join(sitePath, "wp-content", "uploads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sitePath, "wp-config.php"), []byte(wpConfig), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(sitePath, "wp-content", "uploads", "cat.jpg"), []byte("jpeg"), 0o644))

	importOut := filepath.Join(root, "imported.sql")
	t.Setenv("WPBACKUP_TEST_IMPORT", importOut)
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	dumper := mysqldump.New(mysqldump.Config{
		DumpBinary:   writeScript(t, bin, "mysqldump", "echo \"CREATE TABLE wp_posts (id int); -- $MYSQL_PWD\"\n"),
		ClientBinary: writeScript(t, bin, "mysql", "cat > \"$WPBACKUP_TEST_IMPORT\"\n"),
	}, log)

	storage, err := filesystem.NewBackupStorage(filepath.Join(root, "backups"), log)
	require.NoError(t, err)
	expired := filepath.Join(storage.Root(), "20200101_Daily_Backup_Job")
	require.NoError(t, os.MkdirAll(expired, 0o750))

	tarball, err := archive.NewTarball(0)
	require.NoError(t, err)

	retentionSvc := retention.NewService(storage, nil, retention.Config{
		Policy:             domain.DefaultRetentionPolicy(),
		MaxParallelDeletes: 2,
	})

	svc := backup.NewService(storage, tarball, dumper, wpconfig.NewReader(log), retentionSvc, backup.Config{
		Sites:   []domain.Site{{Name: "blog", Path: sitePath}},
		WorkDir: filepath.Join(root, "work"),
	}, log)

	result, err := svc.Run(ctx)
	require.NoError(t, err)
	require.Len(t, result.Sites, 1)
	assert.Equal(t, domain.SiteBackupCompleted, result.Sites[0].Status)
	assert.Positive(t, result.Sites[0].SizeBytes)
	assert.Equal(t, domain.BackupUnitID(domain.Today(time.Now(), time.UTC)), result.UnitID)

	require.NotNil(t, result.Retention)
	assert.Equal(t, 1, result.Retention.Retained)
	assert.Equal(t, 1, result.Retention.Deleted)
	assert.NoDirExists(t, expired)

	archives, err := storage.ListArchives(ctx, result.UnitID)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.SiteArchiveName("blog")}, archives)

	require.NoError(t, os.RemoveAll(filepath.Join(sitePath, "wp-content")))

	restored, err := svc.Restore(ctx, "blog", "")
	require.NoError(t, err)
	assert.Equal(t, result.UnitID, restored)

	assert.FileExists(t, filepath.Join(sitePath, "wp-content", "uploads", "cat.jpg"))
	dump, err := os.ReadFile(importOut)
	require.NoError(t, err)
	assert.Contains(t, string(dump), "CREATE TABLE wp_posts")
	assert.Contains(t, string(dump), "s3cret")
}
