package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wpbackup/internal/domain"
)

const minimalConfig = `
[storage.s3]
bucket = "wp-backups"
access_key = "key"
secret_key = "secret"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wpbackup.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func validConfig() Config {
	var cfg Config
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"
	cfg.Storage.S3.Bucket = "wp-backups"
	cfg.Retention.DailyDays = 7
	cfg.Retention.WeeklyDays = 28
	cfg.Retention.MonthlyDays = 90
	cfg.Retention.Timezone = "UTC"
	cfg.Retention.MaxParallelDeletes = 4
	cfg.Tools.CompressionLevel = -1
	cfg.Schedule.Cron = DefaultSchedule
	return cfg
}

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, loadConfig(v, writeConfig(t, minimalConfig)))

	assert.Equal(t, 7, v.GetInt("retention.daily_days"))
	assert.Equal(t, 28, v.GetInt("retention.weekly_days"))
	assert.Equal(t, 90, v.GetInt("retention.monthly_days"))
	assert.Equal(t, "UTC", v.GetString("retention.timezone"))
	assert.Equal(t, 1, v.GetInt("retention.max_parallel_deletes"))
	assert.Equal(t, DefaultSchedule, v.GetString("schedule.cron"))
	assert.Equal(t, "mysqldump", v.GetString("tools.mysqldump"))
	assert.Equal(t, "wp-backups", v.GetString("storage.s3.bucket"))
}

func TestLoadConfigMissingFileIsAnError(t *testing.T) {
	v := viper.New()
	err := loadConfig(v, filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestInitConfigDecodesSites(t *testing.T) {
	path := writeConfig(t, minimalConfig+`
[retention]
daily_days = 5
timezone = "Europe/Paris"

[[sites]]
name = "blog"
path = "/var/www/blog"

[[sites]]
name = "shop"
path = "/var/www/shop"
[sites.db]
name = "shop_db"
user = "shop"
password = "pw"
host = "db.internal"
port = 3307
`)

	_, cfg, err := initConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Retention.DailyDays)
	sites := cfg.sites()
	require.Len(t, sites, 2)
	assert.Equal(t, "blog", sites[0].Name)
	assert.True(t, sites[0].DB.Empty())
	assert.Equal(t, domain.DBCredentials{Name: "shop_db", User: "shop", Password: "pw", Host: "db.internal", Port: 3307}, sites[1].DB)
}

func TestInitConfigEnvOverride(t *testing.T) {
	t.Setenv("WPBACKUP_RETENTION_MONTHLY_DAYS", "120")
	t.Setenv("WPBACKUP_STORAGE_S3_PREFIX", "prod")

	_, cfg, err := initConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Retention.MonthlyDays)
	assert.Equal(t, "prod", cfg.Storage.S3.Prefix)
}

func TestInitConfigRejectsInvalidFile(t *testing.T) {
	_, _, err := initConfig(writeConfig(t, "[storage.s3\nbucket ="))
	require.ErrorIs(t, err, domain.ErrConfigLoadFailed)
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validConfig()))

	tests := []struct {
		name string
		set  func(*Config)
		want string
	}{
		{
			name: "missing bucket",
			set:  func(c *Config) { c.Storage.S3.Bucket = "" },
			want: "storage.s3.bucket",
		},
		{
			name: "zero daily window",
			set:  func(c *Config) { c.Retention.DailyDays = 0 },
			want: "retention.daily_days",
		},
		{
			name: "negative weekly window",
			set:  func(c *Config) { c.Retention.WeeklyDays = -1 },
			want: "retention.weekly_days",
		},
		{
			name: "windows out of order",
			set: func(c *Config) {
				c.Retention.WeeklyDays = 60
				c.Retention.MonthlyDays = 30
			},
			want: "monthly window",
		},
		{
			name: "weekly window equal to daily",
			set:  func(c *Config) { c.Retention.WeeklyDays = c.Retention.DailyDays },
			want: "weekly window",
		},
		{
			name: "monthly window equal to weekly",
			set:  func(c *Config) { c.Retention.MonthlyDays = c.Retention.WeeklyDays },
			want: "monthly window",
		},
		{
			name: "unknown timezone",
			set:  func(c *Config) { c.Retention.Timezone = "Mars/Olympus" },
			want: "retention.timezone",
		},
		{
			name: "bad cron",
			set:  func(c *Config) { c.Schedule.Cron = "every night" },
			want: "schedule.cron",
		},
		{
			name: "parallelism out of range",
			set:  func(c *Config) { c.Retention.MaxParallelDeletes = 0 },
			want: "retention.max_parallel_deletes",
		},
		{
			name: "negative delete rate",
			set:  func(c *Config) { c.Retention.DeleteRatePerSecond = -1 },
			want: "retention.delete_rate_per_second",
		},
		{
			name: "site without path",
			set: func(c *Config) {
				c.Sites = []SiteConfig{{Name: "blog"}}
			},
			want: "sites[0].path",
		},
		{
			name: "duplicate site",
			set: func(c *Config) {
				c.Sites = []SiteConfig{{Name: "blog", Path: "/a"}, {Name: "Blog", Path: "/b"}}
			},
			want: "duplicate site",
		},
		{
			name: "local storage without dir",
			set: func(c *Config) {
				c.Storage.Local.Enabled = true
				c.Storage.Local.Dir = ""
			},
			want: "storage.local.dir",
		},
		{
			name: "pushgateway without url",
			set:  func(c *Config) { c.Metrics.Pushgateway.Enabled = true },
			want: "metrics.pushgateway.url",
		},
		{
			name: "unknown log level",
			set:  func(c *Config) { c.Logging.Level = "verbose" },
			want: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.set(&cfg)

			err := validateConfig(cfg)
			require.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolveSchedule(t *testing.T) {
	sched, err := resolveSchedule("  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultSchedule, sched.Expr)

	sched, err = resolveSchedule("@daily")
	require.NoError(t, err)
	assert.Equal(t, "@daily", sched.Expr)

	_, err = resolveSchedule("61 * * * *")
	require.Error(t, err)
}

func TestResolveLocation(t *testing.T) {
	loc, err := resolveLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = resolveLocation("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "retention.daily_days", configKey("Config.retention.daily_days"))
	assert.Equal(t, "bucket", configKey("bucket"))
}
