// Package app provides the application initialization and wiring.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bnema/wpbackup/internal/adapters/out/pushgateway"
	"github.com/bnema/wpbackup/internal/adapters/out/telemetry"
	"github.com/bnema/wpbackup/internal/domain"
	"github.com/bnema/wpbackup/internal/usecase/cron"
)

// DefaultSchedule runs the backup job every night at 02:00.
const DefaultSchedule = "0 2 * * *"

// Config holds the application configuration.
type Config struct {
	Logging struct {
		Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
		Format string `mapstructure:"format" validate:"oneof=console json"`
		File   struct {
			Enabled    bool   `mapstructure:"enabled"`
			Path       string `mapstructure:"path"`
			MaxSize    int    `mapstructure:"max_size" validate:"gte=0"`
			MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
			MaxAge     int    `mapstructure:"max_age" validate:"gte=0"`
		} `mapstructure:"file"`
	} `mapstructure:"logging"`

	Storage struct {
		S3 struct {
			Endpoint     string `mapstructure:"endpoint" validate:"omitempty,url"`
			Region       string `mapstructure:"region"`
			Bucket       string `mapstructure:"bucket" validate:"required"`
			Prefix       string `mapstructure:"prefix"`
			AccessKey    string `mapstructure:"access_key"`
			SecretKey    string `mapstructure:"secret_key"`
			UsePathStyle bool   `mapstructure:"use_path_style"`
			PartSizeMB   int64  `mapstructure:"part_size_mb" validate:"gte=0"`
		} `mapstructure:"s3"`
		Local struct {
			Enabled bool   `mapstructure:"enabled"`
			Dir     string `mapstructure:"dir" validate:"required_if=Enabled true"`
		} `mapstructure:"local"`
	} `mapstructure:"storage"`

	Retention struct {
		DailyDays           int     `mapstructure:"daily_days" validate:"gt=0"`
		WeeklyDays          int     `mapstructure:"weekly_days" validate:"gt=0"`
		MonthlyDays         int     `mapstructure:"monthly_days" validate:"gt=0"`
		Timezone            string  `mapstructure:"timezone"`
		MaxParallelDeletes  int     `mapstructure:"max_parallel_deletes" validate:"gte=1,lte=64"`
		DeleteRatePerSecond float64 `mapstructure:"delete_rate_per_second" validate:"gte=0"`
		Local               bool    `mapstructure:"local"`
	} `mapstructure:"retention"`

	Sites []SiteConfig `mapstructure:"sites" validate:"dive"`

	Tools struct {
		Mysqldump        string   `mapstructure:"mysqldump"`
		Mysql            string   `mapstructure:"mysql"`
		DumpArgs         []string `mapstructure:"dump_args"`
		CompressionLevel int      `mapstructure:"compression_level" validate:"gte=-2,lte=9"`
		WorkDir          string   `mapstructure:"work_dir"`
	} `mapstructure:"tools"`

	Schedule struct {
		Cron string `mapstructure:"cron"`
	} `mapstructure:"schedule"`

	Telemetry telemetry.Config `mapstructure:"telemetry"`

	Metrics struct {
		Pushgateway pushgateway.Config `mapstructure:"pushgateway"`
	} `mapstructure:"metrics"`
}

// SiteConfig describes one WordPress installation.
type SiteConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Path string `mapstructure:"path" validate:"required"`
	DB   struct {
		Name     string `mapstructure:"name"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port" validate:"gte=0,lte=65535"`
		Socket   string `mapstructure:"socket"`
	} `mapstructure:"db"`
}

// ConfigureViper sets up viper with standard config file search paths.
// Config file: wpbackup.toml
// Search paths (in order): /etc/wpbackup, ~/.config/wpbackup, current directory
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("wpbackup")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/wpbackup")
		v.AddConfigPath("$HOME/.config/wpbackup")
		v.AddConfigPath(".")
	}
}

// DefaultLocalDir returns the default directory for local backup copies.
func DefaultLocalDir() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "share", "wpbackup", "backups")
	}
	return "/var/lib/wpbackup/backups"
}

// loadConfig loads configuration from file and sets defaults.
func loadConfig(v *viper.Viper, configPath string) error {
	policy := domain.DefaultRetentionPolicy()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.max_size", 100)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age", 28)
	// keys without a default are invisible to env overrides on Unmarshal
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.prefix", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.part_size_mb", 0)
	v.SetDefault("storage.s3.use_path_style", false)
	v.SetDefault("storage.local.enabled", false)
	v.SetDefault("storage.local.dir", DefaultLocalDir())
	v.SetDefault("retention.daily_days", policy.DailyWindowDays)
	v.SetDefault("retention.weekly_days", policy.WeeklyWindowDays)
	v.SetDefault("retention.monthly_days", policy.MonthlyWindowDays)
	v.SetDefault("retention.timezone", "UTC")
	v.SetDefault("retention.max_parallel_deletes", 1)
	v.SetDefault("retention.delete_rate_per_second", 0)
	v.SetDefault("retention.local", true)
	v.SetDefault("tools.mysqldump", "mysqldump")
	v.SetDefault("tools.mysql", "mysql")
	v.SetDefault("tools.compression_level", -1)
	v.SetDefault("schedule.cron", DefaultSchedule)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.auth_token", "")
	v.SetDefault("telemetry.traces", true)
	v.SetDefault("telemetry.metrics", true)
	v.SetDefault("telemetry.trace_sample_rate", 1.0)
	v.SetDefault("metrics.pushgateway.enabled", false)
	v.SetDefault("metrics.pushgateway.url", "")
	v.SetDefault("metrics.pushgateway.job", "wpbackup")
	v.SetDefault("metrics.pushgateway.instance", "")
	v.SetDefault("metrics.pushgateway.username", "")
	v.SetDefault("metrics.pushgateway.password", "")
	v.SetDefault("metrics.pushgateway.timeout", 10*time.Second)

	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("WPBACKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}

// initConfig loads, decodes and validates the configuration.
func initConfig(configPath string) (*viper.Viper, Config, error) {
	v := viper.New()
	if err := loadConfig(v, configPath); err != nil {
		return nil, Config{}, fmt.Errorf("%w: %w", domain.ErrConfigLoadFailed, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, Config{}, fmt.Errorf("%w: failed to unmarshal config: %w", domain.ErrConfigLoadFailed, err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, Config{}, err
	}

	return v, cfg, nil
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// report config keys rather than Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return validate
}

// validateConfig runs struct validation plus the checks tags cannot express.
func validateConfig(cfg Config) error {
	if err := newValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", configKey(fe.Namespace()), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	if _, err := retentionPolicy(cfg); err != nil {
		return fmt.Errorf("%w: retention: %w", domain.ErrInvalidConfig, err)
	}
	if _, err := resolveLocation(cfg.Retention.Timezone); err != nil {
		return fmt.Errorf("%w: retention.timezone: %w", domain.ErrInvalidConfig, err)
	}
	if _, err := resolveSchedule(cfg.Schedule.Cron); err != nil {
		return fmt.Errorf("%w: schedule.cron: %w", domain.ErrInvalidConfig, err)
	}

	seen := make(map[string]bool, len(cfg.Sites))
	for _, site := range cfg.Sites {
		key := strings.ToLower(domain.SanitizeSiteName(site.Name))
		if seen[key] {
			return fmt.Errorf("%w: sites: duplicate site name %q", domain.ErrInvalidConfig, site.Name)
		}
		seen[key] = true
	}

	if cfg.Metrics.Pushgateway.Enabled && cfg.Metrics.Pushgateway.URL == "" {
		return fmt.Errorf("%w: metrics.pushgateway.url is required when enabled", domain.ErrInvalidConfig)
	}

	return nil
}

// configKey turns "Config.retention.daily_days" into "retention.daily_days".
func configKey(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return key
}

func retentionPolicy(cfg Config) (domain.RetentionPolicy, error) {
	policy := domain.RetentionPolicy{
		DailyWindowDays:   cfg.Retention.DailyDays,
		WeeklyWindowDays:  cfg.Retention.WeeklyDays,
		MonthlyWindowDays: cfg.Retention.MonthlyDays,
	}
	return policy, policy.Validate()
}

func resolveLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(strings.TrimSpace(name))
}

func resolveSchedule(expr string) (domain.CronSchedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultSchedule
	}
	if _, err := cron.ParseSchedule(expr); err != nil {
		return domain.CronSchedule{}, err
	}
	return domain.CronSchedule{Expr: expr}, nil
}

func (c Config) sites() []domain.Site {
	sites := make([]domain.Site, 0, len(c.Sites))
	for _, s := range c.Sites {
		sites = append(sites, domain.Site{
			Name: s.Name,
			Path: s.Path,
			DB: domain.DBCredentials{
				Name:     s.DB.Name,
				User:     s.DB.User,
				Password: s.DB.Password,
				Host:     s.DB.Host,
				Port:     s.DB.Port,
				Socket:   s.DB.Socket,
			},
		})
	}
	return sites
}
