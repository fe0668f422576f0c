package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendSqlite   = "sqlite"
	BackendMemory   = "memory"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// schedule
	ReferenceTimezone string `toml:"reference_timezone"`
	PreviewDays       int    `toml:"preview_days"`
	GenerationEnabled bool   `toml:"generation_enabled"`
	GenerationTime    string `toml:"generation_time"`
	ContentServiceURL string `toml:"content_service_url"`

	// overrides storage
	OverridesBackend string        `toml:"overrides_backend"`
	OverrideCacheTTL time.Duration `toml:"override_cache_ttl"`
	SqlitePath       string        `toml:"sqlite_path"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// admin
	AdminRateLimitPerMin int `toml:"admin_rate_limit_per_min"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env, with
// defaults applied and validated.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9100
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ReferenceTimezone == "" {
		c.ReferenceTimezone = "UTC"
	}
	if c.PreviewDays == 0 {
		c.PreviewDays = 3
	}
	if c.GenerationTime == "" {
		c.GenerationTime = "00:05"
	}
	if c.OverridesBackend == "" {
		c.OverridesBackend = BackendMemory
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.AdminRateLimitPerMin == 0 {
		c.AdminRateLimitPerMin = 30
	}
}

// Location returns the reference timezone every "today" is computed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReferenceTimezone)
	if err != nil {
		return nil, fmt.Errorf("load reference timezone [%s]: %w", c.ReferenceTimezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	var err error
	if c.Port < 0 || c.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.PreviewDays < 1 || c.PreviewDays > 84 {
		err = multierr.Append(err, fmt.Errorf("preview_days must be in [1, 84], got %d", c.PreviewDays))
	}
	if _, locErr := c.Location(); locErr != nil {
		err = multierr.Append(err, locErr)
	}
	if _, parseErr := time.Parse("15:04", c.GenerationTime); parseErr != nil {
		err = multierr.Append(err, fmt.Errorf("invalid generation_time [%s], expected HH:MM", c.GenerationTime))
	}
	if c.GenerationEnabled && c.ContentServiceURL == "" {
		err = multierr.Append(err, errors.New("content_service_url is required when generation is enabled"))
	}
	if c.OverrideCacheTTL < 0 {
		err = multierr.Append(err, fmt.Errorf("negative override_cache_ttl: %s", c.OverrideCacheTTL))
	}

	switch c.OverridesBackend {
	case BackendMemory:
	case BackendSqlite:
		if c.SqlitePath == "" {
			err = multierr.Append(err, errors.New("sqlite_path is required for the sqlite backend"))
		}
	case BackendPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			err = multierr.Append(err, errors.New("postgres_host, postgres_port and postgres_db_name are required for the postgres backend"))
		}
	case BackendRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			err = multierr.Append(err, errors.New("redis_host and redis_port are required for the redis backend"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown overrides_backend: %s", c.OverridesBackend))
	}

	return err
}
