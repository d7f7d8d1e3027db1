package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	defaultPort              = 9000
	defaultMetricsPort       = 2112
	defaultLogsAllowedPerMin = 30
	defaultStatsCacheSizeMB  = 16
	defaultStatsCacheTTL     = 5 * time.Minute
	defaultStreakTimeout     = 2 * time.Second
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsHost string `toml:"metrics_host"`
	MetricsPort int    `toml:"metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// workouts
	LogsAllowedPerMin  int      `toml:"logs_allowed_per_min"`
	StatsCacheSizeMB   int      `toml:"stats_cache_size_mb"`
	StatsCacheTTL      Duration `toml:"stats_cache_ttl"`
	StreakTimeout      Duration `toml:"streak_timeout"`
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// Duration reads TOML strings like "5m" or "1500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
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
		return nil, fmt.Errorf("no config for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the config of env with
// defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults(env)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = defaultMetricsPort
	}
	if c.LogsAllowedPerMin == 0 {
		c.LogsAllowedPerMin = defaultLogsAllowedPerMin
	}
	if c.StatsCacheSizeMB == 0 {
		c.StatsCacheSizeMB = defaultStatsCacheSizeMB
	}
	if c.StatsCacheTTL.Duration == 0 {
		c.StatsCacheTTL.Duration = defaultStatsCacheTTL
	}
	if c.StreakTimeout.Duration == 0 {
		c.StreakTimeout.Duration = defaultStreakTimeout
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		errs = append(errs, errors.New("postgres host and db name required"))
	}
	if c.Port == c.MetricsPort {
		errs = append(errs, fmt.Errorf("port and metrics port both %d", c.Port))
	}
	if c.LogsAllowedPerMin < 0 {
		errs = append(errs, errors.New("logs allowed per min negative"))
	}
	return errors.Join(errs...)
}

// Secrets never live in the config file.
type Secrets struct {
	PostgresPassword string `env:"LIFTLEDGER_PG_PASS"`
	RedisPassword    string `env:"LIFTLEDGER_REDIS_PASS"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED, default=false"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME, default=liftledger"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return LoadSecretsFrom(ctx, envconfig.OsLookuper())
}

func LoadSecretsFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}
