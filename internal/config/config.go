package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultHost                 = "localhost"
	defaultPort                 = 8080
	defaultDatabaseURL          = "file:./data/mmtreino.db"
	defaultWriteRateLimitPerMin = 120
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// storage: file:/sqlite: prefix or .db suffix selects sqlite,
	// postgres:// or postgresql:// selects postgres
	DatabaseURL string `toml:"database_url"`
	AutoMigrate bool   `toml:"auto_migrate"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	AllowedOrigins []string `toml:"allowed_origins"`
	SecureCookie   bool     `toml:"secure_cookie"`

	// redis is optional; without it workout writes are not rate limited
	RedisHost            string `toml:"redis_host"`
	RedisPort            string `toml:"redis_port"`
	WriteRateLimitPerMin int    `toml:"write_rate_limit_per_min"`

	// spreadsheet importer
	DataDir string `toml:"data_dir"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var (
		cfg      *Config
		normEnv  string
		isProdEn bool
	)
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg, normEnv = t.Development, "development"
	case "prod", "production":
		cfg, normEnv, isProdEn = t.Production, "production", true
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", normEnv)
	}

	cfg.Environment = normEnv
	if isProdEn {
		cfg.SecureCookie = true
	}
	return cfg, nil
}

// Load reads the TOML file at path, picks the section for env, then applies
// defaults and environment variable overrides.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("DATABASE_URL"); ok && strings.TrimSpace(v) != "" {
		c.DatabaseURL = strings.TrimSpace(v)
	}
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = defaultDatabaseURL
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.WriteRateLimitPerMin <= 0 {
		c.WriteRateLimitPerMin = defaultWriteRateLimitPerMin
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != "" && c.RedisPort != ""
}
