package config

import "time"

// Config is the root configuration for the dashboard service.
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	API      APIConfig      `yaml:"api" envPrefix:"API_"`
	Source   SourceConfig   `yaml:"source" envPrefix:"SOURCE_"`
	Database DBConfig       `yaml:"database" envPrefix:"DB_"`
	Sessions SessionsConfig `yaml:"sessions" envPrefix:"SESSIONS_"`
	Refresh  RefreshConfig  `yaml:"refresh" envPrefix:"REFRESH_"`
	Trend    TrendConfig    `yaml:"trend" envPrefix:"TREND_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
}

// ServerConfig holds the dashboard HTTP listener settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr" env:"ADDR"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// APIConfig holds price backend REST settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url" env:"BASE_URL"`
	Timeout      time.Duration `yaml:"timeout" env:"TIMEOUT"`
	MaxRetries   int           `yaml:"max_retries" env:"MAX_RETRIES"` // 0 disables retries
	RetryBackoff time.Duration `yaml:"retry_backoff" env:"RETRY_BACKOFF"`
}

// Source kinds.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// SourceConfig selects where price data is read from.
type SourceConfig struct {
	Kind string `yaml:"kind" env:"KIND"`
}

// DBConfig holds a single database connection.
// Only used when source.kind is postgres.
type DBConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	Name     string `yaml:"name" env:"NAME"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"SSL_MODE"`
	MaxConns int    `yaml:"max_conns" env:"MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"MIN_CONNS"`
}

// SessionsConfig holds live screen session settings.
type SessionsConfig struct {
	MaxSessions  int           `yaml:"max_sessions" env:"MAX"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ReapInterval time.Duration `yaml:"reap_interval" env:"REAP_INTERVAL"`
}

// RefreshConfig holds periodic re-fetch settings for live sessions.
type RefreshConfig struct {
	Disabled    bool          `yaml:"disabled" env:"DISABLED"`
	Interval    time.Duration `yaml:"interval" env:"INTERVAL"`
	Concurrency int           `yaml:"concurrency" env:"CONCURRENCY"`
}

// TrendConfig holds trend screen settings.
type TrendConfig struct {
	DefaultDays int `yaml:"default_days" env:"DEFAULT_DAYS"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // text or json
}
