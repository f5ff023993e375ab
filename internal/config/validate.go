package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	switch c.Source.Kind {
	case SourceHTTP:
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
		}
		if c.API.MaxRetries < 0 {
			return errors.New("api.max_retries must be >= 0")
		}
	case SourcePostgres:
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("source.kind must be %q or %q, got %q", SourceHTTP, SourcePostgres, c.Source.Kind)
	}

	if c.Sessions.MaxSessions < 1 {
		return errors.New("sessions.max_sessions must be >= 1")
	}
	if c.Sessions.IdleTimeout <= 0 {
		return errors.New("sessions.idle_timeout must be positive")
	}

	if !c.Refresh.Disabled {
		if c.Refresh.Interval <= 0 {
			return errors.New("refresh.interval must be positive")
		}
		if c.Refresh.Concurrency < 1 {
			return errors.New("refresh.concurrency must be >= 1")
		}
	}

	if c.Trend.DefaultDays < model.MinTrendDays || c.Trend.DefaultDays > model.MaxTrendDays {
		return fmt.Errorf("trend.default_days must be between %d and %d, got %d",
			model.MinTrendDays, model.MaxTrendDays, c.Trend.DefaultDays)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
