package postgres

import (
	"errors"
	"strings"
	"time"
)

// Config is a URL based connection config with pool options.
type Config struct {
	URL    string            `yaml:"url"`
	Params map[string]string `yaml:"params"` // extra URL params, override the query

	MaxConns          int32         `yaml:"max_conns" validate:"gte=0"`
	MinConns          int32         `yaml:"min_conns" validate:"gte=0"`
	MaxConnLifetime   time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `yaml:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `yaml:"health_check_period"`

	// ApplicationName shows up in pg_stat_activity.
	ApplicationName string `yaml:"application_name"`
}

var (
	errEmptyURL                = errors.New("postgres: empty URL")
	errNegativeMaxConns        = errors.New("postgres: max conns must be >= 0")
	errNegativeMinConns        = errors.New("postgres: min conns must be >= 0")
	errMinConnsExceedsMaxConns = errors.New("postgres: min conns must be <= max conns")
)

func (c Config) validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errEmptyURL
	}
	if c.MaxConns < 0 {
		return errNegativeMaxConns
	}
	if c.MinConns < 0 {
		return errNegativeMinConns
	}
	if c.MaxConns > 0 && c.MinConns > c.MaxConns {
		return errMinConnsExceedsMaxConns
	}
	return nil
}
