// Package postgres is the PostgreSQL contact store: a pgx pool, context
// carried transactions and the record queries.
package postgres

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vortex-fintech/go-profile/foundation/retry"
)

const defaultApplicationName = "go-profile"

// Replaced in tests.
var (
	newPool  = pgxpool.NewWithConfig
	pingPool = func(ctx context.Context, p *pgxpool.Pool) error { return p.Ping(ctx) }
)

type Client struct {
	Pool *pgxpool.Pool
}

// Open builds the pool and pings it, retrying the ping with the startup
// policy while the database comes up.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pcfg, err := pgxpool.ParseConfig(buildURL(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pcfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pcfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckPeriod > 0 {
		pcfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	}

	params := pcfg.ConnConfig.Config.RuntimeParams
	if params == nil {
		params = map[string]string{}
		pcfg.ConnConfig.Config.RuntimeParams = params
	}
	if _, ok := params["application_name"]; !ok {
		name := cfg.ApplicationName
		if name == "" {
			name = defaultApplicationName
		}
		params["application_name"] = name
	}
	if _, ok := params["TimeZone"]; !ok {
		params["TimeZone"] = "UTC"
	}

	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	err = retry.Do(ctx, retry.Startup(), func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pingPool(pingCtx, pool)
	})
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	return &Client{Pool: pool}, nil
}

// Ping reports whether the database answers.
func (c *Client) Ping(ctx context.Context) error {
	return pingPool(ctx, c.Pool)
}

func (c *Client) Close() {
	if c != nil && c.Pool != nil {
		c.Pool.Close()
	}
}

// buildURL applies cfg.Params to cfg.URL.
func buildURL(cfg Config) string {
	base := strings.TrimSpace(cfg.URL)
	if base == "" || len(cfg.Params) == 0 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for k, v := range cfg.Params {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
