package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Runner is what both the pool and a transaction can do. Store queries take
// the Runner from ctx so that they join an open merge transaction.
type Runner interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type poolRunner struct{ p *pgxpool.Pool }

func (r poolRunner) Exec(ctx context.Context, q string, args ...any) (pgconn.CommandTag, error) {
	return r.p.Exec(ctx, q, args...)
}
func (r poolRunner) Query(ctx context.Context, q string, args ...any) (pgx.Rows, error) {
	return r.p.Query(ctx, q, args...)
}
func (r poolRunner) QueryRow(ctx context.Context, q string, args ...any) pgx.Row {
	return r.p.QueryRow(ctx, q, args...)
}

type txRunner struct{ tx pgx.Tx }

func (r txRunner) Exec(ctx context.Context, q string, args ...any) (pgconn.CommandTag, error) {
	return r.tx.Exec(ctx, q, args...)
}
func (r txRunner) Query(ctx context.Context, q string, args ...any) (pgx.Rows, error) {
	return r.tx.Query(ctx, q, args...)
}
func (r txRunner) QueryRow(ctx context.Context, q string, args ...any) pgx.Row {
	return r.tx.QueryRow(ctx, q, args...)
}

type ctxKeyRunner struct{}

func ContextWithRunner(ctx context.Context, r Runner) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyRunner{}, r)
}

// RunnerFromContext returns the Runner carried by ctx, else the pool of
// fallback, else nil.
func RunnerFromContext(ctx context.Context, fallback *Client) Runner {
	if ctx != nil {
		if r, ok := ctx.Value(ctxKeyRunner{}).(Runner); ok {
			return r
		}
	}
	if fallback == nil {
		return nil
	}
	return poolRunner{p: fallback.Pool}
}

// inTx reports whether ctx already carries a transaction.
func inTx(ctx context.Context) (txRunner, bool) {
	if ctx == nil {
		return txRunner{}, false
	}
	r, ok := ctx.Value(ctxKeyRunner{}).(txRunner)
	return r, ok
}
