package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/retry"
)

var _ contact.TxManager = (*Client)(nil)

// Replaced in tests.
var beginTx = func(ctx context.Context, p *pgxpool.Pool, opts pgx.TxOptions) (pgx.Tx, error) {
	return p.BeginTx(ctx, opts)
}

type TxOptions struct {
	Iso      pgx.TxIsoLevel // default ReadCommitted
	ReadOnly bool

	// StatementTimeout is applied with SET LOCAL for the transaction only.
	StatementTimeout time.Duration
}

// WithTx runs fn in a read-write transaction. fn must use the Runner from
// the ctx it receives.
func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return c.WithTxOpts(ctx, TxOptions{}, fn)
}

// WithinTx joins the transaction already in ctx through a savepoint, or
// opens a new one. A new transaction is run again when it fails with a
// serialization failure or a deadlock.
func (c *Client) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := inTx(ctx); ok {
		return c.WithSavepoint(ctx, fn)
	}
	return retry.Do(ctx, retry.Short(), func(ctx context.Context) error {
		err := c.WithTx(ctx, fn)
		if err != nil && !IsRetryable(err) {
			return retry.Permanent(err)
		}
		return err
	})
}

// WithTxOpts commits when fn returns nil and rolls back on error or panic;
// the panic is re-raised.
func (c *Client) WithTxOpts(ctx context.Context, o TxOptions, fn func(ctx context.Context) error) (err error) {
	opts := pgx.TxOptions{IsoLevel: o.Iso, AccessMode: pgx.ReadWrite}
	if o.ReadOnly {
		opts.AccessMode = pgx.ReadOnly
	}

	var pool *pgxpool.Pool
	if c != nil {
		pool = c.Pool
	}
	tx, err := beginTx(ctx, pool, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			return
		}
		err = tx.Commit(ctx)
	}()

	if o.StatementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", o.StatementTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return fn(ContextWithRunner(ctx, txRunner{tx: tx}))
}

// WithSavepoint runs fn inside a savepoint of the transaction carried by
// ctx, or in a new transaction when there is none.
func (c *Client) WithSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	run, ok := inTx(ctx)
	if !ok {
		return c.WithTx(ctx, fn)
	}

	sp := fmt.Sprintf("sp_%d", time.Now().UnixNano())
	if _, err := run.Exec(ctx, "SAVEPOINT "+sp); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		_, _ = run.Exec(ctx, "ROLLBACK TO SAVEPOINT "+sp)
		_, _ = run.Exec(ctx, "RELEASE SAVEPOINT "+sp)
		return err
	}
	_, err := run.Exec(ctx, "RELEASE SAVEPOINT "+sp)
	return err
}
