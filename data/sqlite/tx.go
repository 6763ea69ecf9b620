package sqlite

import (
	"context"
	"database/sql"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/retry"
)

var _ contact.TxManager = (*DB)(nil)

// WithinTx runs fn in a transaction, or directly inside the one ctx
// already carries. A new transaction that fails because the database is
// busy is run again.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return retry.Do(ctx, retry.Short(), func(ctx context.Context) error {
		err := d.WithTx(ctx, nil, fn)
		if err != nil && !IsBusy(err) {
			return retry.Permanent(err)
		}
		return err
	})
}

// WithTx commits when fn returns nil and rolls back on error or panic;
// the panic is re-raised.
func (d *DB) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ContextWithTx(ctx, tx))
}
