package sqlite

import (
	"context"
	"database/sql"
)

// Executor abstracts *sql.DB or *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type ctxKeyTx struct{}

// ContextWithTx makes stores called with the returned ctx use tx.
func ContextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyTx{}, tx)
}

func txFromContext(ctx context.Context) (*sql.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(ctxKeyTx{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// UseExecutor returns the transaction carried by ctx, otherwise db.
func UseExecutor(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}
