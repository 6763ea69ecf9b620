package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contextRunnerStub struct{}

func (contextRunnerStub) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (contextRunnerStub) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (contextRunnerStub) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestRunnerFromContext(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // nil context is accepted on purpose
	ctx := ContextWithRunner(nil, contextRunnerStub{})
	require.NotNil(t, ctx)
	assert.IsType(t, contextRunnerStub{}, RunnerFromContext(ctx, nil))
	assert.IsType(t, contextRunnerStub{}, RunnerFromContext(ctx, &Client{}))

	assert.Nil(t, RunnerFromContext(context.Background(), nil))
	assert.IsType(t, poolRunner{}, RunnerFromContext(context.Background(), &Client{}))
}

func TestInTx(t *testing.T) {
	t.Parallel()

	_, ok := inTx(ContextWithRunner(context.Background(), contextRunnerStub{}))
	assert.False(t, ok, "a plain runner is not a transaction")

	_, ok = inTx(ContextWithRunner(context.Background(), txRunner{tx: &txStub{}}))
	assert.True(t, ok)
}
