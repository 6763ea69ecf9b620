package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vortex-fintech/go-profile/foundation/logger"
)

func TestNewEnvs(t *testing.T) {
	for _, env := range []string{"development", "debug", "production", "unknown"} {
		log, err := logger.New("svc", env)
		require.NoError(t, err, env)
		log.Infow("env", "env", env)
		log.SafeSync()
	}
}

func TestCtxAddsContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.Wrap(zap.New(core))

	ctx := logger.ContextWithTraceID(context.Background(), "trace-1")
	ctx = logger.ContextWithRunID(ctx, "run-7")

	log.Ctx(ctx).Infow("merged", "kind", "email")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "trace-1", fields["trace_id"])
	assert.Equal(t, "run-7", fields["run_id"])
	assert.Equal(t, "email", fields["kind"])
}

func TestCtxWithoutFieldsReturnsSameLogger(t *testing.T) {
	log := logger.Nop()
	assert.Same(t, log, log.Ctx(context.Background()))
	assert.Same(t, log, log.Ctx(nil)) //nolint:staticcheck
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.Wrap(zap.New(core)).With("owner_id", "42")

	log.Warnw("lock busy")
	log.Debugw("dropped below level")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "42", logs.All()[0].ContextMap()["owner_id"])
}

func TestOr(t *testing.T) {
	assert.NotNil(t, logger.Or(nil))
	l := logger.Nop()
	assert.Equal(t, logger.Logger(l), logger.Or(l))
}
