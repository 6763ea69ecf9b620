package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	traceIDKey ctxKey = "trace_id"
	runIDKey   ctxKey = "run_id"
)

// Zap is the zap-backed Logger.
type Zap struct {
	*zap.SugaredLogger
}

var _ Logger = (*Zap)(nil)

// New builds a logger for env: development, debug, production.
// Anything else gets development encoding at info level.
func New(serviceName, env string) (*Zap, error) {
	cfg, withCaller := buildConfig(env)

	z, err := cfg.Build(
		zap.WithCaller(withCaller),
		zap.AddCallerSkip(1),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init zap logger: %w", err)
	}

	return &Zap{SugaredLogger: z.Named(serviceName).Sugar()}, nil
}

// Nop discards everything.
func Nop() *Zap {
	return &Zap{SugaredLogger: zap.NewNop().Sugar()}
}

// Wrap adopts an existing zap logger (tests use zaptest/observer cores).
func Wrap(z *zap.Logger) *Zap {
	if z == nil {
		return Nop()
	}
	return &Zap{SugaredLogger: z.Sugar()}
}

// Or returns l, or a no-op logger when l is nil.
func Or(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}

func buildConfig(env string) (zap.Config, bool) {
	var cfg zap.Config
	withCaller := false

	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true

	case "debug":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		withCaller = true

	case "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.DisableStacktrace = true

	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.NameKey = "logger"
	if withCaller {
		cfg.EncoderConfig.CallerKey = "caller"
	} else {
		cfg.EncoderConfig.CallerKey = zapcore.OmitKey
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	return cfg, withCaller
}

func (l *Zap) With(kv ...any) Logger {
	return &Zap{SugaredLogger: l.SugaredLogger.With(kv...)}
}

func (l *Zap) Ctx(ctx context.Context) Logger {
	kv := contextFields(ctx)
	if len(kv) == 0 {
		return l
	}
	return l.With(kv...)
}

func (l *Zap) Debugw(m string, kv ...any) { l.SugaredLogger.Debugw(m, kv...) }
func (l *Zap) Infow(m string, kv ...any)  { l.SugaredLogger.Infow(m, kv...) }
func (l *Zap) Warnw(m string, kv ...any)  { l.SugaredLogger.Warnw(m, kv...) }
func (l *Zap) Errorw(m string, kv ...any) { l.SugaredLogger.Errorw(m, kv...) }

func (l *Zap) SafeSync() {
	if l == nil {
		return
	}
	if err := l.Desugar().Sync(); err != nil && !isIgnorableSyncError(err) {
		l.Errorw("log sync failed", "err", err)
	}
}

func isIgnorableSyncError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "invalid argument") ||
		strings.Contains(s, "inappropriate ioctl for device") ||
		strings.Contains(s, "bad file descriptor")
}

func contextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var kv []any
	if s, ok := ctx.Value(traceIDKey).(string); ok && s != "" {
		kv = append(kv, "trace_id", s)
	}
	if s, ok := ctx.Value(runIDKey).(string); ok && s != "" {
		kv = append(kv, "run_id", s)
	}
	return kv
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceIDKey, traceID)
}

// ContextWithRunID tags a sweep or batch run.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runIDKey, runID)
}
