package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/go-profile/config"
	"github.com/vortex-fintech/go-profile/data/memstore"
	"github.com/vortex-fintech/go-profile/data/postgres"
	"github.com/vortex-fintech/go-profile/data/redis"
	"github.com/vortex-fintech/go-profile/data/sqlite"
	"github.com/vortex-fintech/go-profile/dedupe"
	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/logger"
	"github.com/vortex-fintech/go-profile/foundation/phone"
	"github.com/vortex-fintech/go-profile/runtime/metrics"
	"github.com/vortex-fintech/go-profile/runtime/shutdown"
	"github.com/vortex-fintech/go-profile/security/fieldcrypt"
	"github.com/vortex-fintech/go-profile/sweep"
)

const shutdownTimeout = 15 * time.Second

// backend is the store selected by configuration.
type backend struct {
	store  contact.Store
	tx     contact.TxManager
	owners contact.OwnerLister
	ready  metrics.Check
	close  func()
}

func runSweep(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("sweep", stderr)
	cfgPath := fs.String("config", "", "YAML config file")
	once := fs.Bool("once", false, "run one pass and exit")
	concurrency := fs.Int("concurrency", 4, "owners merged at the same time")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	log, err := logger.New(cfg.Logger.Service, cfg.Logger.Env)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer log.SafeSync()

	if err := sweepWith(ctx, cfg, log, *once, *concurrency, stdout); err != nil {
		log.Errorw("sweep stopped", "error", err)
		return 1
	}
	return 0
}

func sweepWith(ctx context.Context, cfg *config.Config, log logger.Logger, once bool, concurrency int, stdout io.Writer) error {
	codec, err := fieldCodec(cfg)
	if err != nil {
		return err
	}
	be, err := openBackend(ctx, cfg, codec)
	if err != nil {
		return err
	}
	defer be.close()

	reg := prometheus.NewRegistry()
	dm, err := dedupe.NewMetrics(reg)
	if err != nil {
		return err
	}
	sm, err := sweep.NewMetrics(reg)
	if err != nil {
		return err
	}

	locker, closeLocker, err := openLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()

	policy, err := dedupe.ParsePrimaryPolicy(cfg.Dedupe.PrimaryPolicy)
	if err != nil {
		return err
	}
	opts := []dedupe.Option{
		dedupe.WithLogger(log),
		dedupe.WithMetrics(dm),
		dedupe.WithPhoneFormatter(phone.NewFormatter(phone.WithFallbackCallingCode(cfg.Phone.FallbackCallingCode))),
		dedupe.WithThreshold(cfg.Dedupe.Threshold),
		dedupe.WithPrimaryPolicy(policy),
		dedupe.WithLocker(locker, cfg.Dedupe.LockTTL),
	}
	if cfg.Dedupe.MissingFieldPenalty {
		opts = append(opts, dedupe.WithMissingFieldPenalty())
	}
	det := dedupe.New(be.store, be.tx, opts...)

	sched, err := config.ParseSchedule(cfg.Sweep.Schedule)
	if err != nil {
		return err
	}
	sw := sweep.New(det, be.store, be.owners,
		sweep.WithSchedule(sched),
		sweep.WithConcurrency(concurrency),
		sweep.WithLogger(log),
		sweep.WithMetrics(sm),
	)

	if once {
		sum, err := sw.RunOnce(ctx)
		field(stdout, "owners", sum.Owners)
		field(stdout, "skipped", sum.Skipped)
		field(stdout, "failed", sum.Failed)
		field(stdout, "emails merged", sum.Merged.Emails)
		field(stdout, "phones merged", sum.Merged.Phones)
		field(stdout, "addresses merged", sum.Merged.Addresses)
		return err
	}

	shm, err := shutdown.NewMetrics(reg)
	if err != nil {
		return err
	}
	mgr := shutdown.New(shutdown.Config{
		ShutdownTimeout: shutdownTimeout,
		HandleSignals:   true,
		Log:             log,
		Metrics:         shm,
	})
	if cfg.Sweep.MetricsAddr != "" {
		h, _, err := metrics.New(metrics.Options{Registry: reg, Ready: be.ready, Log: log})
		if err != nil {
			return err
		}
		mgr.Add(shutdown.NewHTTPServer("metrics", cfg.Sweep.MetricsAddr, h))
	}
	mgr.Add(sw)
	log.Infow("sweep scheduled", "schedule", cfg.Sweep.Schedule, "store", cfg.Store.Driver)
	return mgr.Run(ctx)
}

func fieldCodec(cfg *config.Config) (contact.FieldCodec, error) {
	if cfg.Crypto.FieldKey == "" {
		return contact.PlainCodec{}, nil
	}
	return fieldcrypt.New(cfg.Crypto.FieldKey)
}

func openBackend(ctx context.Context, cfg *config.Config, codec contact.FieldCodec) (backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		c, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return backend{}, err
		}
		if err := c.Migrate(ctx); err != nil {
			c.Close()
			return backend{}, err
		}
		s := postgres.NewStore(c, postgres.WithFieldCodec(codec))
		return backend{store: s, tx: c, owners: s, ready: c.Ping, close: c.Close}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite)
		if err != nil {
			return backend{}, err
		}
		s := sqlite.NewStore(db, sqlite.WithFieldCodec(codec))
		return backend{store: s, tx: db, owners: s, ready: db.Ping, close: func() { _ = db.Close() }}, nil

	case config.DriverMemory:
		s := memstore.New(nil)
		return backend{store: s, tx: s, owners: s, close: func() {}}, nil
	}
	return backend{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// openLocker returns the Redis lock when Redis is configured, otherwise an
// in-process one.
func openLocker(ctx context.Context, cfg *config.Config) (dedupe.Locker, func(), error) {
	if !cfg.RedisEnabled() {
		return dedupe.NewLocalLocker(), func() {}, nil
	}
	rdb, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewLocker(rdb, redis.WithKeyPrefix(cfg.Redis.KeyPrefix)), func() { _ = rdb.Close() }, nil
}

func runKeygen(stdout, stderr io.Writer) int {
	key, err := fieldcrypt.GenerateKey()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, key)
	return 0
}
