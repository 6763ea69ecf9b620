// Package sweep runs the duplicate auto-merge over every owner on a cron
// schedule.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/go-profile/dedupe"
	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/logger"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

const defaultConcurrency = 4

// Summary describes one pass over all owners.
type Summary struct {
	Owners  int
	Skipped int // locked by another sweeper
	Failed  int
	Merged  dedupe.MergeCounts
}

type Sweeper struct {
	detector    *dedupe.Detector
	store       contact.Store
	owners      contact.OwnerLister
	schedule    cron.Schedule
	concurrency int
	clock       timeutil.Clock
	log         logger.Logger
	metrics     *Metrics

	mu       sync.Mutex
	cron     *cron.Cron
	quit     chan struct{}
	quitOnce sync.Once
}

type Option func(*Sweeper)

// WithSchedule sets when Serve runs a pass. Without it Serve runs hourly.
func WithSchedule(s cron.Schedule) Option {
	return func(sw *Sweeper) {
		if s != nil {
			sw.schedule = s
		}
	}
}

// WithConcurrency bounds how many owners are merged at once.
func WithConcurrency(n int) Option {
	return func(s *Sweeper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Sweeper) { s.log = logger.Or(l) }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Sweeper) { s.metrics = m }
}

func WithClock(c timeutil.Clock) Option {
	return func(s *Sweeper) { s.clock = timeutil.Or(c) }
}

func New(d *dedupe.Detector, store contact.Store, owners contact.OwnerLister, opts ...Option) *Sweeper {
	s := &Sweeper{
		detector:    d,
		store:       store,
		owners:      owners,
		schedule:    cron.Every(time.Hour),
		concurrency: defaultConcurrency,
		clock:       timeutil.UTCClock{},
		log:         logger.Nop(),
		quit:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce auto-merges every owner. Owners locked elsewhere are skipped;
// failures for one owner do not stop the others and are joined into the
// returned error.
func (s *Sweeper) RunOnce(ctx context.Context) (Summary, error) {
	ctx = logger.ContextWithRunID(ctx, uuid.NewString())
	log := s.log.Ctx(ctx)
	started := s.clock.Now()

	owners, err := s.owners.ListOwners(ctx)
	if err != nil {
		s.metrics.observeRun(resultFailed, 0)
		return Summary{}, fmt.Errorf("sweep: list owners: %w", err)
	}

	var (
		mu   sync.Mutex
		sum  = Summary{Owners: len(owners)}
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, o := range owners {
		g.Go(func() error {
			counts, err := s.detector.AutoMerge(gctx, contact.Bind(o, s.store))
			mu.Lock()
			defer mu.Unlock()
			sum.Merged.Emails += counts.Emails
			sum.Merged.Phones += counts.Phones
			sum.Merged.Addresses += counts.Addresses
			switch {
			case err == nil:
			case errors.Is(err, dedupe.ErrLocked):
				sum.Skipped++
				log.Debugw("owner skipped, locked", "owner", o.String())
			default:
				sum.Failed++
				errs = append(errs, fmt.Errorf("owner %s: %w", o, err))
				log.Errorw("owner sweep failed", "owner", o.String(), "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	elapsed := s.clock.Now().Sub(started)
	result := resultOK
	if len(errs) > 0 {
		result = resultFailed
	}
	s.metrics.observeRun(result, elapsed)
	log.Infow("sweep finished",
		"owners", sum.Owners, "skipped", sum.Skipped, "failed", sum.Failed,
		"merged", sum.Merged.Total(), "duration", elapsed)
	return sum, errors.Join(errs...)
}

func (s *Sweeper) Name() string { return "sweep" }

// Serve runs RunOnce on the schedule until ctx is done or Shutdown is
// called. A pass still running when the next one is due is skipped.
func (s *Sweeper) Serve(ctx context.Context) error {
	c := cron.New(
		cron.WithLogger(cronLogger{s.log}),
		cron.WithChain(cron.Recover(cronLogger{s.log}), cron.SkipIfStillRunning(cronLogger{s.log})),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() {
		_, _ = s.RunOnce(ctx)
	}))

	s.mu.Lock()
	select {
	case <-s.quit:
		s.mu.Unlock()
		return nil
	default:
	}
	if ctx.Err() != nil {
		s.mu.Unlock()
		return nil
	}
	s.cron = c
	c.Start()
	s.mu.Unlock()

	select {
	case <-ctx.Done():
	case <-s.quit:
	}
	<-c.Stop().Done()
	return nil
}

// Shutdown stops scheduling and waits for a running pass.
func (s *Sweeper) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.quitOnce.Do(func() { close(s.quit) })
	c := s.cron
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes cron's own messages to the service logger.
type cronLogger struct{ log logger.Logger }

func (l cronLogger) Info(msg string, kv ...any) { l.log.Debugw("cron: "+msg, kv...) }

func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.log.Errorw("cron: "+msg, append(kv, "error", err)...)
}
