// Package shutdown runs long-lived components until the context ends or a
// signal arrives, then stops them within a deadline.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/go-profile/foundation/logger"
)

// Component is something the Manager starts and stops: the metrics
// server, the sweep scheduler.
type Component interface {
	Name() string
	// Serve blocks until ctx is done or the component fails.
	Serve(ctx context.Context) error
	// Shutdown stops the component, giving up when ctx is done.
	Shutdown(ctx context.Context) error
}

type Config struct {
	// ShutdownTimeout bounds Shutdown for all components together.
	ShutdownTimeout time.Duration

	// HandleSignals stops the manager on SIGINT and SIGTERM.
	HandleSignals bool

	Log     logger.Logger
	Metrics *Metrics
}

type Manager struct {
	cfg        Config
	log        logger.Logger
	mu         sync.Mutex
	components []Component
	stopped    bool
}

func New(cfg Config) *Manager {
	return &Manager{cfg: cfg, log: logger.Or(cfg.Log)}
}

// Add registers c. Nil components are ignored.
func (m *Manager) Add(c Component) {
	if c == nil {
		return
	}
	m.mu.Lock()
	m.components = append(m.components, c)
	m.mu.Unlock()
}

// Run serves every component and blocks until ctx ends, a signal arrives
// or one component fails. All components are then shut down. The first
// abnormal Serve error is returned.
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.HandleSignals {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}

	m.mu.Lock()
	comps := append([]Component(nil), m.components...)
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range comps {
		g.Go(func() error {
			m.log.Infow("component start", "name", c.Name())
			err := c.Serve(gctx)
			if err != nil && !IsNormalError(err) {
				m.log.Errorw("component failed", "name", c.Name(), "error", err)
				m.cfg.Metrics.incServeError(c.Name())
				return fmt.Errorf("%s: %w", c.Name(), err)
			}
			m.log.Infow("component stopped", "name", c.Name())
			return nil
		})
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- g.Wait() }()

	select {
	case <-gctx.Done():
		m.log.Infow("shutdown started")
	case err := <-waitCh:
		m.Stop(comps)
		return err
	}

	m.Stop(comps)

	select {
	case err := <-waitCh:
		return err
	case <-time.After(m.cfg.ShutdownTimeout + 2*time.Second):
		return fmt.Errorf("shutdown: components still running after %s", m.cfg.ShutdownTimeout)
	}
}

// Stop shuts down comps in parallel. Only the first call has an effect.
func (m *Manager) Stop(comps []Component) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
	defer cancel()

	var (
		wg     sync.WaitGroup
		failed sync.Map
	)
	for _, c := range comps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Shutdown(ctx); err != nil {
				failed.Store(c.Name(), true)
				m.log.Warnw("component shutdown failed", "name", c.Name(), "error", err)
			}
		}()
	}
	wg.Wait()

	result := "success"
	failed.Range(func(any, any) bool {
		result = "failure"
		return false
	})
	m.cfg.Metrics.observeStop(result, time.Since(started))
	m.log.Infow("shutdown finished", "result", result, "duration", time.Since(started))
}

// IsNormalError reports whether err is how a component reports an
// orderly stop.
func IsNormalError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}
