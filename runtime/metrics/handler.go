// Package metrics serves Prometheus metrics next to liveness and
// readiness probes.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vortex-fintech/go-profile/foundation/logger"
)

const (
	checkConcurrencyLimit = 64
	defaultCheckTimeout   = 500 * time.Millisecond
)

// Check reports whether a dependency is usable. It must return promptly
// once ctx is done.
type Check func(ctx context.Context) error

type Options struct {
	Registry *prometheus.Registry

	// Collectors are registered once; an already registered collector is
	// not an error.
	Collectors []prometheus.Collector

	Health Check
	Ready  Check

	MetricsPath string
	HealthPath  string
	ReadyPath   string

	CheckTimeout time.Duration
	Log          logger.Logger
}

// Register adds c to reg, accepting a collector that is already there.
func Register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// New builds the handler and returns the registry it exposes.
func New(opts Options) (http.Handler, *prometheus.Registry, error) {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	log := logger.Or(opts.Log)
	timeout := opts.CheckTimeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}

	builtin := []prometheus.Collector{
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		collectors.NewBuildInfoCollector(),
	}
	for _, c := range append(builtin, opts.Collectors...) {
		if err := Register(reg, c); err != nil {
			return nil, nil, err
		}
	}

	sem := make(chan struct{}, checkConcurrencyLimit)
	promHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})

	mux := http.NewServeMux()
	mux.Handle(normalizePath(opts.MetricsPath, "/metrics"), readOnly(log, promHandler))
	mux.Handle(normalizePath(opts.HealthPath, "/health"), readOnly(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runCheck(w, r, opts.Health, timeout, sem)
	})))
	mux.Handle(normalizePath(opts.ReadyPath, "/ready"), readOnly(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runCheck(w, r, opts.Ready, timeout, sem)
	})))
	return mux, reg, nil
}

func normalizePath(p, def string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		p = def
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return p
}

// readOnly rejects anything but GET and HEAD and logs failed requests.
func readOnly(log logger.Logger, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeError(w, r, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		h.ServeHTTP(sw, r)
		if sw.status >= http.StatusBadRequest {
			log.Warnw("probe failed", "path", r.URL.Path, "status", sw.status, "duration", time.Since(start))
		}
	})
}

func runCheck(w http.ResponseWriter, r *http.Request, check Check, timeout time.Duration, sem chan struct{}) {
	if check == nil {
		writeOK(w, r)
		return
	}

	select {
	case sem <- struct{}{}:
	default:
		w.Header().Set("Retry-After", "1")
		writeError(w, r, "check busy", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() { <-sem }()
		done <- check(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			writeError(w, r, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeOK(w, r)
	case <-ctx.Done():
		w.Header().Set("Retry-After", "1")
		writeError(w, r, "check timeout", http.StatusServiceUnavailable)
	}
}

func writeOK(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte("OK"))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, msg string, status int) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		return
	}
	http.Error(w, msg, status)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusWriter) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(p)
}

func (s *statusWriter) Unwrap() http.ResponseWriter { return s.ResponseWriter }
