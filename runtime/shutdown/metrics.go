package shutdown

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/go-profile/runtime/metrics"
)

// Metrics counts component failures and shutdown outcomes. A nil
// *Metrics records nothing.
type Metrics struct {
	serveErrors *prometheus.CounterVec
	stops       *prometheus.CounterVec
	duration    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		serveErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "profile", Subsystem: "runtime",
			Name: "component_errors_total", Help: "Abnormal Serve errors by component",
		}, []string{"name"}),
		stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "profile", Subsystem: "runtime",
			Name: "shutdown_total", Help: "Shutdowns by result",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "profile", Subsystem: "runtime",
			Name:    "shutdown_duration_seconds",
			Help:    "Time taken to shut every component down",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
	}
	for _, c := range []prometheus.Collector{m.serveErrors, m.stops, m.duration} {
		if err := metrics.Register(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) incServeError(name string) {
	if m == nil {
		return
	}
	m.serveErrors.WithLabelValues(name).Inc()
}

func (m *Metrics) observeStop(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.stops.WithLabelValues(result).Inc()
	m.duration.Observe(d.Seconds())
}
