package sweep

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/go-profile/runtime/metrics"
)

const (
	resultOK     = "ok"
	resultFailed = "failed"
)

// Metrics records sweep passes. A nil *Metrics records nothing.
type Metrics struct {
	runs        *prometheus.CounterVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "profile", Subsystem: "sweep",
			Name: "runs_total", Help: "Sweep passes by result",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "profile", Subsystem: "sweep",
			Name: "duration_seconds", Help: "Duration of a sweep pass",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "profile", Subsystem: "sweep",
			Name: "last_success_timestamp_seconds", Help: "Unix time of the last pass without failures",
		}),
	}
	for _, c := range []prometheus.Collector{m.runs, m.duration, m.lastSuccess} {
		if err := metrics.Register(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeRun(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
	m.duration.Observe(d.Seconds())
	if result == resultOK {
		m.lastSuccess.SetToCurrentTime()
	}
}
