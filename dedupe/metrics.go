package dedupe

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	kindEmail   = "email"
	kindPhone   = "phone"
	kindAddress = "address"
)

// Metrics are the detector's Prometheus collectors. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	found      *prometheus.CounterVec
	merged     *prometheus.CounterVec
	failed     *prometheus.CounterVec
	similarity prometheus.Histogram
}

// NewMetrics registers the collectors on reg. Collectors that are already
// registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		found: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "profile",
			Subsystem: "dedupe",
			Name:      "duplicates_found_total",
			Help:      "Duplicate records found, by kind.",
		}, []string{"kind"}),
		merged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "profile",
			Subsystem: "dedupe",
			Name:      "merges_total",
			Help:      "Duplicate records merged into a primary, by kind.",
		}, []string{"kind"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "profile",
			Subsystem: "dedupe",
			Name:      "merge_failures_total",
			Help:      "Merges rolled back because of a storage error, by kind.",
		}, []string{"kind"}),
		similarity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "profile",
			Subsystem: "dedupe",
			Name:      "address_similarity",
			Help:      "Address similarity scores computed during duplicate search.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}

	var err error
	m.found, err = register(reg, m.found)
	if err != nil {
		return nil, err
	}
	m.merged, err = register(reg, m.merged)
	if err != nil {
		return nil, err
	}
	m.failed, err = register(reg, m.failed)
	if err != nil {
		return nil, err
	}
	m.similarity, err = register(reg, m.similarity)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) addFound(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.found.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) incMerged(kind string) {
	if m == nil {
		return
	}
	m.merged.WithLabelValues(kind).Inc()
}

func (m *Metrics) incFailed(kind string) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(kind).Inc()
}

func (m *Metrics) observeSimilarity(score float64) {
	if m == nil {
		return
	}
	m.similarity.Observe(score)
}
