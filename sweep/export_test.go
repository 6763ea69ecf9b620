package sweep

import "github.com/prometheus/client_golang/prometheus"

func (m *Metrics) Runs(result string) prometheus.Counter { return m.runs.WithLabelValues(result) }
