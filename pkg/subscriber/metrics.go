package subscriber

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	prometheusMetricsOnce sync.Once

	recordsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bb_event_log",
			Subsystem: "subscriber",
			Name:      "records_emitted_total",
			Help:      "Number of records emitted by a subscriber, by event kind.",
		},
		[]string{"kind"})

	writeErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bb_event_log",
			Subsystem: "subscriber",
			Name:      "write_errors_total",
			Help:      "Number of errors encountered serializing or writing a record.",
		})
)

// prometheusMetrics bundles the counters a Subscriber updates. It is a
// thin wrapper rather than bare package vars so that a Subscriber only
// touches Prometheus when Builder.WithPrometheusMetrics was actually
// requested.
type prometheusMetrics struct {
	recordsEmitted *prometheus.CounterVec
	writeErrors    prometheus.Counter
}

func globalPrometheusMetrics() *prometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheus.MustRegister(recordsEmittedTotal)
		prometheus.MustRegister(writeErrorsTotal)
	})
	return &prometheusMetrics{
		recordsEmitted: recordsEmittedTotal,
		writeErrors:    writeErrorsTotal,
	}
}
