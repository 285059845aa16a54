// Package metrics exposes prometheus instrumentation for the mirror.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storageOperationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainmirror",
		Subsystem: "storage",
		Name:      "operation_total",
		Help:      "Count of storage operations.",
	}, []string{"operation", "status"})

	storageOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainmirror",
		Subsystem: "storage",
		Name:      "operation_duration_seconds",
		Help:      "Duration of storage operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// Storage satisfies the storage layer's metrics interface.
type Storage struct{}

// Observe records one storage operation outcome and duration.
func (Storage) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	storageOperationTotal.WithLabelValues(operation, status).Inc()
	storageOperationDuration.WithLabelValues(operation, status).
		Observe(time.Since(started).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
