package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tickTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainmirror",
		Subsystem: "collector",
		Name:      "tick_total",
		Help:      "Count of collector ticks by kind.",
	}, []string{"kind", "status"})

	tickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainmirror",
		Subsystem: "collector",
		Name:      "tick_duration_seconds",
		Help:      "Duration of collector ticks by kind.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"kind", "status"})

	batchSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chainmirror",
		Subsystem: "collector",
		Name:      "batch_size",
		Help:      "Current adaptive block batch size.",
	})

	chainHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chainmirror",
		Subsystem: "collector",
		Name:      "chain_height",
		Help:      "Top height of the mirrored chain.",
	})
)

// Collector satisfies the sync engine's metrics interface.
type Collector struct{}

// ObserveTick records one tick outcome and duration.
func (Collector) ObserveTick(kind string, err error, started time.Time) {
	status := statusOf(err)
	tickTotal.WithLabelValues(kind, status).Inc()
	tickDuration.WithLabelValues(kind, status).
		Observe(time.Since(started).Seconds())
}

// SetBatchSize tracks the adaptive batch size.
func (Collector) SetBatchSize(size uint64) {
	batchSize.Set(float64(size))
}

// SetChainHeight tracks the mirrored top height.
func (Collector) SetChainHeight(height uint64) {
	chainHeight.Set(float64(height))
}
