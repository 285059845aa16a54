package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodeRPCTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainmirror",
		Subsystem: "noded",
		Name:      "rpc_total",
		Help:      "Count of upstream daemon RPC calls.",
	}, []string{"operation", "status"})

	nodeRPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainmirror",
		Subsystem: "noded",
		Name:      "rpc_duration_seconds",
		Help:      "Duration of upstream daemon RPC calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// NodeRPC satisfies the upstream client's metrics interface.
type NodeRPC struct{}

// Observe records one upstream RPC outcome and duration.
func (NodeRPC) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	nodeRPCTotal.WithLabelValues(operation, status).Inc()
	nodeRPCDuration.WithLabelValues(operation, status).
		Observe(time.Since(started).Seconds())
}
