package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveWebSockets is the gauge of active feed websocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "artemis_websocket_connections",
		Help: "Number of active feed WebSocket connections",
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artemis_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedEventsApplied counts change events applied to the in-memory mirror.
	FeedEventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artemis_feed_events_applied_total",
		Help: "Total change-feed events applied to the post/comment mirror",
	}, []string{"table", "type"})

	// WebSocketDrops counts messages dropped due to backpressure.
	WebSocketDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artemis_websocket_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
