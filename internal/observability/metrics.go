package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CommentsCreated counts persisted comments by type (comment or reply).
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_comments_created_total",
		Help: "Total comments and replies created",
	}, []string{"type"})

	// ReactionsCreated counts persisted reactions by normalized kind and target.
	ReactionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_reactions_created_total",
		Help: "Total reactions created",
	}, []string{"kind", "target"})

	// NotificationsDispatched counts notifications by delivery outcome.
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_notifications_dispatched_total",
		Help: "Total notifications persisted, by realtime delivery outcome",
	}, []string{"outcome"})

	// RankingDuration records how long a leaderboard computation takes.
	RankingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blog_ranking_duration_seconds",
		Help:    "Time spent loading snapshots and ranking blogs and authors",
		Buckets: prometheus.DefBuckets,
	})

	// RankedBlogs is the size of the last computed blog ranking.
	RankedBlogs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blog_ranking_entries",
		Help: "Number of blogs in the last computed ranking",
	})

	// WebSocketConnections is the number of registered notification sockets.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blog_websocket_connections",
		Help: "Registered notification websocket connections",
	})

	// WebSocketBackpressureDrops counts realtime messages dropped by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_websocket_backpressure_drops_total",
		Help: "Total realtime messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackQuery returns a func that records the elapsed time when called.
//
//	defer observability.TrackQuery("list", "comments")()
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
