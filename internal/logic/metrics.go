package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	liveQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_live_queries_total",
		Help: "Total number of live feature queries answered",
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_live_cache_hits_total",
		Help: "Live feature responses served from the Redis cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_live_cache_misses_total",
		Help: "Live feature responses computed against the snapshot",
	})

	snapshotSwaps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_snapshot_swaps_total",
		Help: "Total number of snapshot rebuild-and-swap refreshes",
	})

	snapshotBuiltAt = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "courtedge_snapshot_built_timestamp_seconds",
		Help: "Unix time the serving snapshot was built at",
	})
)
