package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_replay_rows_emitted_total",
		Help: "Total number of feature rows emitted by chronological replays",
	})

	rowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_replay_rows_dropped_total",
		Help: "Total number of malformed match rows dropped before replay",
	})

	replaysCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_replays_completed_total",
		Help: "Total number of chronological replays that finished successfully",
	})

	replaysFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_replays_failed_total",
		Help: "Total number of chronological replays aborted by an error",
	})

	replayDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "courtedge_replay_duration_seconds",
		Help:    "Duration of full chronological replays",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)
