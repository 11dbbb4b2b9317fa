// Package worker implements the buffered sink pattern for batch feature writes.
// This decouples the replay loop from ClickHouse round trips, providing:
// - Backpressure via a bounded queue (the replay blocks rather than drops)
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees

package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/courtedge/features-api/internal/models"
)

// Prometheus metrics
var (
	rowsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_feature_rows_enqueued_total",
		Help: "Total number of feature rows handed to the sink",
	})

	rowsFlushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_feature_rows_flushed_total",
		Help: "Total number of feature rows written to ClickHouse",
	})

	rowsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtedge_feature_rows_failed_total",
		Help: "Total number of feature rows that failed to write",
	})

	sinkQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "courtedge_sink_queue_depth",
		Help: "Current depth of the feature sink queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "courtedge_batch_insert_duration_seconds",
		Help:    "Duration of feature batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})
)

// insertColumns matches featureTableDDL column for column.
const insertColumns = `(
	match_id, match_date, surface, p1_id, p2_id,
	p1_rank, p2_rank, rank_diff,
	p1_elo, p2_elo, elo_diff, p1_elo_momentum, p2_elo_momentum, elo_momentum_diff,
	p1_win_perc, p2_win_perc, p1_surface_win_perc, p2_surface_win_perc,
	p1_form_last_10, p2_form_last_10,
	p1_rolling_win_perc_20, p2_rolling_win_perc_20, p1_rolling_win_perc_50, p2_rolling_win_perc_50,
	p1_matches_last_7_days, p2_matches_last_7_days, p1_matches_last_14_days, p2_matches_last_14_days,
	fatigue_diff_7_days, fatigue_diff_14_days,
	p1_sets_last_7_days, p2_sets_last_7_days, p1_sets_last_14_days, p2_sets_last_14_days,
	fatigue_sets_diff_7_days, fatigue_sets_diff_14_days,
	p1_h2h_wins, p2_h2h_wins, p1_hand, p2_hand, winner
)`

// SinkConfig configures the feature sink
type SinkConfig struct {
	Conn          driver.Conn
	Database      string
	Table         string
	BatchSize     int
	QueueSize     int
	FlushInterval time.Duration
	Logger        *zap.Logger
}

// FeatureSink buffers feature rows and writes them to ClickHouse in batches.
// A single writer goroutine drains the queue, so rows land in the order the
// replay emitted them. The first write failure is remembered and returned to
// every later Emit, which aborts the replay instead of publishing a partial
// table.
type FeatureSink struct {
	config    SinkConfig
	rows      chan models.FeatureRow
	done      chan struct{}
	logger    *zap.SugaredLogger
	insertSQL string

	closeOnce sync.Once

	mu       sync.Mutex
	firstErr error
}

// NewFeatureSink creates a feature sink and starts its writer goroutine.
func NewFeatureSink(cfg SinkConfig) *FeatureSink {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5000
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 20000
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	sink := &FeatureSink{
		config:    cfg,
		rows:      make(chan models.FeatureRow, cfg.QueueSize),
		done:      make(chan struct{}),
		logger:    cfg.Logger.Sugar(),
		insertSQL: fmt.Sprintf("INSERT INTO %s.%s %s", cfg.Database, cfg.Table, insertColumns),
	}

	go sink.run()

	sink.logger.Infow("Feature sink started",
		"table", cfg.Table,
		"batchSize", cfg.BatchSize,
		"queueSize", cfg.QueueSize,
	)

	return sink
}

// Emit queues one feature row for writing. Blocks if the queue is full (no
// load shedding: a replay row is never dropped). Returns the first write
// error once one has occurred so the caller can abort.
func (s *FeatureSink) Emit(row models.FeatureRow) (err error) {
	if ferr := s.flushErr(); ferr != nil {
		return ferr
	}

	// Protect against sending on a closed channel
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("feature sink closed: %v", r)
		}
	}()

	s.rows <- row
	rowsEnqueued.Inc()
	sinkQueueDepth.Set(float64(len(s.rows)))
	return nil
}

// Close drains and flushes the queue, then returns the first write error if
// any batch failed.
func (s *FeatureSink) Close() error {
	s.closeOnce.Do(func() {
		close(s.rows)
		<-s.done
	})
	return s.flushErr()
}

// QueueDepth returns current queue size
func (s *FeatureSink) QueueDepth() int {
	return len(s.rows)
}

func (s *FeatureSink) flushErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}

func (s *FeatureSink) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.firstErr == nil {
		s.firstErr = err
	}
}

// run drains the queue in batches until the channel closes.
func (s *FeatureSink) run() {
	defer close(s.done)

	batch := make([]models.FeatureRow, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := s.writeBatch(batch); err != nil {
			s.logger.Errorw("Feature batch write failed",
				"batchSize", len(batch),
				"error", err,
			)
			s.recordErr(err)
			rowsFailed.Add(float64(len(batch)))
		} else {
			s.logger.Infow("Flushed feature batch",
				"batchSize", len(batch),
				"duration", time.Since(start),
			)
			rowsFlushed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
		sinkQueueDepth.Set(float64(len(s.rows)))
	}

	for {
		select {
		case row, ok := <-s.rows:
			if !ok {
				flush()
				return
			}
			batch = append(batch, row)
			if len(batch) >= s.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// writeBatch sends one prepared batch to ClickHouse.
func (s *FeatureSink) writeBatch(batch []models.FeatureRow) error {
	ctx := context.Background()

	chBatch, err := s.config.Conn.PrepareBatch(ctx, s.insertSQL)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, row := range batch {
		err := chBatch.Append(
			row.MatchID,
			row.MatchDate,
			string(row.Surface),
			row.P1ID,
			row.P2ID,
			row.P1Rank,
			row.P2Rank,
			row.RankDiff,
			row.P1Elo,
			row.P2Elo,
			row.EloDiff,
			row.P1EloMomentum,
			row.P2EloMomentum,
			row.EloMomentumDiff,
			row.P1WinPerc,
			row.P2WinPerc,
			row.P1SurfaceWinPerc,
			row.P2SurfaceWinPerc,
			row.P1FormLast10,
			row.P2FormLast10,
			row.P1RollingWinPerc20,
			row.P2RollingWinPerc20,
			row.P1RollingWinPerc50,
			row.P2RollingWinPerc50,
			int32(row.P1MatchesLast7Days),
			int32(row.P2MatchesLast7Days),
			int32(row.P1MatchesLast14Days),
			int32(row.P2MatchesLast14Days),
			int32(row.FatigueDiff7Days),
			int32(row.FatigueDiff14Days),
			int32(row.P1SetsLast7Days),
			int32(row.P2SetsLast7Days),
			int32(row.P1SetsLast14Days),
			int32(row.P2SetsLast14Days),
			int32(row.FatigueSetsDiff7Days),
			int32(row.FatigueSetsDiff14Days),
			int32(row.P1H2HWins),
			int32(row.P2H2HWins),
			row.P1Hand,
			row.P2Hand,
			row.Winner,
		)
		if err != nil {
			return fmt.Errorf("append row %s: %w", row.MatchID, err)
		}
	}

	if err := chBatch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
