// replay rebuilds the historical match-feature table from the canonical
// match log. It streams every match in chronological order through the
// rating engine, writes the assembled rows into a per-run staging table and
// atomically swaps it into place once the whole history replayed cleanly.
package main

import (
	"context"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/courtedge/features-api/internal/config"
	"github.com/courtedge/features-api/internal/engine"
	"github.com/courtedge/features-api/internal/logic"
	"github.com/courtedge/features-api/internal/models"
	"github.com/courtedge/features-api/internal/worker"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("Failed to load config", "error", err)
	}

	ctx := context.Background()

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("Failed to connect to Postgres", "error", err)
	}
	defer pg.Close()

	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		sugar.Fatalw("Invalid ClickHouse URL", "error", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		sugar.Fatalw("Failed to connect to ClickHouse", "error", err)
	}
	defer ch.Close()
	if err := ch.Ping(ctx); err != nil {
		sugar.Fatalw("ClickHouse ping failed", "error", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid Redis URL", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	store := logic.NewMatchStore(pg, sugar)

	started := time.Now()
	inputs, err := store.LoadInputs(ctx)
	if err != nil {
		sugar.Fatalw("Failed to load replay inputs", "error", err)
	}
	sugar.Infow("Replay inputs loaded",
		"matches", len(inputs.Matches),
		"rankingRows", len(inputs.Rankings),
		"players", len(inputs.Players),
		"took", time.Since(started),
	)

	runID := uuid.NewString()
	publisher := worker.NewPublisher(ch, cfg.ClickHouseDatabase, cfg.FeatureTable, logger)
	staging := publisher.StagingTable(runID)

	if err := publisher.EnsureLiveTable(ctx); err != nil {
		sugar.Fatalw("Failed to ensure live feature table", "error", err)
	}
	if err := publisher.CreateStagingTable(ctx, staging); err != nil {
		sugar.Fatalw("Failed to create staging table", "error", err)
	}

	sink := worker.NewFeatureSink(worker.SinkConfig{
		Conn:          ch,
		Database:      cfg.ClickHouseDatabase,
		Table:         staging,
		BatchSize:     cfg.SinkBatchSize,
		QueueSize:     cfg.SinkQueueSize,
		FlushInterval: cfg.SinkFlushInterval,
		Logger:        logger,
	})

	ranks := engine.NewRankingLookup(inputs.Rankings, cfg.Engine.DefaultRank)
	players := engine.NewPlayerDirectory(inputs.Players)
	orch := engine.NewOrchestrator(cfg.Engine, ranks, players, sink, sugar)

	result, err := orch.Run(inputs.Matches)
	if err != nil {
		sink.Close()
		discard(ctx, publisher, staging, sugar)
		sugar.Fatalw("Replay failed", "runId", runID, "error", err)
	}

	if err := sink.Close(); err != nil {
		discard(ctx, publisher, staging, sugar)
		sugar.Fatalw("Feature writes failed", "runId", runID, "error", err)
	}

	if err := publisher.Promote(ctx, staging); err != nil {
		discard(ctx, publisher, staging, sugar)
		sugar.Fatalw("Failed to publish feature table", "runId", runID, "error", err)
	}

	wm := models.ReplayWatermark{
		RunID:        runID,
		FinishedAt:   time.Now().UTC(),
		RowsEmitted:  result.RowsEmitted,
		RowsDropped:  result.RowsDropped,
		MaxMatchDate: result.MaxMatchDate,
		Table:        cfg.FeatureTable,
	}
	if err := logic.PublishWatermark(ctx, rdb, wm); err != nil {
		// The table is already live; the watermark is advisory.
		sugar.Errorw("Failed to publish replay watermark", "runId", runID, "error", err)
	}

	sugar.Infow("Replay complete",
		"runId", runID,
		"matches", result.MatchesSeen,
		"rowsEmitted", result.RowsEmitted,
		"rowsDropped", result.RowsDropped,
		"maxMatchDate", result.MaxMatchDate,
		"took", time.Since(started),
	)
}

func discard(ctx context.Context, publisher *worker.Publisher, staging string, sugar *zap.SugaredLogger) {
	if err := publisher.Discard(ctx, staging); err != nil {
		sugar.Errorw("Failed to drop staging table", "table", staging, "error", err)
	}
}
