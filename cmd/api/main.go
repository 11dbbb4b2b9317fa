// api serves point-in-time tennis match features over HTTP. It keeps a
// fully-replayed rating snapshot in memory, answers matchup queries against
// it and rebuilds it on a schedule so live predictions track the match log.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/courtedge/features-api/internal/config"
	"github.com/courtedge/features-api/internal/handlers"
	"github.com/courtedge/features-api/internal/logic"
	"github.com/courtedge/features-api/internal/worker"
)

const initialRefreshTimeout = 5 * time.Minute

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

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid Redis URL", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	store := logic.NewMatchStore(pg, sugar)
	live := logic.NewLiveFeatureService(cfg.Engine, store, rdb, cfg.CacheTTL, sugar)
	tableSvc := logic.NewFeatureTableService(ch, cfg.ClickHouseDatabase, cfg.FeatureTable)

	// Build the first snapshot in the background; until it lands, feature
	// queries answer 503 and /ready reports not ready.
	go func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), initialRefreshTimeout)
		defer cancel()
		if _, err := live.Refresh(refreshCtx); err != nil {
			sugar.Errorw("Initial snapshot build failed", "error", err)
		}
	}()

	var refresher *worker.Refresher
	if cfg.RefreshSchedule != "" {
		refresher = worker.NewRefresher(live, cfg.RefreshSchedule, logger)
		if err := refresher.Start(); err != nil {
			sugar.Fatalw("Failed to start snapshot refresher", "error", err)
		}
	}

	handler := handlers.New(handlers.Config{
		Postgres:     pg,
		ClickHouse:   ch,
		Redis:        rdb,
		Logger:       logger,
		LiveFeatures: live,
		FeatureTable: tableSvc,
	})
	router := handlers.NewRouter(handler, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("API listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("HTTP server failed", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	sugar.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("HTTP shutdown failed", "error", err)
	}
	if refresher != nil {
		refresher.Stop()
	}

	sugar.Info("Server stopped")
}
