package logic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/courtedge/features-api/internal/engine"
	"github.com/courtedge/features-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// MatchStore loads the canonical inputs the engine replays: the match log,
// the ranking history and the player attributes, all written upstream.
type MatchStore interface {
	LoadMatches(ctx context.Context) ([]models.Match, error)
	LoadRankings(ctx context.Context) ([]models.RankingRow, error)
	LoadPlayers(ctx context.Context) ([]models.PlayerInfo, error)
	LoadInputs(ctx context.Context) (engine.SnapshotInputs, error)
}

// LiveFeatureService answers live feature queries against the current
// fully-replayed snapshot and owns snapshot refreshes.
type LiveFeatureService interface {
	GetFeatures(ctx context.Context, req models.FeatureQueryRequest) (*models.FeatureQueryResponse, error)
	Snapshot() (models.SnapshotInfo, error)
	Refresh(ctx context.Context) (models.SnapshotInfo, error)
}

// FeatureTableService reads operational facts and aggregates from the
// published feature table.
type FeatureTableService interface {
	Stats(ctx context.Context) (*models.FeatureTableStats, error)
	Aggregate(ctx context.Context, req models.AggregateRequest) ([]models.AggregateRow, error)
}
