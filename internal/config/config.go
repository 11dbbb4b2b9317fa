package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtedge/features-api/internal/engine"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Database URLs
	PostgresURL   string
	ClickHouseURL string
	RedisURL      string

	// Feature table
	ClickHouseDatabase string
	FeatureTable       string
	SinkBatchSize      int
	SinkQueueSize      int
	SinkFlushInterval  time.Duration

	// Rating engine
	Engine engine.Config

	// Live service
	CacheTTL        time.Duration
	RefreshSchedule string // cron spec, empty disables scheduled refreshes
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8086),
		Env:  getEnv("ENV", "development"),

		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "tennis"),
		FeatureTable:       getEnv("FEATURE_TABLE", "match_features"),
		SinkBatchSize:      getEnvInt("SINK_BATCH_SIZE", 5000),
		SinkQueueSize:      getEnvInt("SINK_QUEUE_SIZE", 20000),
		SinkFlushInterval:  getEnvDuration("SINK_FLUSH_INTERVAL", 1*time.Second),

		Engine: engine.Config{
			EloK:              getEnvFloat("ELO_K_FACTOR", engine.DefaultEloK),
			EloRatingDiff:     getEnvFloat("ELO_RATING_DIFF_FACTOR", engine.DefaultEloRatingDiff),
			EloInitialRating:  getEnvFloat("ELO_INITIAL_RATING", engine.DefaultEloInitialRating),
			EloMomentumWindow: getEnvInt("ELO_MOMENTUM_WINDOW", engine.DefaultEloMomentumWindow),
			DefaultRank:       getEnvInt("DEFAULT_PLAYER_RANK", engine.DefaultPlayerRank),
		},

		CacheTTL:        getEnvDuration("FEATURE_CACHE_TTL", 5*time.Minute),
		RefreshSchedule: getEnv("SNAPSHOT_REFRESH_CRON", "0 * * * *"),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
		return nil, err
	}
	if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
