package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/courtedge/features-api/internal/models"
)

const watermarkKey = "features:replay:watermark"

// ErrNoWatermark is returned before any batch replay has published.
var ErrNoWatermark = errors.New("no replay watermark published")

// PublishWatermark records what the latest successful batch replay produced.
// The key has no TTL; it is overwritten by the next successful run.
func PublishWatermark(ctx context.Context, rdb RedisClient, wm models.ReplayWatermark) error {
	payload, err := json.Marshal(wm)
	if err != nil {
		return fmt.Errorf("marshal watermark: %w", err)
	}
	if err := rdb.Set(ctx, watermarkKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("publish watermark: %w", err)
	}
	return nil
}

// ReadWatermark returns the latest published watermark.
func ReadWatermark(ctx context.Context, rdb RedisClient) (*models.ReplayWatermark, error) {
	raw, err := rdb.Get(ctx, watermarkKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoWatermark
		}
		return nil, fmt.Errorf("read watermark: %w", err)
	}
	var wm models.ReplayWatermark
	if err := json.Unmarshal([]byte(raw), &wm); err != nil {
		return nil, fmt.Errorf("decode watermark: %w", err)
	}
	return &wm, nil
}
