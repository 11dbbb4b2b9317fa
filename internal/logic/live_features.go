package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/courtedge/features-api/internal/engine"
	"github.com/courtedge/features-api/internal/models"
)

// ErrSnapshotNotReady is returned for live queries before the first replay
// has completed.
var ErrSnapshotNotReady = errors.New("feature snapshot not built yet")

// ErrInvalidQuery marks request-shaped failures so the transport layer can
// answer 400 instead of 500.
var ErrInvalidQuery = errors.New("invalid feature query")

type liveFeatureService struct {
	engineCfg engine.Config
	store     MatchStore
	redis     RedisClient
	cacheTTL  time.Duration
	logger    *zap.SugaredLogger

	snapshot atomic.Pointer[engine.Snapshot]
	refresh  singleflight.Group
}

// NewLiveFeatureService wires the live query path. redis may be nil, which
// disables response caching but changes nothing else; the snapshot is built
// on the first Refresh, not here.
func NewLiveFeatureService(engineCfg engine.Config, store MatchStore, rdb RedisClient, cacheTTL time.Duration, logger *zap.SugaredLogger) LiveFeatureService {
	return &liveFeatureService{
		engineCfg: engineCfg,
		store:     store,
		redis:     rdb,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Refresh replays the full history into a fresh snapshot and atomically
// swaps it in. Live readers keep the old snapshot until the swap; the old
// one is never mutated. Concurrent refreshes collapse into one rebuild.
func (s *liveFeatureService) Refresh(ctx context.Context) (models.SnapshotInfo, error) {
	v, err, _ := s.refresh.Do("refresh", func() (interface{}, error) {
		started := time.Now()

		inputs, err := s.store.LoadInputs(ctx)
		if err != nil {
			return nil, fmt.Errorf("load inputs: %w", err)
		}

		runID := uuid.NewString()
		snap, err := engine.BuildSnapshot(s.engineCfg, inputs, runID, s.logger)
		if err != nil {
			return nil, fmt.Errorf("build snapshot: %w", err)
		}

		s.snapshot.Store(snap)
		snapshotSwaps.Inc()
		snapshotBuiltAt.Set(float64(snap.Info().BuiltAt.Unix()))

		s.logger.Infow("snapshot swapped in",
			"run_id", runID,
			"matches", snap.Info().MatchesSeen,
			"max_match_date", snap.Info().MaxMatchDate,
			"took", time.Since(started),
		)
		return snap.Info(), nil
	})
	if err != nil {
		return models.SnapshotInfo{}, err
	}
	return v.(models.SnapshotInfo), nil
}

// Snapshot reports what is currently serving queries.
func (s *liveFeatureService) Snapshot() (models.SnapshotInfo, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return models.SnapshotInfo{}, ErrSnapshotNotReady
	}
	return snap.Info(), nil
}

// GetFeatures answers one live feature query with no persisted side effect.
// The response is cached per (snapshot, players, surface, day) so repeated
// market scans of the same matchup skip recomputation.
func (s *liveFeatureService) GetFeatures(ctx context.Context, req models.FeatureQueryRequest) (*models.FeatureQueryResponse, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrSnapshotNotReady
	}

	if req.P1ID == req.P2ID {
		return nil, fmt.Errorf("%w: players must differ", ErrInvalidQuery)
	}
	date, err := resolveMatchDate(req.MatchDate)
	if err != nil {
		return nil, err
	}
	surface := resolveSurface(req.Surface, req.TourneyName)

	liveQueries.Inc()

	key := fmt.Sprintf("features:live:%s:%d:%d:%s:%s",
		snap.Info().RunID, req.P1ID, req.P2ID, surface, date.Format("20060102"))
	if cached := s.cacheGet(ctx, key); cached != nil {
		cached.Cached = true
		return cached, nil
	}

	resp := &models.FeatureQueryResponse{
		MatchID:   req.MatchID,
		MatchDate: date,
		Surface:   surface,
		P1ID:      req.P1ID,
		P2ID:      req.P2ID,
		Features:  snap.Query(req.P1ID, req.P2ID, surface, date, req.MatchID),
		Snapshot:  snap.Info().RunID,
	}
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

func (s *liveFeatureService) cacheGet(ctx context.Context, key string) *models.FeatureQueryResponse {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debugw("feature cache read failed", "key", key, "error", err)
		}
		cacheMisses.Inc()
		return nil
	}
	var resp models.FeatureQueryResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		cacheMisses.Inc()
		return nil
	}
	cacheHits.Inc()
	return &resp
}

func (s *liveFeatureService) cacheSet(ctx context.Context, key string, resp *models.FeatureQueryResponse) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Debugw("feature cache write failed", "key", key, "error", err)
	}
}

// resolveMatchDate accepts RFC3339 or a plain calendar date; an empty value
// means "now", which is what a live market scan wants.
func resolveMatchDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: unparseable match_date %q", ErrInvalidQuery, raw)
}

// resolveSurface prefers an explicit surface over the tournament-name
// heuristics. With neither present the result is Unknown, a legitimate
// partition of its own.
func resolveSurface(surface, tourneyName string) models.Surface {
	if surface != "" {
		return models.ParseSurface(surface)
	}
	return models.DeriveSurface(tourneyName)
}
