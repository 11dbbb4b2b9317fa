package logic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/courtedge/features-api/internal/engine"
	"github.com/courtedge/features-api/internal/models"
)

type matchStore struct {
	pg     PgPool
	logger *zap.SugaredLogger
}

func NewMatchStore(pg PgPool, logger *zap.SugaredLogger) MatchStore {
	return &matchStore{pg: pg, logger: logger}
}

// LoadMatches reads the consolidated match log in chronological order.
// Duplicate match ids keep the first row seen and log a warning; they are
// never merged. Null dates and ids survive the load as zero values so the
// replay's own validation pass can drop and count them.
func (s *matchStore) LoadMatches(ctx context.Context) ([]models.Match, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT
			match_id,
			tourney_date,
			COALESCE(tourney_name, ''),
			COALESCE(surface, ''),
			COALESCE(winner_id, 0),
			COALESCE(loser_id, 0),
			COALESCE(score, '')
		FROM matches
		ORDER BY tourney_date ASC NULLS LAST, match_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	seen := make(map[string]struct{})
	duplicates := 0

	for rows.Next() {
		var (
			m       models.Match
			date    *time.Time
			surface string
		)
		if err := rows.Scan(&m.MatchID, &date, &m.TourneyName, &surface, &m.WinnerID, &m.LoserID, &m.Score); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}

		if _, dup := seen[m.MatchID]; dup {
			duplicates++
			s.logger.Warnw("duplicate match id, keeping first", "match_id", m.MatchID)
			continue
		}
		seen[m.MatchID] = struct{}{}

		if date != nil {
			m.Date = date.UTC()
		}
		if surface != "" {
			m.Surface = models.ParseSurface(surface)
		} else {
			m.Surface = models.DeriveSurface(m.TourneyName)
		}
		m.SetsPlayed = models.SetsFromScore(m.Score)

		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}

	s.logger.Infow("loaded match log", "matches", len(matches), "duplicates_skipped", duplicates)
	return matches, nil
}

// LoadRankings reads the raw ranking history. Order does not matter; the
// engine partitions and sorts per player.
func (s *matchStore) LoadRankings(ctx context.Context) ([]models.RankingRow, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT ranking_date, player_id, rank
		FROM rankings
		WHERE ranking_date IS NOT NULL AND player_id IS NOT NULL AND rank IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("query rankings: %w", err)
	}
	defer rows.Close()

	var rankings []models.RankingRow
	for rows.Next() {
		var r models.RankingRow
		if err := rows.Scan(&r.Date, &r.PlayerID, &r.Rank); err != nil {
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}
		r.Date = r.Date.UTC()
		rankings = append(rankings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rankings: %w", err)
	}

	s.logger.Infow("loaded ranking history", "rows", len(rankings))
	return rankings, nil
}

// LoadPlayers reads the static player attributes.
func (s *matchStore) LoadPlayers(ctx context.Context) ([]models.PlayerInfo, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT player_id, COALESCE(name, ''), COALESCE(hand, '')
		FROM players
	`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []models.PlayerInfo
	for rows.Next() {
		var p models.PlayerInfo
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.Hand); err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		p.Hand = models.NormalizeHand(p.Hand)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}

	s.logger.Infow("loaded players", "players", len(players))
	return players, nil
}

// LoadInputs fetches matches, rankings and players concurrently. The three
// are independent, so one round trip each in parallel is safe.
func (s *matchStore) LoadInputs(ctx context.Context) (engine.SnapshotInputs, error) {
	var in engine.SnapshotInputs

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := s.LoadMatches(ctx)
		if err != nil {
			return fmt.Errorf("matches: %w", err)
		}
		in.Matches = matches
		return nil
	})
	g.Go(func() error {
		rankings, err := s.LoadRankings(ctx)
		if err != nil {
			return fmt.Errorf("rankings: %w", err)
		}
		in.Rankings = rankings
		return nil
	})
	g.Go(func() error {
		players, err := s.LoadPlayers(ctx)
		if err != nil {
			return fmt.Errorf("players: %w", err)
		}
		in.Players = players
		return nil
	})

	if err := g.Wait(); err != nil {
		return engine.SnapshotInputs{}, err
	}
	return in, nil
}
