package engine

import (
	"math"

	"github.com/courtedge/features-api/internal/models"
)

type ratingKey struct {
	player  int64
	surface models.Surface
}

type ratingEntry struct {
	rating float64
	// preMatch holds the rating as it stood before each of the last few
	// updates, oldest first. Momentum is measured against its head.
	preMatch []float64
}

// EloTracker keeps one independent Elo rating per (player, surface) pair.
// Surfaces never mix: a Clay result moves Clay ratings only, and Unknown is
// its own partition. The tracker is owned by exactly one replay; reads are
// safe for concurrent use only once updates have stopped.
type EloTracker struct {
	cfg     Config
	ratings map[ratingKey]*ratingEntry
}

// NewEloTracker returns an empty tracker. Entries are created lazily on
// first update; pure reads never create or mutate entries.
func NewEloTracker(cfg Config) *EloTracker {
	return &EloTracker{
		cfg:     cfg.withDefaults(),
		ratings: make(map[ratingKey]*ratingEntry),
	}
}

// Rating returns the player's rating on the given surface, or the configured
// initial rating for a pairing that has never been updated. It does not
// write the default back, so read paths stay side-effect free.
func (t *EloTracker) Rating(player int64, surface models.Surface) float64 {
	if e, ok := t.ratings[ratingKey{player, surface}]; ok {
		return e.rating
	}
	return t.cfg.EloInitialRating
}

// Momentum is the rating change over the retained pre-match history on that
// surface: current rating minus the oldest retained pre-match rating. A
// player with no completed updates has zero momentum.
func (t *EloTracker) Momentum(player int64, surface models.Surface) float64 {
	e, ok := t.ratings[ratingKey{player, surface}]
	if !ok || len(e.preMatch) == 0 {
		return 0
	}
	return e.rating - e.preMatch[0]
}

// Update applies one match result to the two affected (player, surface)
// entries. The expected score uses the logistic curve
// 1 / (1 + 10^((loser-winner)/D)); the winner gains K*(1-expected) and the
// loser loses the same amount, keeping the surface pool zero-sum.
func (t *EloTracker) Update(winnerID, loserID int64, surface models.Surface) {
	winner := t.ensure(winnerID, surface)
	loser := t.ensure(loserID, surface)

	expected := 1.0 / (1.0 + math.Pow(10, (loser.rating-winner.rating)/t.cfg.EloRatingDiff))
	delta := t.cfg.EloK * (1.0 - expected)

	winner.push(winner.rating, t.cfg.EloMomentumWindow)
	loser.push(loser.rating, t.cfg.EloMomentumWindow)

	winner.rating += delta
	loser.rating -= delta
}

func (t *EloTracker) ensure(player int64, surface models.Surface) *ratingEntry {
	key := ratingKey{player, surface}
	e, ok := t.ratings[key]
	if !ok {
		e = &ratingEntry{rating: t.cfg.EloInitialRating}
		t.ratings[key] = e
	}
	return e
}

func (e *ratingEntry) push(rating float64, window int) {
	e.preMatch = append(e.preMatch, rating)
	if len(e.preMatch) > window {
		e.preMatch = e.preMatch[len(e.preMatch)-window:]
	}
}
