package engine

import (
	"time"

	"github.com/courtedge/features-api/internal/models"
)

type formOutcome struct {
	date time.Time
	won  bool
	sets int
}

type formEntry struct {
	matchesPlayed  int
	wins           int
	surfaceMatches map[models.Surface]int
	surfaceWins    map[models.Surface]int
	// history is ordered by processing order, which the orchestrator keeps
	// non-decreasing in date. It backs both count-based form and the
	// trailing fatigue windows; pruning old entries would be an
	// optimization, correctness only needs the longest window retained.
	history []formOutcome
}

// FormTracker accumulates per-player win/loss history: cumulative and
// per-surface win rates, short-term form over the last N outcomes, and
// match/set counts inside trailing day windows. Every query on an unseen
// player answers zero.
type FormTracker struct {
	players map[int64]*formEntry
}

func NewFormTracker() *FormTracker {
	return &FormTracker{players: make(map[int64]*formEntry)}
}

// WinPerc is the player's cumulative win rate over all prior matches.
func (t *FormTracker) WinPerc(player int64) float64 {
	e, ok := t.players[player]
	if !ok || e.matchesPlayed == 0 {
		return 0
	}
	return float64(e.wins) / float64(e.matchesPlayed)
}

// SurfaceWinPerc is the cumulative win rate restricted to one surface.
func (t *FormTracker) SurfaceWinPerc(player int64, surface models.Surface) float64 {
	e, ok := t.players[player]
	if !ok {
		return 0
	}
	matches := e.surfaceMatches[surface]
	if matches == 0 {
		return 0
	}
	return float64(e.surfaceWins[surface]) / float64(matches)
}

// FormLastN is the win fraction over the player's last n outcomes, or over
// all of them when fewer exist. No outcomes means 0.
func (t *FormTracker) FormLastN(player int64, n int) float64 {
	e, ok := t.players[player]
	if !ok || len(e.history) == 0 || n <= 0 {
		return 0
	}
	tail := e.history
	if len(tail) > n {
		tail = tail[len(tail)-n:]
	}
	won := 0
	for _, o := range tail {
		if o.won {
			won++
		}
	}
	return float64(won) / float64(len(tail))
}

// MatchesInWindow counts prior matches whose date falls within the trailing
// window, inclusive: asOf - entry.date <= days.
func (t *FormTracker) MatchesInWindow(player int64, asOf time.Time, days int) int {
	count := 0
	t.scanWindow(player, asOf, days, func(formOutcome) { count++ })
	return count
}

// SetsInWindow sums sets played inside the trailing window, the set-based
// fatigue companion to MatchesInWindow.
func (t *FormTracker) SetsInWindow(player int64, asOf time.Time, days int) int {
	sets := 0
	t.scanWindow(player, asOf, days, func(o formOutcome) { sets += o.sets })
	return sets
}

func (t *FormTracker) scanWindow(player int64, asOf time.Time, days int, fn func(formOutcome)) {
	e, ok := t.players[player]
	if !ok {
		return
	}
	cutoff := asOf.Add(-time.Duration(days) * 24 * time.Hour)
	for i := len(e.history) - 1; i >= 0; i-- {
		o := e.history[i]
		if o.date.Before(cutoff) {
			break
		}
		if o.date.After(asOf) {
			continue
		}
		fn(o)
	}
}

// Update records one finished match for both players: counters, surface
// counters, and one history entry each.
func (t *FormTracker) Update(winnerID, loserID int64, surface models.Surface, date time.Time, setsPlayed int) {
	w := t.ensure(winnerID)
	w.matchesPlayed++
	w.wins++
	w.surfaceMatches[surface]++
	w.surfaceWins[surface]++
	w.history = append(w.history, formOutcome{date: date, won: true, sets: setsPlayed})

	l := t.ensure(loserID)
	l.matchesPlayed++
	l.surfaceMatches[surface]++
	l.history = append(l.history, formOutcome{date: date, won: false, sets: setsPlayed})
}

func (t *FormTracker) ensure(player int64) *formEntry {
	e, ok := t.players[player]
	if !ok {
		e = &formEntry{
			surfaceMatches: make(map[models.Surface]int),
			surfaceWins:    make(map[models.Surface]int),
		}
		t.players[player] = e
	}
	return e
}
