package engine

import (
	"time"

	"github.com/courtedge/features-api/internal/models"
)

// The assembler depends on tracker reads only. Keeping these as interfaces
// pins the no-mutation contract in the type system: an Assembler cannot
// reach an Update method.

// RatingSource answers point-in-time Elo questions.
type RatingSource interface {
	Rating(player int64, surface models.Surface) float64
	Momentum(player int64, surface models.Surface) float64
}

// FormSource answers win-rate, form and fatigue questions.
type FormSource interface {
	WinPerc(player int64) float64
	SurfaceWinPerc(player int64, surface models.Surface) float64
	FormLastN(player int64, n int) float64
	MatchesInWindow(player int64, asOf time.Time, days int) int
	SetsInWindow(player int64, asOf time.Time, days int) int
}

// H2HSource answers pairwise win tallies relative to the ids passed.
type H2HSource interface {
	Get(a, b int64) (int, int)
}

// RankSource answers point-in-time official ranks.
type RankSource interface {
	MostRecentRank(player int64, date time.Time) int
}

// HandSource answers static handedness attributes.
type HandSource interface {
	Hand(player int64) string
}

// Assembler builds one feature vector from current tracker state and match
// context. It is pure with respect to that state, and the exact same Build
// serves the chronological batch replay and the live query path, so the
// historical table and a live request can never disagree given equal state.
type Assembler struct {
	ratings RatingSource
	form    FormSource
	h2h     H2HSource
	ranks   RankSource
	hands   HandSource
}

func NewAssembler(ratings RatingSource, form FormSource, h2h H2HSource, ranks RankSource, hands HandSource) *Assembler {
	return &Assembler{ratings: ratings, form: form, h2h: h2h, ranks: ranks, hands: hands}
}

// Build assembles the symmetric feature vector for a p1 vs p2 match on the
// given surface and date. Swapping p1 and p2 yields the mirror image: the
// per-player fields swap and every diff negates. matchID is carried for
// parity with the row contract; no feature depends on it.
func (a *Assembler) Build(p1ID, p2ID int64, surface models.Surface, date time.Time, matchID string) models.FeatureVector {
	_ = matchID

	v := models.FeatureVector{
		P1Rank: float64(a.ranks.MostRecentRank(p1ID, date)),
		P2Rank: float64(a.ranks.MostRecentRank(p2ID, date)),

		P1Elo:         a.ratings.Rating(p1ID, surface),
		P2Elo:         a.ratings.Rating(p2ID, surface),
		P1EloMomentum: a.ratings.Momentum(p1ID, surface),
		P2EloMomentum: a.ratings.Momentum(p2ID, surface),

		P1WinPerc:        a.form.WinPerc(p1ID),
		P2WinPerc:        a.form.WinPerc(p2ID),
		P1SurfaceWinPerc: a.form.SurfaceWinPerc(p1ID, surface),
		P2SurfaceWinPerc: a.form.SurfaceWinPerc(p2ID, surface),

		P1FormLast10:       a.form.FormLastN(p1ID, formWindow),
		P2FormLast10:       a.form.FormLastN(p2ID, formWindow),
		P1RollingWinPerc20: a.form.FormLastN(p1ID, rollingWindowShort),
		P2RollingWinPerc20: a.form.FormLastN(p2ID, rollingWindowShort),
		P1RollingWinPerc50: a.form.FormLastN(p1ID, rollingWindowLong),
		P2RollingWinPerc50: a.form.FormLastN(p2ID, rollingWindowLong),

		P1MatchesLast7Days:  a.form.MatchesInWindow(p1ID, date, fatigueShortDays),
		P2MatchesLast7Days:  a.form.MatchesInWindow(p2ID, date, fatigueShortDays),
		P1MatchesLast14Days: a.form.MatchesInWindow(p1ID, date, fatigueLongDays),
		P2MatchesLast14Days: a.form.MatchesInWindow(p2ID, date, fatigueLongDays),
		P1SetsLast7Days:     a.form.SetsInWindow(p1ID, date, fatigueShortDays),
		P2SetsLast7Days:     a.form.SetsInWindow(p2ID, date, fatigueShortDays),
		P1SetsLast14Days:    a.form.SetsInWindow(p1ID, date, fatigueLongDays),
		P2SetsLast14Days:    a.form.SetsInWindow(p2ID, date, fatigueLongDays),

		P1Hand: a.hands.Hand(p1ID),
		P2Hand: a.hands.Hand(p2ID),
	}

	v.P1H2HWins, v.P2H2HWins = a.h2h.Get(p1ID, p2ID)

	v.RankDiff = v.P1Rank - v.P2Rank
	v.EloDiff = v.P1Elo - v.P2Elo
	v.EloMomentumDiff = v.P1EloMomentum - v.P2EloMomentum
	v.FatigueDiff7Days = v.P1MatchesLast7Days - v.P2MatchesLast7Days
	v.FatigueDiff14Days = v.P1MatchesLast14Days - v.P2MatchesLast14Days
	v.FatigueSetsDiff7Days = v.P1SetsLast7Days - v.P2SetsLast7Days
	v.FatigueSetsDiff14Days = v.P1SetsLast14Days - v.P2SetsLast14Days

	return v
}
