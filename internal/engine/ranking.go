package engine

import (
	"sort"
	"time"

	"github.com/courtedge/features-api/internal/models"
)

// RankingLookup resolves a player's official rank as of a point in time.
// Rows are partitioned per player and sorted ascending by date once at
// construction; each query is a binary search, which matters when it runs
// twice per match over a few hundred thousand matches.
type RankingLookup struct {
	defaultRank int
	byPlayer    map[int64][]models.RankingRow
}

// NewRankingLookup ingests ranking rows in any order. A defaultRank of 0
// falls back to DefaultPlayerRank.
func NewRankingLookup(rows []models.RankingRow, defaultRank int) *RankingLookup {
	if defaultRank == 0 {
		defaultRank = DefaultPlayerRank
	}
	byPlayer := make(map[int64][]models.RankingRow)
	for _, row := range rows {
		byPlayer[row.PlayerID] = append(byPlayer[row.PlayerID], row)
	}
	for _, playerRows := range byPlayer {
		sort.SliceStable(playerRows, func(i, j int) bool {
			return playerRows[i].Date.Before(playerRows[j].Date)
		})
	}
	return &RankingLookup{defaultRank: defaultRank, byPlayer: byPlayer}
}

// MostRecentRank returns the rank from the latest row strictly before the
// given date. Strictly: a ranking published on the match's own day is not
// used, since it may not have existed pre-match. With no qualifying row the
// configured default rank is returned.
func (l *RankingLookup) MostRecentRank(player int64, date time.Time) int {
	rows := l.byPlayer[player]
	if len(rows) == 0 {
		return l.defaultRank
	}
	// First index whose date is >= the query date; everything before it
	// qualifies under the strict < rule.
	idx := sort.Search(len(rows), func(i int) bool {
		return !rows[i].Date.Before(date)
	})
	if idx == 0 {
		return l.defaultRank
	}
	return rows[idx-1].Rank
}

// Players reports how many players have at least one ranking row.
func (l *RankingLookup) Players() int {
	return len(l.byPlayer)
}
