package models

import (
	"fmt"
	"strings"
	"time"
)

// Surface is the court category a match was played on. Ratings and form
// statistics are partitioned by surface, and Unknown is a real partition,
// not an error state.
type Surface string

const (
	SurfaceHard    Surface = "Hard"
	SurfaceClay    Surface = "Clay"
	SurfaceGrass   Surface = "Grass"
	SurfaceUnknown Surface = "Unknown"
)

// ParseSurface normalizes a pre-derived surface value coming from storage or
// an API request. Anything that is not recognizably hard/clay/grass (carpet,
// empty, garbage) maps to Unknown.
func ParseSurface(s string) Surface {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hard":
		return SurfaceHard
	case "clay":
		return SurfaceClay
	case "grass":
		return SurfaceGrass
	default:
		return SurfaceUnknown
	}
}

var (
	grassKeywords = []string{"wimbledon", "queens club", "halle", "'s-hertogenbosch", "newport"}
	clayKeywords  = []string{"roland garros", "french open", "monte carlo", "madrid", "rome"}
)

// DeriveSurface infers the surface from a tournament or market name.
// An explicit parenthesized tag wins over keyword heuristics; grass keywords
// are checked before clay ones; anything else defaults to Hard. A missing
// name yields Unknown because there is nothing to infer from.
func DeriveSurface(tourneyName string) Surface {
	name := strings.ToLower(strings.TrimSpace(tourneyName))
	if name == "" {
		return SurfaceUnknown
	}

	switch {
	case strings.Contains(name, "(clay)"):
		return SurfaceClay
	case strings.Contains(name, "(grass)"):
		return SurfaceGrass
	case strings.Contains(name, "(hard)"):
		return SurfaceHard
	}

	for _, kw := range grassKeywords {
		if strings.Contains(name, kw) {
			return SurfaceGrass
		}
	}
	for _, kw := range clayKeywords {
		if strings.Contains(name, kw) {
			return SurfaceClay
		}
	}
	return SurfaceHard
}

// Match is one completed historical match. It is constructed once at load
// time; the replay loop only reads typed fields, never raw rows.
type Match struct {
	MatchID     string    `json:"match_id"`
	Date        time.Time `json:"date"`
	TourneyName string    `json:"tourney_name"`
	Surface     Surface   `json:"surface"`
	WinnerID    int64     `json:"winner_id"`
	LoserID     int64     `json:"loser_id"`
	Score       string    `json:"score"`
	SetsPlayed  int       `json:"sets_played"`
}

// P1 is the canonical first player: the smaller of the two ids. Storage and
// labels are keyed on this ordering so they are independent of who won.
func (m *Match) P1() int64 {
	if m.WinnerID < m.LoserID {
		return m.WinnerID
	}
	return m.LoserID
}

// P2 is the canonical second player: the larger of the two ids.
func (m *Match) P2() int64 {
	if m.WinnerID > m.LoserID {
		return m.WinnerID
	}
	return m.LoserID
}

// Label is 1 when the canonical first player (min id) won, else 0.
func (m *Match) Label() uint8 {
	if m.WinnerID == m.P1() {
		return 1
	}
	return 0
}

// Validate reports why a match cannot enter the chronological pass.
// Malformed rows are dropped with a log line, never processed.
func (m *Match) Validate() error {
	if m.Date.IsZero() {
		return fmt.Errorf("match %s: missing or unparseable date", m.MatchID)
	}
	if m.WinnerID <= 0 || m.LoserID <= 0 {
		return fmt.Errorf("match %s: missing player ids (winner=%d loser=%d)", m.MatchID, m.WinnerID, m.LoserID)
	}
	if m.WinnerID == m.LoserID {
		return fmt.Errorf("match %s: winner and loser are the same player %d", m.MatchID, m.WinnerID)
	}
	return nil
}

// SetsFromScore counts whitespace-delimited groups in a score string.
// "6-4 6-3" is 2 sets; an empty score is 0. Tokens are not validated, so a
// retirement marker counts as a group, which matches the historical tables.
func SetsFromScore(score string) int {
	return len(strings.Fields(score))
}
