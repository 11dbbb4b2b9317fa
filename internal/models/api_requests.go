package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FeatureQueryRequest asks for the feature vector of an upcoming match,
// computed against the current fully-replayed snapshot. Surface may be given
// directly or derived from the tournament/market name.
type FeatureQueryRequest struct {
	P1ID        int64  `json:"p1_id" validate:"required,gt=0"`
	P2ID        int64  `json:"p2_id" validate:"required,gt=0"`
	Surface     string `json:"surface"`
	TourneyName string `json:"tourney_name"`
	MatchDate   string `json:"match_date"` // RFC3339 or YYYY-MM-DD; defaults to now
	MatchID     string `json:"match_id"`
}

// UnmarshalJSON implements flexible unmarshaling that accepts both native
// and string-encoded player ids. Scripted clients (spreadsheets, notebook
// one-offs) routinely quote numbers.
func (r *FeatureQueryRequest) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type alias FeatureQueryRequest
	a := (*alias)(r)

	// Fast path: standard unmarshal works when all types match natively
	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}

	// Slow path: field-by-field with string-to-native coercion
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("feature query: %w", err)
	}

	for key, dst := range map[string]*int64{"p1_id": &r.P1ID, "p2_id": &r.P2ID} {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, dst); err == nil {
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return fmt.Errorf("%s: expected a player id", key)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a player id", key, s)
		}
		*dst = id
	}

	for key, dst := range map[string]*string{
		"surface":      &r.Surface,
		"tourney_name": &r.TourneyName,
		"match_date":   &r.MatchDate,
		"match_id":     &r.MatchID,
	} {
		if msg, ok := raw[key]; ok {
			if err := json.Unmarshal(msg, dst); err != nil {
				return fmt.Errorf("%s: expected a string", key)
			}
		}
	}
	return nil
}

// FeatureQueryResponse is the live-path answer: the same vector shape the
// batch table stores, plus which snapshot answered it.
type FeatureQueryResponse struct {
	MatchID   string        `json:"match_id,omitempty"`
	MatchDate time.Time     `json:"match_date"`
	Surface   Surface       `json:"surface"`
	P1ID      int64         `json:"p1_id"`
	P2ID      int64         `json:"p2_id"`
	Features  FeatureVector `json:"features"`
	Snapshot  string        `json:"snapshot"`
	Cached    bool          `json:"cached"`
}

// SnapshotInfo describes the replay snapshot currently serving live queries.
type SnapshotInfo struct {
	RunID        string    `json:"run_id"`
	BuiltAt      time.Time `json:"built_at"`
	MatchesSeen  int       `json:"matches_seen"`
	RowsEmitted  int       `json:"rows_emitted"`
	RowsDropped  int       `json:"rows_dropped"`
	MaxMatchDate time.Time `json:"max_match_date"`
}

// AggregateRequest asks for one whitelisted aggregate over the published
// feature table, grouped by one whitelisted dimension. Anything outside the
// whitelists is rejected before SQL is built.
type AggregateRequest struct {
	Dimension string    `json:"dimension"` // Group by: surface, year, month, p1_hand
	Metric    string    `json:"metric"`    // Select: rows, p1_win_rate, avg_elo_diff, avg_rank_diff
	Surface   string    `json:"surface"`   // WHERE surface = ?
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Limit     int       `json:"limit"`
}

// AggregateRow is one label/value pair of an aggregate answer.
type AggregateRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ReplayWatermark is published after a successful batch replay so operators
// and the live service can see what the feature table was built from.
type ReplayWatermark struct {
	RunID        string    `json:"run_id"`
	FinishedAt   time.Time `json:"finished_at"`
	RowsEmitted  int       `json:"rows_emitted"`
	RowsDropped  int       `json:"rows_dropped"`
	MaxMatchDate time.Time `json:"max_match_date"`
	Table        string    `json:"table"`
}
