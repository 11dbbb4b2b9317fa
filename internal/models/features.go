package models

import "time"

// FeatureVector is the symmetric per-match feature set shared by the batch
// feature table and the live query path. Every field always carries a
// concrete value; missing history resolves to documented defaults upstream,
// never to a null the model cannot consume.
type FeatureVector struct {
	P1Rank float64 `json:"p1_rank"`
	P2Rank float64 `json:"p2_rank"`

	P1Elo         float64 `json:"p1_elo"`
	P2Elo         float64 `json:"p2_elo"`
	P1EloMomentum float64 `json:"p1_elo_momentum"`
	P2EloMomentum float64 `json:"p2_elo_momentum"`

	P1WinPerc        float64 `json:"p1_win_perc"`
	P2WinPerc        float64 `json:"p2_win_perc"`
	P1SurfaceWinPerc float64 `json:"p1_surface_win_perc"`
	P2SurfaceWinPerc float64 `json:"p2_surface_win_perc"`

	P1FormLast10       float64 `json:"p1_form_last_10"`
	P2FormLast10       float64 `json:"p2_form_last_10"`
	P1RollingWinPerc20 float64 `json:"p1_rolling_win_perc_20"`
	P2RollingWinPerc20 float64 `json:"p2_rolling_win_perc_20"`
	P1RollingWinPerc50 float64 `json:"p1_rolling_win_perc_50"`
	P2RollingWinPerc50 float64 `json:"p2_rolling_win_perc_50"`

	P1MatchesLast7Days  int `json:"p1_matches_last_7_days"`
	P2MatchesLast7Days  int `json:"p2_matches_last_7_days"`
	P1MatchesLast14Days int `json:"p1_matches_last_14_days"`
	P2MatchesLast14Days int `json:"p2_matches_last_14_days"`
	P1SetsLast7Days     int `json:"p1_sets_last_7_days"`
	P2SetsLast7Days     int `json:"p2_sets_last_7_days"`
	P1SetsLast14Days    int `json:"p1_sets_last_14_days"`
	P2SetsLast14Days    int `json:"p2_sets_last_14_days"`

	P1H2HWins int `json:"p1_h2h_wins"`
	P2H2HWins int `json:"p2_h2h_wins"`

	P1Hand string `json:"p1_hand"`
	P2Hand string `json:"p2_hand"`

	RankDiff        float64 `json:"rank_diff"`
	EloDiff         float64 `json:"elo_diff"`
	EloMomentumDiff float64 `json:"elo_momentum_diff"`

	FatigueDiff7Days      int `json:"fatigue_diff_7_days"`
	FatigueDiff14Days     int `json:"fatigue_diff_14_days"`
	FatigueSetsDiff7Days  int `json:"fatigue_sets_diff_7_days"`
	FatigueSetsDiff14Days int `json:"fatigue_sets_diff_14_days"`
}

// FeatureTableStats summarizes the published feature table. Duplicates
// should always be zero; a non-zero value means an upstream first-wins
// de-duplication was bypassed and is surfaced as a warning.
type FeatureTableStats struct {
	Rows            uint64    `json:"rows"`
	DistinctMatches uint64    `json:"distinct_matches"`
	Duplicates      uint64    `json:"duplicates"`
	MaxMatchDate    time.Time `json:"max_match_date"`
}

// FeatureRow is one published row of the historical feature table: match
// identity, the feature vector as of the instant before the match, and the
// ground-truth label.
type FeatureRow struct {
	MatchID   string    `json:"match_id"`
	MatchDate time.Time `json:"match_date"`
	Surface   Surface   `json:"surface"`
	P1ID      int64     `json:"p1_id"`
	P2ID      int64     `json:"p2_id"`

	FeatureVector

	// Winner is 1 when the canonical first player won.
	Winner uint8 `json:"winner"`
}
