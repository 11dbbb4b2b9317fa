package models

import "time"

// RankingRow is one official ranking publication for one player. Rows are
// immutable once loaded; the engine sorts and partitions them per player.
type RankingRow struct {
	Date     time.Time `json:"ranking_date"`
	PlayerID int64     `json:"player_id"`
	Rank     int       `json:"rank"`
}

// PlayerInfo carries the static player attributes the feature vector needs.
type PlayerInfo struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Hand     string `json:"hand"` // "R", "L" or "U" when unknown
}

// NormalizeHand maps free-form handedness values onto the three categories
// the model consumes.
func NormalizeHand(hand string) string {
	switch hand {
	case "R", "r":
		return "R"
	case "L", "l":
		return "L"
	default:
		return "U"
	}
}
