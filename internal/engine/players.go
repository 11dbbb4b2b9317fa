package engine

import "github.com/courtedge/features-api/internal/models"

// PlayerDirectory answers static player attributes for the assembler.
type PlayerDirectory struct {
	hands map[int64]string
}

// NewPlayerDirectory indexes player attributes by id, normalizing
// handedness on the way in.
func NewPlayerDirectory(players []models.PlayerInfo) *PlayerDirectory {
	hands := make(map[int64]string, len(players))
	for _, p := range players {
		hands[p.PlayerID] = models.NormalizeHand(p.Hand)
	}
	return &PlayerDirectory{hands: hands}
}

// Hand returns "R", "L" or "U" for unknown players, without writing the
// default back.
func (d *PlayerDirectory) Hand(player int64) string {
	if hand, ok := d.hands[player]; ok {
		return hand
	}
	return "U"
}

// Size reports how many players carry attributes.
func (d *PlayerDirectory) Size() int {
	return len(d.hands)
}
