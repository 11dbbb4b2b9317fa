package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/courtedge/features-api/internal/models"
)

// SnapshotInputs are the three immutable histories a snapshot is derived
// from. They come straight from the canonical store; the engine never
// persists tracker state of its own.
type SnapshotInputs struct {
	Matches  []models.Match
	Rankings []models.RankingRow
	Players  []models.PlayerInfo
}

// Snapshot is the frozen end state of one full replay, used to answer live
// feature queries. All queries go through the same assembler the replay
// used, and nothing in the query path mutates tracker state, so concurrent
// readers are safe. Refreshing means building a new Snapshot and swapping
// the reference, never mutating this one.
type Snapshot struct {
	assembler *Assembler
	info      models.SnapshotInfo
}

// BuildSnapshot runs a full in-memory replay over the inputs and freezes the
// result. Feature rows are not retained; only tracker end state matters for
// the live path.
func BuildSnapshot(cfg Config, in SnapshotInputs, runID string, logger *zap.SugaredLogger) (*Snapshot, error) {
	ranks := NewRankingLookup(in.Rankings, cfg.DefaultRank)
	players := NewPlayerDirectory(in.Players)
	orch := NewOrchestrator(cfg, ranks, players, nil, logger)

	res, err := orch.Run(in.Matches)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		assembler: orch.Assembler(),
		info: models.SnapshotInfo{
			RunID:        runID,
			BuiltAt:      time.Now().UTC(),
			MatchesSeen:  res.MatchesSeen,
			RowsEmitted:  res.RowsEmitted,
			RowsDropped:  res.RowsDropped,
			MaxMatchDate: res.MaxMatchDate,
		},
	}, nil
}

// Query computes the feature vector for an upcoming match against the frozen
// state. Identical tracker state yields bit-identical output to the batch
// path, because it is the same Build.
func (s *Snapshot) Query(p1ID, p2ID int64, surface models.Surface, date time.Time, matchID string) models.FeatureVector {
	return s.assembler.Build(p1ID, p2ID, surface, date, matchID)
}

// Info reports what this snapshot was built from.
func (s *Snapshot) Info() models.SnapshotInfo {
	return s.info
}
