package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/courtedge/features-api/internal/models"
)

// ErrNotChronological is returned when the pass encounters a match dated
// earlier than one already applied. It should be unreachable after Prepare
// and indicates a broken invariant, which aborts the replay.
var ErrNotChronological = errors.New("match stream is not in chronological order")

// Sink receives feature rows in emission order. Emit is called from a single
// goroutine; an error aborts the replay that produced the row.
type Sink interface {
	Emit(row models.FeatureRow) error
}

// nopSink backs snapshot builds, where the rows themselves are not kept.
type nopSink struct{}

func (nopSink) Emit(models.FeatureRow) error { return nil }

// Trackers bundles the mutable state owned by one replay. Nothing here is a
// process-wide singleton: each replay constructs its own set and hands it,
// by reference, to the assembler and orchestrator.
type Trackers struct {
	Elo  *EloTracker
	Form *FormTracker
	H2H  *H2HTracker
}

func NewTrackers(cfg Config) *Trackers {
	return &Trackers{
		Elo:  NewEloTracker(cfg),
		Form: NewFormTracker(),
		H2H:  NewH2HTracker(),
	}
}

// Result summarizes one finished replay.
type Result struct {
	MatchesSeen  int
	RowsEmitted  int
	RowsDropped  int
	MaxMatchDate time.Time
	Duration     time.Duration
}

// Orchestrator drives the chronological pass over a match stream. Per match,
// strictly in order: assemble the feature vector from current tracker state,
// emit the row with its label, then update the trackers. A full replay is
// the only way trackers reach a point in time; partial state is never loaded
// from anywhere.
type Orchestrator struct {
	cfg       Config
	trackers  *Trackers
	assembler *Assembler
	sink      Sink
	logger    *zap.SugaredLogger
}

// NewOrchestrator wires fresh trackers to the shared assembler. Rankings and
// player attributes are immutable inputs; the sink receives the feature
// table rows.
func NewOrchestrator(cfg Config, ranks *RankingLookup, players *PlayerDirectory, sink Sink, logger *zap.SugaredLogger) *Orchestrator {
	cfg = cfg.withDefaults()
	trackers := NewTrackers(cfg)
	if sink == nil {
		sink = nopSink{}
	}
	return &Orchestrator{
		cfg:       cfg,
		trackers:  trackers,
		assembler: NewAssembler(trackers.Elo, trackers.Form, trackers.H2H, ranks, players),
		sink:      sink,
		logger:    logger,
	}
}

// Assembler exposes the shared build function, the same one the replay used,
// for the live query path.
func (o *Orchestrator) Assembler() *Assembler {
	return o.assembler
}

// Prepare drops malformed matches and establishes chronological order. The
// sort is stable, so matches on the same date keep their stream order. Each
// dropped row is logged individually plus a summary count; dropping is
// per-row and never aborts the run.
func (o *Orchestrator) Prepare(matches []models.Match) ([]models.Match, int) {
	valid := make([]models.Match, 0, len(matches))
	dropped := 0
	for _, m := range matches {
		if err := m.Validate(); err != nil {
			dropped++
			rowsDropped.Inc()
			o.logger.Warnw("dropping malformed match", "match_id", m.MatchID, "reason", err.Error())
			continue
		}
		valid = append(valid, m)
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Date.Before(valid[j].Date)
	})
	if dropped > 0 {
		o.logger.Infow("dropped malformed matches", "dropped", dropped, "remaining", len(valid))
	}
	return valid, dropped
}

// Run replays the full match stream. Any error mid-pass aborts the whole
// replay; the caller must discard all partial output.
func (o *Orchestrator) Run(matches []models.Match) (*Result, error) {
	started := time.Now()

	valid, dropped := o.Prepare(matches)
	result := &Result{
		MatchesSeen: len(matches),
		RowsDropped: dropped,
	}

	var lastDate time.Time
	for i := range valid {
		m := &valid[i]
		if m.Date.Before(lastDate) {
			replaysFailed.Inc()
			return nil, fmt.Errorf("match %s dated %s after %s: %w", m.MatchID, m.Date.Format(time.RFC3339), lastDate.Format(time.RFC3339), ErrNotChronological)
		}
		lastDate = m.Date

		row := models.FeatureRow{
			MatchID:       m.MatchID,
			MatchDate:     m.Date,
			Surface:       m.Surface,
			P1ID:          m.P1(),
			P2ID:          m.P2(),
			FeatureVector: o.assembler.Build(m.P1(), m.P2(), m.Surface, m.Date, m.MatchID),
			Winner:        m.Label(),
		}
		if err := o.sink.Emit(row); err != nil {
			replaysFailed.Inc()
			return nil, fmt.Errorf("emit row for match %s: %w", m.MatchID, err)
		}
		rowsEmitted.Inc()
		result.RowsEmitted++
		result.MaxMatchDate = m.Date

		// Updates must land only after this match's row is out.
		o.trackers.Elo.Update(m.WinnerID, m.LoserID, m.Surface)
		o.trackers.Form.Update(m.WinnerID, m.LoserID, m.Surface, m.Date, m.SetsPlayed)
		o.trackers.H2H.Update(m.WinnerID, m.LoserID)
	}

	result.Duration = time.Since(started)
	replaysCompleted.Inc()
	replayDuration.Observe(result.Duration.Seconds())
	o.logger.Infow("chronological replay finished",
		"matches_seen", result.MatchesSeen,
		"rows_emitted", result.RowsEmitted,
		"rows_dropped", result.RowsDropped,
		"max_match_date", result.MaxMatchDate,
		"duration", result.Duration,
	)
	return result, nil
}
