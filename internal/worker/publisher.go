package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"
)

// featureTableDDL is the schema shared by the live table and every staging
// table. Column order matches insertColumns.
const featureTableDDL = `CREATE TABLE IF NOT EXISTS %s.%s (
	match_id String,
	match_date Date,
	surface LowCardinality(String),
	p1_id Int64,
	p2_id Int64,
	p1_rank Float64,
	p2_rank Float64,
	rank_diff Float64,
	p1_elo Float64,
	p2_elo Float64,
	elo_diff Float64,
	p1_elo_momentum Float64,
	p2_elo_momentum Float64,
	elo_momentum_diff Float64,
	p1_win_perc Float64,
	p2_win_perc Float64,
	p1_surface_win_perc Float64,
	p2_surface_win_perc Float64,
	p1_form_last_10 Float64,
	p2_form_last_10 Float64,
	p1_rolling_win_perc_20 Float64,
	p2_rolling_win_perc_20 Float64,
	p1_rolling_win_perc_50 Float64,
	p2_rolling_win_perc_50 Float64,
	p1_matches_last_7_days Int32,
	p2_matches_last_7_days Int32,
	p1_matches_last_14_days Int32,
	p2_matches_last_14_days Int32,
	fatigue_diff_7_days Int32,
	fatigue_diff_14_days Int32,
	p1_sets_last_7_days Int32,
	p2_sets_last_7_days Int32,
	p1_sets_last_14_days Int32,
	p2_sets_last_14_days Int32,
	fatigue_sets_diff_7_days Int32,
	fatigue_sets_diff_14_days Int32,
	p1_h2h_wins Int32,
	p2_h2h_wins Int32,
	p1_hand LowCardinality(String),
	p2_hand LowCardinality(String),
	winner UInt8
) ENGINE = MergeTree()
ORDER BY (match_date, match_id)`

// Publisher owns the staged-swap lifecycle of the feature table. A replay
// writes into a per-run staging table; only a complete, successful run is
// promoted, so readers always see either the previous table or the new one,
// never a partial rebuild.
type Publisher struct {
	conn     driver.Conn
	database string
	table    string
	logger   *zap.SugaredLogger
}

// NewPublisher creates a publisher for the given live table.
func NewPublisher(conn driver.Conn, database, table string, logger *zap.Logger) *Publisher {
	return &Publisher{
		conn:     conn,
		database: database,
		table:    table,
		logger:   logger.Sugar(),
	}
}

// StagingTable derives the per-run staging table name. Run IDs are UUIDs;
// dashes are stripped to keep the identifier plain.
func (p *Publisher) StagingTable(runID string) string {
	return fmt.Sprintf("%s_stage_%s", p.table, strings.ReplaceAll(runID, "-", ""))
}

// EnsureLiveTable creates the live feature table if it does not exist yet,
// so the first EXCHANGE has something to swap against.
func (p *Publisher) EnsureLiveTable(ctx context.Context) error {
	if err := p.conn.Exec(ctx, fmt.Sprintf(featureTableDDL, p.database, p.table)); err != nil {
		return fmt.Errorf("create live table %s: %w", p.table, err)
	}
	return nil
}

// CreateStagingTable creates a fresh, empty staging table for this run.
func (p *Publisher) CreateStagingTable(ctx context.Context, staging string) error {
	if err := p.conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", p.database, staging)); err != nil {
		return fmt.Errorf("drop stale staging table %s: %w", staging, err)
	}
	if err := p.conn.Exec(ctx, fmt.Sprintf(featureTableDDL, p.database, staging)); err != nil {
		return fmt.Errorf("create staging table %s: %w", staging, err)
	}
	p.logger.Infow("Staging table ready", "table", staging)
	return nil
}

// Promote atomically swaps the staging table into place and drops the table
// holding the previous run's rows.
func (p *Publisher) Promote(ctx context.Context, staging string) error {
	exchange := fmt.Sprintf("EXCHANGE TABLES %s.%s AND %s.%s", p.database, staging, p.database, p.table)
	if err := p.conn.Exec(ctx, exchange); err != nil {
		return fmt.Errorf("exchange %s with %s: %w", staging, p.table, err)
	}

	// After the exchange the staging name points at the previous run.
	if err := p.conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", p.database, staging)); err != nil {
		p.logger.Warnw("Failed to drop previous feature table", "table", staging, "error", err)
	}

	p.logger.Infow("Feature table published", "table", p.table, "staging", staging)
	return nil
}

// Discard drops the staging table after a failed run.
func (p *Publisher) Discard(ctx context.Context, staging string) error {
	if err := p.conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", p.database, staging)); err != nil {
		return fmt.Errorf("drop staging table %s: %w", staging, err)
	}
	p.logger.Infow("Staging table discarded", "table", staging)
	return nil
}
