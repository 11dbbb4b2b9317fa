package logic

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/courtedge/features-api/internal/models"
)

type featureTableService struct {
	ch       driver.Conn
	database string
	table    string
}

func NewFeatureTableService(ch driver.Conn, database, table string) FeatureTableService {
	return &featureTableService{ch: ch, database: database, table: table}
}

// Stats reads row and distinct-match counts from the published table. The
// duplicate count should be zero; the loaders keep only the first row per
// match id, so anything else is worth a warning upstream.
func (s *featureTableService) Stats(ctx context.Context) (*models.FeatureTableStats, error) {
	stats := &models.FeatureTableStats{}

	row := s.ch.QueryRow(ctx, fmt.Sprintf(`
		SELECT
			count() AS rows,
			uniqExact(match_id) AS distinct_matches,
			max(match_date) AS max_match_date
		FROM %s.%s
	`, s.database, s.table))
	if err := row.Scan(&stats.Rows, &stats.DistinctMatches, &stats.MaxMatchDate); err != nil {
		return nil, fmt.Errorf("feature table stats: %w", err)
	}

	stats.Duplicates = stats.Rows - stats.DistinctMatches
	return stats, nil
}

// Aggregate runs a whitelisted group-by over the published table.
func (s *featureTableService) Aggregate(ctx context.Context, req models.AggregateRequest) ([]models.AggregateRow, error) {
	query, args, err := BuildAggregateQuery(s.database, s.table, req)
	if err != nil {
		return nil, err
	}

	rows, err := s.ch.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("feature table aggregate: %w", err)
	}
	defer rows.Close()

	var out []models.AggregateRow
	for rows.Next() {
		var r models.AggregateRow
		if err := rows.Scan(&r.Value, &r.Label); err != nil {
			return nil, fmt.Errorf("feature table aggregate scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feature table aggregate rows: %w", err)
	}

	return out, nil
}
