package logic

import (
	"fmt"

	"github.com/courtedge/features-api/internal/models"
)

// allowedDimensions maps safe API values to ClickHouse group-by expressions.
var allowedDimensions = map[string]string{
	"surface": "surface",
	"year":    "toString(toYear(match_date))",
	"month":   "toString(toStartOfMonth(match_date))",
	"p1_hand": "p1_hand",
}

// BuildAggregateQuery constructs a safe aggregation query over the published
// feature table. Dimension and metric are whitelisted; everything user-supplied
// beyond that travels as bind parameters.
func BuildAggregateQuery(database, table string, req models.AggregateRequest) (string, []interface{}, error) {
	groupByCol, ok := allowedDimensions[req.Dimension]
	if !ok && req.Dimension != "" {
		return "", nil, fmt.Errorf("%w: unknown dimension %q", ErrInvalidQuery, req.Dimension)
	}

	// winner is 1 when the canonical p1 won, so avg(winner) is p1's win rate.
	// count() returns UInt64 which the native driver will not scan into a
	// float64 column, hence the explicit toFloat64.
	var selectClause string
	switch req.Metric {
	case "rows", "":
		selectClause = "toFloat64(count())"
	case "p1_win_rate":
		selectClause = "avg(winner)"
	case "avg_elo_diff":
		selectClause = "avg(elo_diff)"
	case "avg_rank_diff":
		selectClause = "avg(rank_diff)"
	default:
		return "", nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidQuery, req.Metric)
	}

	query := fmt.Sprintf("SELECT %s as value", selectClause)
	var args []interface{}

	if groupByCol != "" {
		query += fmt.Sprintf(", %s as label", groupByCol)
	} else {
		query += ", 'all' as label"
	}

	query += fmt.Sprintf(" FROM %s.%s WHERE 1=1", database, table)

	if req.Surface != "" {
		query += " AND surface = ?"
		args = append(args, req.Surface)
	}
	if !req.StartDate.IsZero() {
		query += " AND match_date >= ?"
		args = append(args, req.StartDate)
	}
	if !req.EndDate.IsZero() {
		query += " AND match_date <= ?"
		args = append(args, req.EndDate)
	}

	if groupByCol != "" {
		query += fmt.Sprintf(" GROUP BY %s", groupByCol)
	}

	query += " ORDER BY value DESC"

	limit := req.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	return query, args, nil
}
