package logic

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/courtedge/features-api/internal/models"
)

func TestBuildAggregateQuery(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		req       models.AggregateRequest
		wantQuery string
		wantArgs  []interface{}
		wantErr   bool
	}{
		{
			name: "Win rate by surface",
			req:  models.AggregateRequest{Dimension: "surface", Metric: "p1_win_rate"},
			wantQuery: "SELECT avg(winner) as value, surface as label" +
				" FROM tennis.match_features WHERE 1=1 GROUP BY surface ORDER BY value DESC LIMIT 100",
		},
		{
			name: "Row count by year with date range",
			req: models.AggregateRequest{
				Dimension: "year",
				Metric:    "rows",
				StartDate: from,
				EndDate:   to,
				Limit:     50,
			},
			wantQuery: "SELECT toFloat64(count()) as value, toString(toYear(match_date)) as label" +
				" FROM tennis.match_features WHERE 1=1 AND match_date >= ? AND match_date <= ?" +
				" GROUP BY toString(toYear(match_date)) ORDER BY value DESC LIMIT 50",
			wantArgs: []interface{}{from, to},
		},
		{
			name: "No dimension collapses to all",
			req:  models.AggregateRequest{Metric: "avg_elo_diff", Surface: "Clay"},
			wantQuery: "SELECT avg(elo_diff) as value, 'all' as label" +
				" FROM tennis.match_features WHERE 1=1 AND surface = ? ORDER BY value DESC LIMIT 100",
			wantArgs: []interface{}{"Clay"},
		},
		{
			name: "Empty metric defaults to row count",
			req:  models.AggregateRequest{Dimension: "p1_hand"},
			wantQuery: "SELECT toFloat64(count()) as value, p1_hand as label" +
				" FROM tennis.match_features WHERE 1=1 GROUP BY p1_hand ORDER BY value DESC LIMIT 100",
		},
		{
			name: "Oversized limit is clamped",
			req:  models.AggregateRequest{Dimension: "month", Limit: 5000},
			wantQuery: "SELECT toFloat64(count()) as value, toString(toStartOfMonth(match_date)) as label" +
				" FROM tennis.match_features WHERE 1=1 GROUP BY toString(toStartOfMonth(match_date))" +
				" ORDER BY value DESC LIMIT 100",
		},
		{
			name:    "Unknown dimension",
			req:     models.AggregateRequest{Dimension: "p1_id; DROP TABLE match_features"},
			wantErr: true,
		},
		{
			name:    "Unknown metric",
			req:     models.AggregateRequest{Dimension: "surface", Metric: "kills"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args, err := BuildAggregateQuery("tennis", "match_features", tt.req)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got query %q", got)
				}
				if !errors.Is(err, ErrInvalidQuery) {
					t.Errorf("error = %v, want ErrInvalidQuery", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildAggregateQuery() error = %v", err)
			}
			if got != tt.wantQuery {
				t.Errorf("query = %q, want %q", got, tt.wantQuery)
			}
			if tt.wantArgs == nil {
				if len(args) != 0 {
					t.Errorf("args = %v, want none", args)
				}
			} else if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestFeatureTableAggregate(t *testing.T) {
	var gotQuery string
	var gotArgs []interface{}
	conn := &MockConn{
		QueryFunc: func(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
			gotQuery = query
			gotArgs = args
			return &MockAggRows{rows: []stubAggRow{
				{value: 0.61, label: "Clay"},
				{value: 0.55, label: "Hard"},
			}}, nil
		},
	}

	svc := NewFeatureTableService(conn, "tennis", "match_features")
	rows, err := svc.Aggregate(context.Background(), models.AggregateRequest{
		Dimension: "surface",
		Metric:    "p1_win_rate",
		Surface:   "",
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if !strings.Contains(gotQuery, "avg(winner)") || !strings.Contains(gotQuery, "GROUP BY surface") {
		t.Errorf("unexpected query: %q", gotQuery)
	}
	if len(gotArgs) != 0 {
		t.Errorf("args = %v, want none", gotArgs)
	}
	want := []models.AggregateRow{
		{Label: "Clay", Value: 0.61},
		{Label: "Hard", Value: 0.55},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %+v, want %+v", rows, want)
	}
}

func TestFeatureTableAggregateRejectsBadDimension(t *testing.T) {
	svc := NewFeatureTableService(&MockConn{}, "tennis", "match_features")

	_, err := svc.Aggregate(context.Background(), models.AggregateRequest{Dimension: "weapon"})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("error = %v, want ErrInvalidQuery", err)
	}
}
