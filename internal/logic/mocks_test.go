package logic

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/courtedge/features-api/internal/engine"
	"github.com/courtedge/features-api/internal/models"
)

// MockPgPool routes queries to test-provided row sets.
type MockPgPool struct {
	QueryFunc func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return nil, nil
}
func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

// pgRowsBase stubs the pgx.Rows plumbing shared by the typed row mocks.
type pgRowsBase struct{}

func (pgRowsBase) Close()                                       {}
func (pgRowsBase) Err() error                                   { return nil }
func (pgRowsBase) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (pgRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (pgRowsBase) Values() ([]any, error)                       { return nil, nil }
func (pgRowsBase) RawValues() [][]byte                          { return nil }
func (pgRowsBase) Conn() *pgx.Conn                              { return nil }

type stubMatchRow struct {
	matchID string
	date    *time.Time
	tourney string
	surface string
	winner  int64
	loser   int64
	score   string
}

type MockMatchRows struct {
	pgRowsBase
	rows []stubMatchRow
	idx  int
}

func (r *MockMatchRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *MockMatchRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	*dest[0].(*string) = row.matchID
	*dest[1].(**time.Time) = row.date
	*dest[2].(*string) = row.tourney
	*dest[3].(*string) = row.surface
	*dest[4].(*int64) = row.winner
	*dest[5].(*int64) = row.loser
	*dest[6].(*string) = row.score
	return nil
}

type stubRankingRow struct {
	date     time.Time
	playerID int64
	rank     int
}

type MockRankingRows struct {
	pgRowsBase
	rows []stubRankingRow
	idx  int
}

func (r *MockRankingRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *MockRankingRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	*dest[0].(*time.Time) = row.date
	*dest[1].(*int64) = row.playerID
	*dest[2].(*int) = row.rank
	return nil
}

type stubPlayerRow struct {
	playerID int64
	name     string
	hand     string
}

type MockPlayerRows struct {
	pgRowsBase
	rows []stubPlayerRow
	idx  int
}

func (r *MockPlayerRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *MockPlayerRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	*dest[0].(*int64) = row.playerID
	*dest[1].(*string) = row.name
	*dest[2].(*string) = row.hand
	return nil
}

// MockMatchStore satisfies MatchStore for live-service tests.
type MockMatchStore struct {
	LoadMatchesFunc  func(ctx context.Context) ([]models.Match, error)
	LoadRankingsFunc func(ctx context.Context) ([]models.RankingRow, error)
	LoadPlayersFunc  func(ctx context.Context) ([]models.PlayerInfo, error)
	LoadInputsFunc   func(ctx context.Context) (engine.SnapshotInputs, error)
}

func (m *MockMatchStore) LoadMatches(ctx context.Context) ([]models.Match, error) {
	if m.LoadMatchesFunc != nil {
		return m.LoadMatchesFunc(ctx)
	}
	return nil, nil
}

func (m *MockMatchStore) LoadRankings(ctx context.Context) ([]models.RankingRow, error) {
	if m.LoadRankingsFunc != nil {
		return m.LoadRankingsFunc(ctx)
	}
	return nil, nil
}

func (m *MockMatchStore) LoadPlayers(ctx context.Context) ([]models.PlayerInfo, error) {
	if m.LoadPlayersFunc != nil {
		return m.LoadPlayersFunc(ctx)
	}
	return nil, nil
}

func (m *MockMatchStore) LoadInputs(ctx context.Context) (engine.SnapshotInputs, error) {
	if m.LoadInputsFunc != nil {
		return m.LoadInputsFunc(ctx)
	}
	return engine.SnapshotInputs{}, nil
}

// MockConn backs ClickHouse read tests.
type MockConn struct {
	driver.Conn
	QueryRowFunc func(ctx context.Context, query string, args ...interface{}) driver.Row
	QueryFunc    func(ctx context.Context, query string, args ...interface{}) (driver.Rows, error)
}

func (m *MockConn) QueryRow(ctx context.Context, query string, args ...interface{}) driver.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, query, args...)
	}
	return &MockRow{}
}

func (m *MockConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, query, args...)
	}
	return &MockAggRows{}, nil
}

type MockRow struct {
	driver.Row
	ScanFunc func(dest ...interface{}) error
}

func (m *MockRow) Scan(dest ...interface{}) error {
	if m.ScanFunc != nil {
		return m.ScanFunc(dest...)
	}
	return nil
}

type stubAggRow struct {
	value float64
	label string
}

// MockAggRows plays back (value, label) pairs the way aggregate queries
// return them.
type MockAggRows struct {
	driver.Rows
	rows []stubAggRow
	idx  int
}

func (r *MockAggRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *MockAggRows) Scan(dest ...interface{}) error {
	row := r.rows[r.idx-1]
	*dest[0].(*float64) = row.value
	*dest[1].(*string) = row.label
	return nil
}

func (r *MockAggRows) Close() error { return nil }
func (r *MockAggRows) Err() error   { return nil }
