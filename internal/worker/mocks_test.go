package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/courtedge/features-api/internal/models"
)

// MockChConn implements driver.Conn for testing
type MockChConn struct {
	driver.Conn

	SendErr   error
	AppendErr error
	BatchErr  error
	ExecErr   func(query string) error

	mu         sync.Mutex
	batches    []*MockBatch
	executed   []string
	prepareSQL []string
}

func (m *MockChConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prepareSQL = append(m.prepareSQL, query)
	if m.BatchErr != nil {
		return nil, m.BatchErr
	}
	batch := &MockBatch{sendErr: m.SendErr, appendErr: m.AppendErr}
	m.batches = append(m.batches, batch)
	return batch, nil
}

func (m *MockChConn) Exec(ctx context.Context, query string, args ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executed = append(m.executed, query)
	if m.ExecErr != nil {
		return m.ExecErr(query)
	}
	return nil
}

// SentBatches returns the batches whose Send succeeded, in order.
func (m *MockChConn) SentBatches() []*MockBatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	sent := make([]*MockBatch, 0, len(m.batches))
	for _, b := range m.batches {
		if b.IsSent() {
			sent = append(sent, b)
		}
	}
	return sent
}

// Executed returns the statements run via Exec so far, in order.
func (m *MockChConn) Executed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.executed))
	copy(out, m.executed)
	return out
}

// PreparedSQL returns the insert statements prepared so far.
func (m *MockChConn) PreparedSQL() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prepareSQL))
	copy(out, m.prepareSQL)
	return out
}

// MockBatch implements driver.Batch, recording appended rows
type MockBatch struct {
	mu        sync.Mutex
	rows      [][]interface{}
	sent      bool
	sendErr   error
	appendErr error
}

func (m *MockBatch) Append(v ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	row := make([]interface{}, len(v))
	copy(row, v)
	m.rows = append(m.rows, row)
	return nil
}

func (m *MockBatch) AppendStruct(v interface{}) error {
	return nil
}

func (m *MockBatch) Column(int) driver.BatchColumn {
	return nil
}

func (m *MockBatch) IsSent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

func (m *MockBatch) Rows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// AppendedRows returns a copy of everything appended so far.
func (m *MockBatch) AppendedRows() [][]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]interface{}, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m *MockBatch) Send() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = true
	return nil
}

func (m *MockBatch) Flush() error {
	return nil
}

func (m *MockBatch) Abort() error {
	return nil
}

// MockLiveService implements logic.LiveFeatureService for refresher tests
type MockLiveService struct {
	RefreshErr   error
	refreshCount atomic.Int32
}

func (m *MockLiveService) GetFeatures(ctx context.Context, req models.FeatureQueryRequest) (*models.FeatureQueryResponse, error) {
	return nil, nil
}

func (m *MockLiveService) Snapshot() (models.SnapshotInfo, error) {
	return models.SnapshotInfo{}, nil
}

func (m *MockLiveService) Refresh(ctx context.Context) (models.SnapshotInfo, error) {
	n := m.refreshCount.Add(1)
	if m.RefreshErr != nil {
		return models.SnapshotInfo{}, m.RefreshErr
	}
	return models.SnapshotInfo{RunID: fmt.Sprintf("run-%d", n)}, nil
}

func (m *MockLiveService) RefreshCount() int {
	return int(m.refreshCount.Load())
}
