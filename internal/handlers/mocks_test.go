package handlers

import (
	"context"

	"github.com/courtedge/features-api/internal/models"
)

// MockLiveFeatureService implements logic.LiveFeatureService for testing
type MockLiveFeatureService struct {
	GetFeaturesFunc func(ctx context.Context, req models.FeatureQueryRequest) (*models.FeatureQueryResponse, error)
	SnapshotFunc    func() (models.SnapshotInfo, error)
	RefreshFunc     func(ctx context.Context) (models.SnapshotInfo, error)
}

func (m *MockLiveFeatureService) GetFeatures(ctx context.Context, req models.FeatureQueryRequest) (*models.FeatureQueryResponse, error) {
	if m.GetFeaturesFunc != nil {
		return m.GetFeaturesFunc(ctx, req)
	}
	return &models.FeatureQueryResponse{}, nil
}

func (m *MockLiveFeatureService) Snapshot() (models.SnapshotInfo, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return models.SnapshotInfo{}, nil
}

func (m *MockLiveFeatureService) Refresh(ctx context.Context) (models.SnapshotInfo, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return models.SnapshotInfo{}, nil
}

// MockFeatureTableService implements logic.FeatureTableService for testing
type MockFeatureTableService struct {
	StatsFunc     func(ctx context.Context) (*models.FeatureTableStats, error)
	AggregateFunc func(ctx context.Context, req models.AggregateRequest) ([]models.AggregateRow, error)
}

func (m *MockFeatureTableService) Stats(ctx context.Context) (*models.FeatureTableStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.FeatureTableStats{}, nil
}

func (m *MockFeatureTableService) Aggregate(ctx context.Context, req models.AggregateRequest) ([]models.AggregateRow, error) {
	if m.AggregateFunc != nil {
		return m.AggregateFunc(ctx, req)
	}
	return nil, nil
}
