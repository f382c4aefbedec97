// filepath: internal/services/mocks/analysis_mock.go
package mocks

import (
	"context"
	"trialdb/internal/models"
	"trialdb/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockAnalysisService is a mock implementation of services.AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

var _ services.AnalysisService = (*MockAnalysisService)(nil)

func (m *MockAnalysisService) Overview(ctx context.Context) ([]models.OverviewRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OverviewRow), args.Error(1)
}

func (m *MockAnalysisService) Comparison(ctx context.Context) (*models.ComparisonResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComparisonResult), args.Error(1)
}

func (m *MockAnalysisService) SubsetBreakdown(ctx context.Context) (*models.SubsetBreakdown, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubsetBreakdown), args.Error(1)
}

func (m *MockAnalysisService) LoadInfo(ctx context.Context) (*models.LoadRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoadRun), args.Error(1)
}
