package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gunplahub/api/internal/listquery"
	"github.com/gunplahub/api/kits/models"
)

// MockKitRepository is a testify mock of repository.KitRepository.
type MockKitRepository struct {
	mock.Mock
}

func (m *MockKitRepository) FindKits(ctx context.Context, q listquery.ListQuery) ([]models.Kit, error) {
	args := m.Called(ctx, q)
	if kits := args.Get(0); kits != nil {
		return kits.([]models.Kit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKitRepository) CountKits(ctx context.Context, q listquery.ListQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKitRepository) GetKit(ctx context.Context, id int64) (*models.Kit, error) {
	args := m.Called(ctx, id)
	if kit := args.Get(0); kit != nil {
		return kit.(*models.Kit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKitRepository) ListImages(ctx context.Context, kitIDs []int64) ([]models.KitImage, error) {
	args := m.Called(ctx, kitIDs)
	if images := args.Get(0); images != nil {
		return images.([]models.KitImage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKitRepository) GradesByID(ctx context.Context, ids []int64) (map[int64]models.GradeSummary, error) {
	args := m.Called(ctx, ids)
	if grades := args.Get(0); grades != nil {
		return grades.(map[int64]models.GradeSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKitRepository) SeriesByID(ctx context.Context, ids []int64) (map[int64]models.SeriesSummary, error) {
	args := m.Called(ctx, ids)
	if series := args.Get(0); series != nil {
		return series.(map[int64]models.SeriesSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKitRepository) TimelinesByID(ctx context.Context, ids []int64) (map[int64]models.TimelineSummary, error) {
	args := m.Called(ctx, ids)
	if timelines := args.Get(0); timelines != nil {
		return timelines.(map[int64]models.TimelineSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKitRepository) GetMobileSuit(ctx context.Context, id int64) (*models.MobileSuitSummary, error) {
	args := m.Called(ctx, id)
	if suit := args.Get(0); suit != nil {
		return suit.(*models.MobileSuitSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKitRepository) ResolveGradeIDs(ctx context.Context, codes []string) ([]int64, error) {
	args := m.Called(ctx, codes)
	if ids := args.Get(0); ids != nil {
		return ids.([]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKitRepository) ResolveTimelineIDs(ctx context.Context, codes []string) ([]int64, error) {
	args := m.Called(ctx, codes)
	if ids := args.Get(0); ids != nil {
		return ids.([]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockKitRepository) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	args := m.Called(ctx)
	if options := args.Get(0); options != nil {
		return options.(*models.FilterOptions), args.Error(1)
	}
	return nil, args.Error(1)
}
