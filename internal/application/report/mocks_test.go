package report

import (
	"context"
	"time"

	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/report"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) OrdersByStatus(ctx context.Context, scope report.Scope) ([]report.StatusCount, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]report.StatusCount), args.Error(1)
}

func (m *MockDashboardRepository) CommissionByRepresentative(ctx context.Context, scope report.Scope) ([]report.RepresentativeCommission, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]report.RepresentativeCommission), args.Error(1)
}

func (m *MockDashboardRepository) TopProducts(ctx context.Context, scope report.Scope, limit int) ([]report.ProductRanking, error) {
	args := m.Called(ctx, scope, limit)
	return args.Get(0).([]report.ProductRanking), args.Error(1)
}

func (m *MockDashboardRepository) TopClients(ctx context.Context, scope report.Scope, limit int) ([]report.ClientRanking, error) {
	args := m.Called(ctx, scope, limit)
	return args.Get(0).([]report.ClientRanking), args.Error(1)
}

func (m *MockDashboardRepository) MonthlyRevenue(ctx context.Context, scope report.Scope, since time.Time) ([]report.MonthlyRevenue, error) {
	args := m.Called(ctx, scope, since)
	return args.Get(0).([]report.MonthlyRevenue), args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) ExistsByCNPJ(ctx context.Context, cnpj string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, cnpj, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) SaveBatch(ctx context.Context, clients []*partner.Client) error {
	return m.Called(ctx, clients).Error(0)
}

func (m *MockClientRepository) Stats(ctx context.Context, representativeID *uuid.UUID) (*partner.ClientStats, error) {
	args := m.Called(ctx, representativeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ClientStats), args.Error(1)
}
