package report

import (
	"context"
	"fmt"
	"time"

	appshared "github.com/filterdesk/backend/internal/application/shared"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/report"
	"github.com/filterdesk/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CachePrefix namespaces every dashboard entry in the cache store
const CachePrefix = "stats:dashboard:"

// DefaultCacheTTL is used when the service is created without a TTL
const DefaultCacheTTL = 15 * time.Minute

// DashboardService builds dashboard figures and keeps them in the stats cache.
// Order and client mutations call Invalidate, which drops every scope at once.
type DashboardService struct {
	dashboardRepo report.DashboardRepository
	clientRepo    partner.ClientRepository
	cache         *cache.TypedCache[report.DashboardStats]
	logger        *zap.Logger
	now           func() time.Time
}

// NewDashboardService creates a new DashboardService. A nil store disables caching.
func NewDashboardService(
	dashboardRepo report.DashboardRepository,
	clientRepo partner.ClientRepository,
	store cache.Store,
	ttl time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	s := &DashboardService{
		dashboardRepo: dashboardRepo,
		clientRepo:    clientRepo,
		logger:        logger,
		now:           time.Now,
	}
	if store != nil {
		s.cache = cache.NewTypedCache[report.DashboardStats](store, CachePrefix, ttl)
	}
	return s
}

// Dashboard returns the figures for the actor's scope, from the cache when possible
func (s *DashboardService) Dashboard(ctx context.Context, actor appshared.Actor) (*report.DashboardStats, error) {
	scope := report.Scope{RepresentativeID: actor.RepresentativeScope()}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, scope.CacheKey())
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		if ok {
			return cached, nil
		}
	}

	stats, err := s.compute(ctx, scope)
	if err != nil {
		return nil, err
	}
	s.store(ctx, scope, stats)
	return stats, nil
}

// WarmUp recomputes the company-wide figures into the cache
func (s *DashboardService) WarmUp(ctx context.Context) error {
	scope := report.Scope{}
	stats, err := s.compute(ctx, scope)
	if err != nil {
		return err
	}
	s.store(ctx, scope, stats)
	return nil
}

// Invalidate drops every cached scope
func (s *DashboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear(ctx)
}

func (s *DashboardService) store(ctx context.Context, scope report.Scope, stats *report.DashboardStats) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, scope.CacheKey(), stats); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("scope", scope.CacheKey()), zap.Error(err))
	}
}

func (s *DashboardService) compute(ctx context.Context, scope report.Scope) (*report.DashboardStats, error) {
	now := s.now()

	byStatus, err := s.dashboardRepo.OrdersByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	commissions, err := s.dashboardRepo.CommissionByRepresentative(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("commission by representative: %w", err)
	}
	products, err := s.dashboardRepo.TopProducts(ctx, scope, report.RankingLimit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	clients, err := s.dashboardRepo.TopClients(ctx, scope, report.RankingLimit)
	if err != nil {
		return nil, fmt.Errorf("top clients: %w", err)
	}
	since := report.RevenueSince(now)
	monthly, err := s.dashboardRepo.MonthlyRevenue(ctx, scope, since)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	clientStats, err := s.clientRepo.Stats(ctx, scope.RepresentativeID)
	if err != nil {
		return nil, fmt.Errorf("client stats: %w", err)
	}

	stats := &report.DashboardStats{
		OrdersByStatus:   byStatus,
		ConfirmedRevenue: decimal.Zero,
		TotalCommission:  decimal.Zero,
		CommissionByRep:  commissions,
		TopProducts:      products,
		TopClients:       clients,
		MonthlyRevenue:   report.FillMonths(monthly, since, now),
		ActiveClients:    clientStats.Active,
		TotalClients:     clientStats.Total,
		GeneratedAt:      now,
	}
	for _, c := range commissions {
		stats.ConfirmedRevenue = stats.ConfirmedRevenue.Add(c.Revenue)
		stats.TotalCommission = stats.TotalCommission.Add(c.Commission)
	}
	return stats, nil
}
