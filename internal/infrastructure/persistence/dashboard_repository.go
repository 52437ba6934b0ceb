package persistence

import (
	"context"
	"time"

	"github.com/filterdesk/backend/internal/domain/report"
	"github.com/filterdesk/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormDashboardRepository runs dashboard aggregates with GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func (r *GormDashboardRepository) orders(ctx context.Context, scope report.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Table("orders AS o")
	if scope.RepresentativeID != nil {
		q = q.Where("o.representative_id = ?", *scope.RepresentativeID)
	}
	return q
}

func (r *GormDashboardRepository) confirmed(ctx context.Context, scope report.Scope) *gorm.DB {
	return r.orders(ctx, scope).Where("o.status = ?", trade.OrderStatusConfirmed)
}

// OrdersByStatus counts orders and sums totals per status
func (r *GormDashboardRepository) OrdersByStatus(ctx context.Context, scope report.Scope) ([]report.StatusCount, error) {
	var rows []report.StatusCount
	err := r.orders(ctx, scope).
		Select("o.status AS status, COUNT(*) AS count, COALESCE(SUM(o.total), 0) AS total").
		Group("o.status").
		Order("o.status").
		Scan(&rows).Error
	return rows, err
}

// CommissionByRepresentative sums confirmed revenue and commission per representative
func (r *GormDashboardRepository) CommissionByRepresentative(ctx context.Context, scope report.Scope) ([]report.RepresentativeCommission, error) {
	var rows []report.RepresentativeCommission
	err := r.confirmed(ctx, scope).
		Select(`o.representative_id AS representative_id,
			MAX(o.representative_name) AS representative_name,
			COUNT(*) AS order_count,
			COALESCE(SUM(o.total), 0) AS revenue,
			COALESCE(SUM(o.commission), 0) AS commission`).
		Group("o.representative_id").
		Order("commission DESC").
		Scan(&rows).Error
	return rows, err
}

// TopProducts ranks products by confirmed quantity
func (r *GormDashboardRepository) TopProducts(ctx context.Context, scope report.Scope, limit int) ([]report.ProductRanking, error) {
	var rows []report.ProductRanking
	err := r.confirmed(ctx, scope).
		Joins("JOIN order_items AS i ON i.order_id = o.id").
		Select(`i.product_id AS product_id,
			MAX(i.product_code) AS product_code,
			MAX(i.product_name) AS product_name,
			SUM(i.quantity) AS quantity,
			COALESCE(SUM(i.subtotal), 0) AS revenue`).
		Group("i.product_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, err
}

// TopClients ranks clients by confirmed revenue
func (r *GormDashboardRepository) TopClients(ctx context.Context, scope report.Scope, limit int) ([]report.ClientRanking, error) {
	var rows []report.ClientRanking
	err := r.confirmed(ctx, scope).
		Select(`o.client_id AS client_id,
			MAX(o.client_name) AS client_name,
			COUNT(*) AS order_count,
			COALESCE(SUM(o.total), 0) AS revenue`).
		Group("o.client_id").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, err
}

// MonthlyRevenue sums confirmed revenue per calendar month of confirmation
func (r *GormDashboardRepository) MonthlyRevenue(ctx context.Context, scope report.Scope, since time.Time) ([]report.MonthlyRevenue, error) {
	month := r.monthExpression("o.confirmed_at")
	var rows []report.MonthlyRevenue
	err := r.confirmed(ctx, scope).
		Where("o.confirmed_at >= ?", since).
		Select(month + " AS month, COUNT(*) AS order_count, COALESCE(SUM(o.total), 0) AS revenue").
		Group(month).
		Order("month").
		Scan(&rows).Error
	return rows, err
}

func (r *GormDashboardRepository) monthExpression(column string) string {
	if r.db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m', " + column + ")"
	}
	return "to_char(" + column + ", 'YYYY-MM')"
}

var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
