package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scope restricts dashboard figures to one representative. A nil
// RepresentativeID means the whole company.
type Scope struct {
	RepresentativeID *uuid.UUID
}

// CacheKey identifies the scope in the stats cache
func (s Scope) CacheKey() string {
	if s.RepresentativeID == nil {
		return "all"
	}
	return "rep:" + s.RepresentativeID.String()
}

// StatusCount is the number and value of orders in one status
type StatusCount struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// RepresentativeCommission is the commission earned on confirmed orders
type RepresentativeCommission struct {
	RepresentativeID   uuid.UUID       `json:"representative_id"`
	RepresentativeName string          `json:"representative_name"`
	OrderCount         int64           `json:"order_count"`
	Revenue            decimal.Decimal `json:"revenue"`
	Commission         decimal.Decimal `json:"commission"`
}

// ProductRanking is a product ranked by confirmed quantity
type ProductRanking struct {
	Rank        int             `json:"rank"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ClientRanking is a client ranked by confirmed revenue
type ClientRanking struct {
	Rank       int             `json:"rank"`
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// MonthlyRevenue is confirmed revenue for one calendar month (YYYY-MM)
type MonthlyRevenue struct {
	Month      string          `json:"month"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// DashboardStats is the read model behind the dashboard
type DashboardStats struct {
	OrdersByStatus   []StatusCount              `json:"orders_by_status"`
	ConfirmedRevenue decimal.Decimal            `json:"confirmed_revenue"`
	TotalCommission  decimal.Decimal            `json:"total_commission"`
	CommissionByRep  []RepresentativeCommission `json:"commission_by_representative"`
	TopProducts      []ProductRanking           `json:"top_products"`
	TopClients       []ClientRanking            `json:"top_clients"`
	MonthlyRevenue   []MonthlyRevenue           `json:"monthly_revenue"`
	ActiveClients    int64                      `json:"active_clients"`
	TotalClients     int64                      `json:"total_clients"`
	GeneratedAt      time.Time                  `json:"generated_at"`
}

// RankingLimit caps top-N lists
const RankingLimit = 10

// MonthsOfRevenue is how many calendar months the revenue series covers
const MonthsOfRevenue = 12

// DashboardRepository runs the aggregate queries behind DashboardStats
type DashboardRepository interface {
	OrdersByStatus(ctx context.Context, scope Scope) ([]StatusCount, error)
	CommissionByRepresentative(ctx context.Context, scope Scope) ([]RepresentativeCommission, error)
	TopProducts(ctx context.Context, scope Scope, limit int) ([]ProductRanking, error)
	TopClients(ctx context.Context, scope Scope, limit int) ([]ClientRanking, error)
	MonthlyRevenue(ctx context.Context, scope Scope, since time.Time) ([]MonthlyRevenue, error)
}

// RevenueSince returns the first day of the month MonthsOfRevenue-1 months before now
func RevenueSince(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -(MonthsOfRevenue - 1), 0)
}

// FillMonths returns one entry per month from since through now, zero-filling
// months without confirmed orders
func FillMonths(rows []MonthlyRevenue, since, now time.Time) []MonthlyRevenue {
	byMonth := make(map[string]MonthlyRevenue, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	var result []MonthlyRevenue
	for m := since; !m.After(now); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		if r, ok := byMonth[key]; ok {
			result = append(result, r)
			continue
		}
		result = append(result, MonthlyRevenue{Month: key, Revenue: decimal.Zero})
	}
	return result
}
