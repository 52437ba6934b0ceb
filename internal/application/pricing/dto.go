package pricing

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountInput contains the create and update form of a discount tier. A
// missing discount percentage is derived from an "N*P" name.
type DiscountInput struct {
	Name                 string           `json:"name" binding:"required,min=1,max=50"`
	DiscountPercentage   *decimal.Decimal `json:"discount_percentage"`
	CommissionPercentage decimal.Decimal  `json:"commission_percentage"`
}

// DiscountListFilter contains the query parameters of the discount list
type DiscountListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DiscountResponse represents a discount tier returned by the API
type DiscountResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	Active               bool            `json:"active"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ToDiscountResponse converts a domain discount
func ToDiscountResponse(d *pricing.Discount) DiscountResponse {
	return DiscountResponse{
		ID:                   d.ID,
		Name:                 d.Name,
		DiscountPercentage:   d.DiscountPercentage,
		CommissionPercentage: d.CommissionPercentage,
		Active:               d.Active,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

// QuoteLineInput is one ad-hoc line of a quote preview. A discount_id takes
// its percentages from the tier; a product_id without a unit price uses the
// list price.
type QuoteLineInput struct {
	ProductID            *uuid.UUID       `json:"product_id"`
	DiscountID           *uuid.UUID       `json:"discount_id"`
	Quantity             int64            `json:"quantity" binding:"min=0"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	DiscountPercentage   *decimal.Decimal `json:"discount_percentage"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
}

// QuoteInput contains the lines of a quote preview
type QuoteInput struct {
	Status string           `json:"status" binding:"omitempty,oneof=quotation confirmed"`
	Taxes  *decimal.Decimal `json:"taxes"`
	Lines  []QuoteLineInput `json:"lines" binding:"required,max=500,dive"`
}

// LineSummary is one priced line rounded for display
type LineSummary struct {
	Quantity             int64           `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	DiscountedUnitPrice  decimal.Decimal `json:"discounted_unit_price"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	CommissionAmount     decimal.Decimal `json:"commission_amount"`
}

// SummaryResponse is the calculator result rounded to two places for display
type SummaryResponse struct {
	Status          string          `json:"status"`
	Lines           []LineSummary   `json:"lines"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TotalDiscount   decimal.Decimal `json:"total_discount"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	Taxes           decimal.Decimal `json:"taxes"`
	Total           decimal.Decimal `json:"total"`
	ItemCount       int64           `json:"item_count"`
}

// ToSummaryResponse rounds a calculator result. Rounding happens here and
// nowhere before.
func ToSummaryResponse(result pricing.OrderResult) SummaryResponse {
	lines := make([]LineSummary, len(result.Lines))
	for i, l := range result.Lines {
		lines[i] = LineSummary{
			Quantity:             l.Quantity,
			UnitPrice:            l.UnitPrice.Round(2),
			DiscountPercentage:   l.DiscountPercentage.Round(2),
			CommissionPercentage: l.CommissionPercentage.Round(2),
			DiscountedUnitPrice:  l.DiscountedUnitPrice.Round(2),
			Subtotal:             l.Subtotal.Round(2),
			CommissionAmount:     l.CommissionAmount.Round(2),
		}
	}
	return SummaryResponse{
		Status:          string(result.Status),
		Lines:           lines,
		GrossAmount:     result.GrossAmount.Round(2),
		Subtotal:        result.Subtotal.Round(2),
		TotalDiscount:   result.TotalDiscount.Round(2),
		TotalCommission: result.TotalCommission.Round(2),
		Taxes:           result.Taxes.Round(2),
		Total:           result.Total.Round(2),
		ItemCount:       result.ItemCount,
	}
}
