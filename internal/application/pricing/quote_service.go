package pricing

import (
	"context"

	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// QuoteService prices ad-hoc lines for the order entry screen without
// persisting anything
type QuoteService struct {
	productRepo  catalog.ProductRepository
	discountRepo pricing.DiscountRepository
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(productRepo catalog.ProductRepository, discountRepo pricing.DiscountRepository) *QuoteService {
	return &QuoteService{productRepo: productRepo, discountRepo: discountRepo}
}

// Quote resolves product prices and tier percentages and runs the calculator
func (s *QuoteService) Quote(ctx context.Context, input QuoteInput) (*SummaryResponse, error) {
	status := pricing.StatusQuotation
	if input.Status != "" {
		status = pricing.OrderStatus(input.Status)
	}

	lines := make([]pricing.Line, len(input.Lines))
	for i, in := range input.Lines {
		line, err := s.resolveLine(ctx, in)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}

	taxes := decimal.Zero
	if input.Taxes != nil {
		taxes = *input.Taxes
	}

	resp := ToSummaryResponse(pricing.CalculateOrder(status, lines, taxes))
	return &resp, nil
}

func (s *QuoteService) resolveLine(ctx context.Context, in QuoteLineInput) (pricing.Line, error) {
	line := pricing.Line{Quantity: in.Quantity}

	switch {
	case in.UnitPrice != nil:
		line.UnitPrice = *in.UnitPrice
	case in.ProductID != nil:
		product, err := s.productRepo.FindByID(ctx, *in.ProductID)
		if err != nil {
			return line, err
		}
		line.UnitPrice = product.UnitPrice
	}

	if in.DiscountID != nil {
		discount, err := s.discountRepo.FindByID(ctx, *in.DiscountID)
		if err != nil {
			return line, err
		}
		line.DiscountPercentage = discount.DiscountPercentage
		line.CommissionPercentage = discount.CommissionPercentage
	}
	if in.DiscountPercentage != nil {
		line.DiscountPercentage = *in.DiscountPercentage
	}
	if in.CommissionPercentage != nil {
		line.CommissionPercentage = *in.CommissionPercentage
	}
	return line, nil
}
