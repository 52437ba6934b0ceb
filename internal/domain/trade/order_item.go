package trade

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDiscount is the discount tier applied to a line, copied from the
// Discount at the time the line is written
type ItemDiscount struct {
	DiscountID           *uuid.UUID
	DiscountPercentage   decimal.Decimal
	CommissionPercentage decimal.Decimal
}

// ItemInput carries the product snapshot for a new line
type ItemInput struct {
	ProductID    uuid.UUID
	ProductCode  string
	ProductName  string
	ProductBrand string
	Quantity     int64
	UnitPrice    decimal.Decimal
	ItemDiscount
}

// OrderItem is one product line of an order
type OrderItem struct {
	ID                   uuid.UUID
	OrderID              uuid.UUID
	ProductID            uuid.UUID
	ProductCode          string
	ProductName          string
	ProductBrand         string
	Quantity             int64
	UnitPrice            decimal.Decimal
	DiscountID           *uuid.UUID
	DiscountPercentage   decimal.Decimal
	CommissionPercentage decimal.Decimal
	Subtotal             decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewOrderItem creates a line for the given order
func NewOrderItem(orderID uuid.UUID, input ItemInput) (*OrderItem, error) {
	if input.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if input.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	item := &OrderItem{
		ID:           uuid.New(),
		OrderID:      orderID,
		ProductID:    input.ProductID,
		ProductCode:  input.ProductCode,
		ProductName:  input.ProductName,
		ProductBrand: input.ProductBrand,
		UnitPrice:    input.UnitPrice,
		CreatedAt:    now,
	}
	if err := item.Update(input.Quantity, input.ItemDiscount); err != nil {
		return nil, err
	}
	return item, nil
}

// Update changes quantity and discount snapshot
func (i *OrderItem) Update(quantity int64, discount ItemDiscount) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	}
	if !valueobject.ValidPercentage(discount.DiscountPercentage) {
		return shared.NewDomainError("INVALID_DISCOUNT_PERCENTAGE", "Discount percentage must be between 0 and 100")
	}
	if !valueobject.ValidPercentage(discount.CommissionPercentage) {
		return shared.NewDomainError("INVALID_COMMISSION_PERCENTAGE", "Commission percentage must be between 0 and 100")
	}
	i.Quantity = quantity
	i.DiscountID = discount.DiscountID
	i.DiscountPercentage = discount.DiscountPercentage
	i.CommissionPercentage = discount.CommissionPercentage
	i.UpdatedAt = time.Now()
	return nil
}

// PricingLine returns the calculator input for this line
func (i *OrderItem) PricingLine() pricing.Line {
	return pricing.Line{
		Quantity:             i.Quantity,
		UnitPrice:            i.UnitPrice,
		DiscountPercentage:   i.DiscountPercentage,
		CommissionPercentage: i.CommissionPercentage,
	}
}
