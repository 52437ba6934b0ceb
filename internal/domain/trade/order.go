package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is shared with the pricing calculator
type OrderStatus = pricing.OrderStatus

const (
	OrderStatusQuotation = pricing.StatusQuotation
	OrderStatusConfirmed = pricing.StatusConfirmed
)

// OrderNumberPrefix starts every order number
const OrderNumberPrefix = "PED"

// FormatOrderNumber renders PED-YYYY-NNNNN
func FormatOrderNumber(year, seq int) string {
	return fmt.Sprintf("%s-%04d-%05d", OrderNumberPrefix, year, seq)
}

// Order is a quotation or a confirmed sale to one client.
// Client and representative names are copied at creation so later edits to
// those records do not change printed documents.
type Order struct {
	shared.BaseEntity
	Number             string
	ClientID           uuid.UUID
	ClientName         string
	ClientCNPJ         string
	RepresentativeID   uuid.UUID
	RepresentativeName string
	Status             OrderStatus
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	Taxes              decimal.Decimal
	Total              decimal.Decimal
	Commission         decimal.Decimal
	Notes              string
	PaymentTerms       string
	ConfirmedAt        *time.Time
	Items              []OrderItem
}

// NewOrder creates an empty quotation
func NewOrder(number string, clientID uuid.UUID, clientName, clientCNPJ string, representativeID uuid.UUID, representativeName string) (*Order, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if representativeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REPRESENTATIVE", "Representative ID cannot be empty")
	}

	return &Order{
		BaseEntity:         shared.NewBaseEntity(),
		Number:             number,
		ClientID:           clientID,
		ClientName:         clientName,
		ClientCNPJ:         clientCNPJ,
		RepresentativeID:   representativeID,
		RepresentativeName: representativeName,
		Status:             OrderStatusQuotation,
		Subtotal:           decimal.Zero,
		Discount:           decimal.Zero,
		Taxes:              decimal.Zero,
		Total:              decimal.Zero,
		Commission:         decimal.Zero,
		Items:              make([]OrderItem, 0),
	}, nil
}

// SetTerms sets free-text notes and payment terms
func (o *Order) SetTerms(notes, paymentTerms string) error {
	if len(notes) > 2000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 2000 characters")
	}
	if len(paymentTerms) > 200 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot exceed 200 characters")
	}
	o.Notes = strings.TrimSpace(notes)
	o.PaymentTerms = strings.TrimSpace(paymentTerms)
	o.Touch()
	return nil
}

// SetTaxes sets the tax amount added on top of the subtotal
func (o *Order) SetTaxes(taxes decimal.Decimal) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change taxes of a confirmed order")
	}
	if taxes.IsNegative() {
		return shared.NewDomainError("INVALID_TAXES", "Taxes cannot be negative")
	}
	o.Taxes = taxes
	o.Recalculate()
	return nil
}

// AddItem appends a line to a quotation
func (o *Order) AddItem(input ItemInput) (*OrderItem, error) {
	if !o.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a confirmed order")
	}
	item, err := NewOrderItem(o.ID, input)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.Recalculate()
	return &o.Items[len(o.Items)-1], nil
}

// UpdateItem changes the quantity and discount of a line
func (o *Order) UpdateItem(itemID uuid.UUID, quantity int64, discount ItemDiscount) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items of a confirmed order")
	}
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if err := item.Update(quantity, discount); err != nil {
		return err
	}
	o.Recalculate()
	return nil
}

// RemoveItem deletes a line from a quotation
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a confirmed order")
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.Recalculate()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// Confirm turns the quotation into a sale. Confirmation is one-way.
func (o *Order) Confirm() error {
	if o.Status != OrderStatusQuotation {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.Recalculate()
	return nil
}

// PricingLines returns the calculator input of every line
func (o *Order) PricingLines() []pricing.Line {
	lines := make([]pricing.Line, len(o.Items))
	for i := range o.Items {
		lines[i] = o.Items[i].PricingLine()
	}
	return lines
}

// Summary runs the pricing calculator over the current lines
func (o *Order) Summary() pricing.OrderResult {
	return pricing.CalculateOrder(o.Status, o.PricingLines(), o.Taxes)
}

// Recalculate refreshes stored totals and line subtotals from the calculator
func (o *Order) Recalculate() {
	result := o.Summary()
	for i := range o.Items {
		o.Items[i].Subtotal = result.Lines[i].Subtotal
	}
	o.Subtotal = result.Subtotal
	o.Discount = result.TotalDiscount
	o.Commission = result.TotalCommission
	o.Total = result.Total
	o.Touch()
}

// CanModify returns true while the order is a quotation
func (o *Order) CanModify() bool {
	return o.Status == OrderStatusQuotation
}

// IsConfirmed returns true for confirmed sales
func (o *Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// IsOwnedBy reports whether the representative created the order
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.RepresentativeID == userID
}

// GetItem returns the line with the given ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// TotalQuantity sums the quantities of all lines
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
