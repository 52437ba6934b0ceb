package printing

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/domain/shared/valueobject"
	"github.com/filterdesk/backend/internal/domain/trade"
)

// DocumentLine is one printed order line with display-ready values
type DocumentLine struct {
	Position            int
	ProductCode         string
	ProductName         string
	ProductBrand        string
	Quantity            int64
	UnitPrice           string
	DiscountPercentage  string
	DiscountedUnitPrice string
	Subtotal            string
	CommissionAmount    string
}

// OrderDocument is what every print target renders. Amounts are formatted
// from the calculator result and rounded only here.
type OrderDocument struct {
	Company            Company
	Title              string
	Number             string
	Status             string
	StatusLabel        string
	IssuedAt           time.Time
	ConfirmedAt        *time.Time
	ClientName         string
	ClientCNPJ         string
	RepresentativeName string
	PaymentTerms       string
	Notes              string
	Lines              []DocumentLine
	GrossAmount        string
	TotalDiscount      string
	Subtotal           string
	Taxes              string
	Total              string
	TotalCommission    string
	ShowCommission     bool
	ItemCount          int64
	VerificationURL    string
	GeneratedAt        time.Time
}

// StatusLabel is the Portuguese label printed for a status
func StatusLabel(status trade.OrderStatus) string {
	switch status {
	case trade.OrderStatusConfirmed:
		return "Pedido Confirmado"
	default:
		return "Orçamento"
	}
}

// BuildOrderDocument formats an order for printing. Commission columns are
// only shown to internal readers (showCommission).
func BuildOrderDocument(order *trade.Order, company Company, verificationURL string, showCommission bool, now time.Time) *OrderDocument {
	summary := order.Summary()
	return buildFromSummary(order, summary, company, verificationURL, showCommission, now)
}

func buildFromSummary(order *trade.Order, summary pricing.OrderResult, company Company, verificationURL string, showCommission bool, now time.Time) *OrderDocument {
	doc := &OrderDocument{
		Company:            company,
		Title:              StatusLabel(order.Status) + " " + order.Number,
		Number:             order.Number,
		Status:             string(order.Status),
		StatusLabel:        StatusLabel(order.Status),
		IssuedAt:           order.CreatedAt,
		ConfirmedAt:        order.ConfirmedAt,
		ClientName:         order.ClientName,
		ClientCNPJ:         order.ClientCNPJ,
		RepresentativeName: order.RepresentativeName,
		PaymentTerms:       order.PaymentTerms,
		Notes:              order.Notes,
		Lines:              make([]DocumentLine, len(order.Items)),
		GrossAmount:        valueobject.FormatBRL(summary.GrossAmount),
		TotalDiscount:      valueobject.FormatBRL(summary.TotalDiscount),
		Subtotal:           valueobject.FormatBRL(summary.Subtotal),
		Taxes:              valueobject.FormatBRL(summary.Taxes),
		Total:              valueobject.FormatBRL(summary.Total),
		TotalCommission:    valueobject.FormatBRL(summary.TotalCommission),
		ShowCommission:     showCommission,
		ItemCount:          summary.ItemCount,
		VerificationURL:    verificationURL,
		GeneratedAt:        now,
	}

	for i, item := range order.Items {
		line := summary.Lines[i]
		doc.Lines[i] = DocumentLine{
			Position:            i + 1,
			ProductCode:         item.ProductCode,
			ProductName:         item.ProductName,
			ProductBrand:        item.ProductBrand,
			Quantity:            item.Quantity,
			UnitPrice:           valueobject.FormatBRL(item.UnitPrice),
			DiscountPercentage:  valueobject.FormatPercent(item.DiscountPercentage),
			DiscountedUnitPrice: valueobject.FormatBRL(line.DiscountedUnitPrice),
			Subtotal:            valueobject.FormatBRL(line.Subtotal),
			CommissionAmount:    valueobject.FormatBRL(line.CommissionAmount),
		}
	}
	return doc
}
