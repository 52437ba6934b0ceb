// Package pricing holds the single price, discount and commission calculation
// used by order summaries, print views and PDF documents.
package pricing

import (
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order as seen by the calculator
type OrderStatus string

const (
	StatusQuotation OrderStatus = "quotation"
	StatusConfirmed OrderStatus = "confirmed"
)

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	return s == StatusQuotation || s == StatusConfirmed
}

// AccruesCommission reports whether lines of an order in this status earn commission
func (s OrderStatus) AccruesCommission() bool {
	return s == StatusConfirmed
}

// Line is one priced order line. Zero percentages mean "no discount" and
// "no commission".
type Line struct {
	Quantity             int64
	UnitPrice            decimal.Decimal
	DiscountPercentage   decimal.Decimal
	CommissionPercentage decimal.Decimal
}

// LineResult carries the computed amounts of a line. Amounts are exact; round
// only when rendering.
type LineResult struct {
	Line
	DiscountedUnitPrice decimal.Decimal
	GrossAmount         decimal.Decimal // quantity x list price
	DiscountAmount      decimal.Decimal // (list - discounted) x quantity
	Subtotal            decimal.Decimal
	CommissionAmount    decimal.Decimal
}

// OrderResult aggregates the lines of one order
type OrderResult struct {
	Status          OrderStatus
	Lines           []LineResult
	GrossAmount     decimal.Decimal
	Subtotal        decimal.Decimal
	TotalDiscount   decimal.Decimal
	TotalCommission decimal.Decimal
	Taxes           decimal.Decimal
	Total           decimal.Decimal
	ItemCount       int64
}

// percentOf returns amount x pct / 100 without going through division
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Shift(-2)
}

// CalculateLine prices a single line. Commission is computed on the
// discounted subtotal and only for confirmed orders.
func CalculateLine(line Line, status OrderStatus) LineResult {
	qty := decimal.NewFromInt(line.Quantity)

	discounted := line.UnitPrice.Sub(percentOf(line.UnitPrice, line.DiscountPercentage))
	subtotal := qty.Mul(discounted)
	gross := qty.Mul(line.UnitPrice)

	commission := decimal.Zero
	if status.AccruesCommission() {
		commission = percentOf(subtotal, line.CommissionPercentage)
	}

	return LineResult{
		Line:                line,
		DiscountedUnitPrice: discounted,
		GrossAmount:         gross,
		DiscountAmount:      line.UnitPrice.Sub(discounted).Mul(qty),
		Subtotal:            subtotal,
		CommissionAmount:    commission,
	}
}

// CalculateOrder prices every line and sums the order totals.
// total = subtotal + taxes.
func CalculateOrder(status OrderStatus, lines []Line, taxes decimal.Decimal) OrderResult {
	result := OrderResult{
		Status:          status,
		Lines:           make([]LineResult, 0, len(lines)),
		GrossAmount:     decimal.Zero,
		Subtotal:        decimal.Zero,
		TotalDiscount:   decimal.Zero,
		TotalCommission: decimal.Zero,
		Taxes:           taxes,
	}

	for _, line := range lines {
		lr := CalculateLine(line, status)
		result.Lines = append(result.Lines, lr)
		result.GrossAmount = result.GrossAmount.Add(lr.GrossAmount)
		result.Subtotal = result.Subtotal.Add(lr.Subtotal)
		result.TotalDiscount = result.TotalDiscount.Add(lr.DiscountAmount)
		result.TotalCommission = result.TotalCommission.Add(lr.CommissionAmount)
		result.ItemCount += line.Quantity
	}

	result.Total = result.Subtotal.Add(taxes)
	return result
}
