package export

import (
	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/domain/trade"
)

var orderColumns = []column{
	{"Pedido", 18, styleText},
	{"Status", 12, styleText},
	{"Criado em", 17, styleDate},
	{"Confirmado em", 17, styleDate},
	{"Cliente", 36, styleText},
	{"CNPJ", 20, styleText},
	{"Representante", 24, styleText},
	{"Código", 14, styleText},
	{"Produto", 36, styleText},
	{"Marca", 14, styleText},
	{"Quantidade", 11, styleInteger},
	{"Preço unitário", 14, styleMoney},
	{"Desconto %", 11, stylePercent},
	{"Preço com desconto", 16, styleMoney},
	{"Subtotal", 14, styleMoney},
	{"Comissão %", 11, stylePercent},
	{"Comissão", 14, styleMoney},
}

var statusLabels = map[trade.OrderStatus]string{
	trade.OrderStatusQuotation: "Orçamento",
	trade.OrderStatusConfirmed: "Confirmado",
}

// OrdersWorkbook writes one row per order item. Orders need their items
// loaded. Pricing columns come from the order calculator, so commission is
// zero on quotations.
func OrdersWorkbook(orders []trade.Order) ([]byte, error) {
	s, err := newSheet("Pedidos", orderColumns)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		o := &orders[i]
		result := pricing.CalculateOrder(o.Status, o.PricingLines(), o.Taxes)
		for j := range o.Items {
			item := &o.Items[j]
			line := result.Lines[j]
			if err := s.append(
				o.Number,
				statusLabels[o.Status],
				o.CreatedAt,
				o.ConfirmedAt,
				o.ClientName,
				o.ClientCNPJ,
				o.RepresentativeName,
				item.ProductCode,
				item.ProductName,
				item.ProductBrand,
				item.Quantity,
				item.UnitPrice,
				item.DiscountPercentage,
				line.DiscountedUnitPrice,
				line.Subtotal,
				item.CommissionPercentage,
				line.CommissionAmount,
			); err != nil {
				return nil, err
			}
		}
	}
	return s.bytes()
}
