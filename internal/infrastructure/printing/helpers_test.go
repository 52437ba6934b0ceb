package printing

import (
	"testing"
	"time"

	"github.com/filterdesk/backend/internal/domain/printing"
	"github.com/filterdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleDocument(t *testing.T, confirmed, showCommission bool, lines int) *printing.OrderDocument {
	t.Helper()
	order, err := trade.NewOrder("PED-2026-00042", uuid.New(), "Auto Peças São João", "12.345.678/0001-95", uuid.New(), "Maria Souza")
	require.NoError(t, err)
	order.PaymentTerms = "30/60 dias"
	order.Notes = "Entregar pela manhã"

	for i := 0; i < lines; i++ {
		_, err = order.AddItem(trade.ItemInput{
			ProductID:    uuid.New(),
			ProductCode:  "PSL55",
			ProductName:  "Filtro de Óleo Motor 1.0 Flex com descrição longa para testar truncamento",
			ProductBrand: "Tecfil",
			Quantity:     10,
			UnitPrice:    decimal.RequireFromString("100"),
			ItemDiscount: trade.ItemDiscount{
				DiscountPercentage:   decimal.RequireFromString("18.54"),
				CommissionPercentage: decimal.RequireFromString("5"),
			},
		})
		require.NoError(t, err)
	}
	if confirmed {
		require.NoError(t, order.Confirm())
	}

	company := printing.Company{Name: "Distribuidora Filtros Ltda", CNPJ: "11.222.333/0001-81", Phone: "(11) 4000-0000"}
	now := time.Date(2026, 5, 4, 13, 30, 0, 0, time.UTC)
	return printing.BuildOrderDocument(order, company, "https://app.example.com/orders/PED-2026-00042", showCommission, now)
}
