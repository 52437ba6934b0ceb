package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/filterdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func sampleOrder(t *testing.T, confirm bool) trade.Order {
	t.Helper()
	o, err := trade.NewOrder("PED-2026-00001", uuid.New(), "Auto Peças Silva", "12.345.678/0001-90", uuid.New(), "Ana")
	require.NoError(t, err)
	_, err = o.AddItem(trade.ItemInput{
		ProductID:   uuid.New(),
		ProductCode: "PSL-55",
		ProductName: "Filtro de óleo",
		Quantity:    10,
		UnitPrice:   decimal.RequireFromString("100.00"),
		ItemDiscount: trade.ItemDiscount{
			DiscountPercentage:   decimal.RequireFromString("18.54"),
			CommissionPercentage: decimal.RequireFromString("5"),
		},
	})
	require.NoError(t, err)
	if confirm {
		require.NoError(t, o.Confirm())
	}
	return *o
}

func TestOrdersWorkbook(t *testing.T) {
	data, err := OrdersWorkbook([]trade.Order{sampleOrder(t, true), sampleOrder(t, false)})
	require.NoError(t, err)

	rows := readRows(t, data, "Pedidos")
	require.Len(t, rows, 3)
	assert.Equal(t, "Pedido", rows[0][0])
	assert.Equal(t, "Comissão", rows[0][16])

	confirmed := rows[1]
	assert.Equal(t, "Confirmado", confirmed[1])
	assert.Equal(t, "PSL-55", confirmed[7])
	assert.Equal(t, "10", confirmed[10])
	assert.Equal(t, "814.60", confirmed[14])
	assert.Equal(t, "40.73", confirmed[16])

	quotation := rows[2]
	assert.Equal(t, "Orçamento", quotation[1])
	assert.Equal(t, "0.00", quotation[16])
}

func TestOrdersWorkbook_Empty(t *testing.T) {
	data, err := OrdersWorkbook(nil)
	require.NoError(t, err)
	rows := readRows(t, data, "Pedidos")
	require.Len(t, rows, 1)
}

func TestProductsWorkbook(t *testing.T) {
	p, err := catalog.NewProduct(catalog.ProductInfo{
		Code:      "PSL-55",
		Name:      "Filtro de óleo",
		Brand:     "Tecfil",
		UnitPrice: decimal.RequireFromString("42.5"),
	})
	require.NoError(t, err)

	data, err := ProductsWorkbook([]catalog.Product{*p})
	require.NoError(t, err)

	rows := readRows(t, data, "Produtos")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Código", "Produto", "Marca"}, rows[0][:3])
	assert.Equal(t, "PSL-55", rows[1][0])
	assert.Equal(t, "42.50", rows[1][7])
	assert.Equal(t, "Sim", rows[1][8])
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "pedidos-20260315-1430.xlsx", FileName("pedidos", now))
}
