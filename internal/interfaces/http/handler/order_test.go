package handler

import (
	"bytes"
	"net/http"
	"testing"

	pricingapp "github.com/filterdesk/backend/internal/application/pricing"
	tradeapp "github.com/filterdesk/backend/internal/application/trade"
	"github.com/filterdesk/backend/internal/domain/report"
	"github.com/filterdesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createQuotation opens a quotation for one product at the "4*5" tier
func createQuotation(t *testing.T, env *testEnv) tradeapp.OrderResponse {
	t.Helper()
	client := env.seedClient("Auto Peças Central", "12.345.678/0001-95", env.rep)
	product := env.seedProduct("PSL55", "Tecfil", "100.00")
	tier := env.seedDiscount("4*5", "5.00")

	w := env.do(env.rep, http.MethodPost, "/api/v1/orders", map[string]any{
		"client_id":     client.ID,
		"payment_terms": "28 dias",
		"items": []map[string]any{
			{"product_id": product.ID, "quantity": 10, "discount_id": tier.ID},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order tradeapp.OrderResponse
	decode(t, w, &order)
	return order
}

func TestOrderHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	order := createQuotation(t, env)
	assert.Equal(t, "quotation", order.Status)
	assert.Regexp(t, `^PED-\d{4}-00001$`, order.Number)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "18.54", order.Items[0].DiscountPercentage.String())

	base := "/api/v1/orders/" + order.ID.String()

	t.Run("quotation summary carries no commission", func(t *testing.T) {
		w := env.do(env.rep, http.MethodGet, base+"/summary", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var summary pricingapp.SummaryResponse
		decode(t, w, &summary)
		assert.Equal(t, "814.60", summary.Subtotal.StringFixed(2))
		assert.True(t, summary.TotalCommission.IsZero())
		require.Len(t, summary.Lines, 1)
		assert.Equal(t, "81.46", summary.Lines[0].DiscountedUnitPrice.StringFixed(2))
	})

	t.Run("confirm", func(t *testing.T) {
		w := env.do(env.rep, http.MethodPost, base+"/confirm", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(env.rep, http.MethodGet, base+"/summary", nil)
		var summary pricingapp.SummaryResponse
		decode(t, w, &summary)
		assert.Equal(t, "confirmed", summary.Status)
		assert.Equal(t, "814.60", summary.Total.StringFixed(2))
		assert.Equal(t, "40.73", summary.TotalCommission.StringFixed(2))
	})

	t.Run("confirmed orders are read-only", func(t *testing.T) {
		w := env.do(env.rep, http.MethodPost, base+"/items", map[string]any{
			"product_id": order.Items[0].ProductID,
			"quantity":   1,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w))

		w = env.do(env.rep, http.MethodDelete, base, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = env.do(env.rep, http.MethodPost, base+"/confirm", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("other representatives cannot see it", func(t *testing.T) {
		w := env.do(env.other, http.MethodGet, base, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = env.do(env.other, http.MethodGet, "/api/v1/orders", nil)
		var orders []tradeapp.OrderResponse
		decode(t, w, &orders)
		assert.Empty(t, orders)
	})

	t.Run("dashboard reflects the confirmed order", func(t *testing.T) {
		w := env.do(env.admin, http.MethodGet, "/api/v1/stats/dashboard", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var stats report.DashboardStats
		decode(t, w, &stats)
		assert.Equal(t, "814.60", stats.ConfirmedRevenue.StringFixed(2))
		assert.Equal(t, "40.73", stats.TotalCommission.StringFixed(2))

		w = env.do(env.other, http.MethodGet, "/api/v1/stats/dashboard", nil)
		decode(t, w, &stats)
		assert.True(t, stats.ConfirmedRevenue.IsZero())
	})
}

func TestOrderHandler_Items(t *testing.T) {
	env := newTestEnv(t)
	order := createQuotation(t, env)
	base := "/api/v1/orders/" + order.ID.String()
	itemPath := base + "/items/" + order.Items[0].ID.String()

	t.Run("update quantity", func(t *testing.T) {
		w := env.do(env.rep, http.MethodPut, itemPath, map[string]any{"quantity": 20, "discount_id": order.Items[0].DiscountID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var updated tradeapp.OrderResponse
		decode(t, w, &updated)
		assert.Equal(t, "1629.20", updated.Subtotal.StringFixed(2))
	})

	t.Run("representatives cannot set custom percentages", func(t *testing.T) {
		w := env.do(env.rep, http.MethodPut, itemPath, map[string]any{"quantity": 1, "discount_percentage": "50"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("quantity is required", func(t *testing.T) {
		w := env.do(env.rep, http.MethodPut, itemPath, map[string]any{"quantity": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("remove item", func(t *testing.T) {
		w := env.do(env.rep, http.MethodDelete, itemPath, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var updated tradeapp.OrderResponse
		decode(t, w, &updated)
		assert.Empty(t, updated.Items)

		w = env.do(env.rep, http.MethodDelete, itemPath, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("empty quotation cannot be confirmed", func(t *testing.T) {
		w := env.do(env.rep, http.MethodPost, base+"/confirm", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("delete quotation", func(t *testing.T) {
		w := env.do(env.rep, http.MethodDelete, base, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(env.rep, http.MethodGet, base, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_Documents(t *testing.T) {
	env := newTestEnv(t)
	order := createQuotation(t, env)
	base := "/api/v1/orders/" + order.ID.String()

	t.Run("print view", func(t *testing.T) {
		w := env.do(env.rep, http.MethodGet, base+"/print?commission=true", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), order.Number)
		assert.Contains(t, w.Body.String(), "814,60")
	})

	t.Run("gofpdf", func(t *testing.T) {
		w := env.do(env.rep, http.MethodGet, base+"/pdf?engine=gofpdf", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), order.Number+".pdf")
		assert.Equal(t, "gofpdf", w.Header().Get("X-PDF-Engine"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("engine not configured", func(t *testing.T) {
		w := env.do(env.rep, http.MethodGet, base+"/pdf?engine=chromedp", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "ERR_ENGINE_UNAVAILABLE", errorCode(t, w))
	})

	t.Run("unknown engine", func(t *testing.T) {
		w := env.do(env.rep, http.MethodGet, base+"/pdf?engine=wkhtmltopdf", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("spreadsheet export", func(t *testing.T) {
		w := env.do(env.rep, http.MethodGet, "/api/v1/orders/export.xlsx", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, XLSXContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "pedidos-")
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
	})
}

func TestPricingHandler_Quote(t *testing.T) {
	env := newTestEnv(t)
	line := map[string]any{
		"quantity":              10,
		"unit_price":            "100.00",
		"discount_percentage":   "18.54",
		"commission_percentage": "5.00",
	}

	w := env.do(env.rep, http.MethodPost, "/api/v1/pricing/quote", map[string]any{
		"status": "confirmed",
		"lines":  []map[string]any{line},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary pricingapp.SummaryResponse
	decode(t, w, &summary)
	assert.Equal(t, "814.60", summary.Total.StringFixed(2))
	assert.Equal(t, "40.73", summary.TotalCommission.StringFixed(2))

	w = env.do(env.rep, http.MethodPost, "/api/v1/pricing/quote", map[string]any{
		"lines": []map[string]any{line},
	})
	decode(t, w, &summary)
	assert.True(t, summary.TotalCommission.IsZero())

	w = env.do(env.rep, http.MethodPost, "/api/v1/pricing/quote", map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
