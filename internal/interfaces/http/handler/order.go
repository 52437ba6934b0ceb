package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	printapp "github.com/filterdesk/backend/internal/application/printing"
	tradeapp "github.com/filterdesk/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles quotations and confirmed orders
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
	printService *printapp.PrintService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, printService *printapp.PrintService) *OrderHandler {
	return &OrderHandler{orderService: orderService, printService: printService}
}

// List handles GET /api/v1/orders
//
// @ID           listOrders
// @Summary      List orders
// @Description  Representatives only see their own orders
// @Tags         orders
// @Produce      json
// @Param        search query string false "Search term"
// @Param        status query string false "Order status"
// @Param        client_id query string false "Client ID"
// @Param        representative_id query string false "Representative ID"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction"
// @Success      200 {object} APIResponse[[]tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.orderService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID handles GET /api/v1/orders/:id
//
// @ID           getOrder
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Summary handles GET /api/v1/orders/:id/summary
//
// @ID           getOrderSummary
// @Summary      Order totals
// @Tags         orders
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} APIResponse[pricingapp.SummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id}/summary [get]
func (h *OrderHandler) Summary(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	summary, err := h.orderService.Summary(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Create handles POST /api/v1/orders. New orders start as quotations.
//
// @ID           createOrder
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderInput true "Order data"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input tradeapp.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update handles PUT /api/v1/orders/:id
//
// @ID           updateOrder
// @Summary      Update an order
// @Description  Only quotations can be changed
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body tradeapp.UpdateOrderInput true "Order data"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var input tradeapp.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	order, err := h.orderService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /api/v1/orders/:id
//
// @ID           deleteOrder
// @Summary      Delete an order
// @Description  Only quotations can be deleted
// @Tags         orders
// @Param        id path string true "ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddItem handles POST /api/v1/orders/:id/items
//
// @ID           addOrderItem
// @Summary      Add an item
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body tradeapp.OrderItemInput true "Item"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id}/items [post]
func (h *OrderHandler) AddItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var input tradeapp.OrderItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	order, err := h.orderService.AddItem(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// UpdateItem handles PUT /api/v1/orders/:id/items/:itemId
//
// @ID           updateOrderItem
// @Summary      Update an item
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        itemId path string true "Item ID" format(uuid)
// @Param        request body tradeapp.UpdateItemInput true "Item changes"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id}/items/{itemId} [put]
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "itemId")
	if !ok {
		return
	}
	var input tradeapp.UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	order, err := h.orderService.UpdateItem(c.Request.Context(), actor, id, itemID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveItem handles DELETE /api/v1/orders/:id/items/:itemId
//
// @ID           removeOrderItem
// @Summary      Remove an item
// @Tags         orders
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        itemId path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id}/items/{itemId} [delete]
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "itemId")
	if !ok {
		return
	}
	order, err := h.orderService.RemoveItem(c.Request.Context(), actor, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Confirm handles POST /api/v1/orders/:id/confirm
//
// @ID           confirmOrder
// @Summary      Confirm an order
// @Description  Turns a quotation into a confirmed order
// @Tags         orders
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Confirm(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Print handles GET /api/v1/orders/:id/print and answers the HTML print view
//
// @ID           printOrder
// @Summary      Printable order
// @Description  HTML print view of the order
// @Tags         orders
// @Produce      html
// @Param        id path string true "ID" format(uuid)
// @Param        commission query boolean false "Print the commission column"
// @Success      200 {string} string "HTML document"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id}/print [get]
func (h *OrderHandler) Print(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req printapp.HTMLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	html, err := h.printService.PrintHTML(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// PDF handles GET /api/v1/orders/:id/pdf?engine=chromedp|gofpdf
//
// @ID           downloadOrderPDF
// @Summary      Order PDF
// @Description  Renders the order with the chosen engine
// @Tags         orders
// @Produce      application/pdf
// @Param        id path string true "ID" format(uuid)
// @Param        engine query string false "Rendering engine"
// @Param        paper query string false "Paper size"
// @Param        landscape query boolean false "Landscape orientation"
// @Param        commission query boolean false "Print the commission column"
// @Success      200 {file} binary "PDF file"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/{id}/pdf [get]
func (h *OrderHandler) PDF(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req printapp.PDFRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	doc, err := h.printService.GeneratePDF(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("X-PDF-Engine", doc.Engine)
	c.Header("X-PDF-Pages", strconv.Itoa(doc.PageCount))
	if doc.ArchiveKey != "" {
		c.Header("X-Archive-Key", doc.ArchiveKey)
	}
	attachment(c, doc.FileName, "application/pdf", doc.Data)
}

// Export handles GET /api/v1/orders/export.xlsx with the list filters
//
// @ID           exportOrders
// @Summary      Export orders
// @Description  Spreadsheet of the orders matching the list filters
// @Tags         orders
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        search query string false "Search term"
// @Param        status query string false "Order status"
// @Param        client_id query string false "Client ID"
// @Param        representative_id query string false "Representative ID"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {file} binary "Spreadsheet"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /orders/export.xlsx [get]
func (h *OrderHandler) Export(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	data, err := h.orderService.Export(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	attachment(c, fmt.Sprintf("pedidos-%s.xlsx", time.Now().Format("20060102")), XLSXContentType, data)
}
