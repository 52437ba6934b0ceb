package handler

import (
	pricingapp "github.com/filterdesk/backend/internal/application/pricing"
	"github.com/gin-gonic/gin"
)

// DiscountHandler handles discount tiers
type DiscountHandler struct {
	BaseHandler
	discountService *pricingapp.DiscountService
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(discountService *pricingapp.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// List handles GET /api/v1/discounts
//
// @ID           listDiscounts
// @Summary      List discounts
// @Tags         discounts
// @Produce      json
// @Param        search query string false "Search term"
// @Param        active query boolean false "Active flag"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]pricingapp.DiscountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /discounts [get]
func (h *DiscountHandler) List(c *gin.Context) {
	var filter pricingapp.DiscountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.discountService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID handles GET /api/v1/discounts/:id
//
// @ID           getDiscount
// @Summary      Get a discount
// @Tags         discounts
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} APIResponse[pricingapp.DiscountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /discounts/{id} [get]
func (h *DiscountHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	discount, err := h.discountService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, discount)
}

// Create handles POST /api/v1/discounts
//
// @ID           createDiscount
// @Summary      Create a discount
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.DiscountInput true "Discount data"
// @Success      201 {object} APIResponse[pricingapp.DiscountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /discounts [post]
func (h *DiscountHandler) Create(c *gin.Context) {
	var input pricingapp.DiscountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	discount, err := h.discountService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, discount)
}

// Update handles PUT /api/v1/discounts/:id
//
// @ID           updateDiscount
// @Summary      Update a discount
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body pricingapp.DiscountInput true "Discount data"
// @Success      200 {object} APIResponse[pricingapp.DiscountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /discounts/{id} [put]
func (h *DiscountHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var input pricingapp.DiscountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	discount, err := h.discountService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, discount)
}

// Activate handles POST /api/v1/discounts/:id/activate
//
// @ID           activateDiscount
// @Summary      Activate a discount
// @Tags         discounts
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} APIResponse[pricingapp.DiscountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /discounts/{id}/activate [post]
func (h *DiscountHandler) Activate(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	discount, err := h.discountService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, discount)
}

// Deactivate handles POST /api/v1/discounts/:id/deactivate
//
// @ID           deactivateDiscount
// @Summary      Deactivate a discount
// @Tags         discounts
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} APIResponse[pricingapp.DiscountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /discounts/{id}/deactivate [post]
func (h *DiscountHandler) Deactivate(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	discount, err := h.discountService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, discount)
}

// PricingHandler serves ad-hoc pricing previews
type PricingHandler struct {
	BaseHandler
	quoteService *pricingapp.QuoteService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(quoteService *pricingapp.QuoteService) *PricingHandler {
	return &PricingHandler{quoteService: quoteService}
}

// Quote handles POST /api/v1/pricing/quote. It prices lines without saving
// anything, with the same calculator as orders and documents.
//
// @ID           quotePricing
// @Summary      Price lines
// @Description  Prices lines without saving anything
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.QuoteInput true "Lines to price"
// @Success      200 {object} APIResponse[pricingapp.SummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var input pricingapp.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	summary, err := h.quoteService.Quote(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
