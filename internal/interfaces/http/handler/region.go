package handler

import (
	regionapp "github.com/filterdesk/backend/internal/application/region"
	"github.com/gin-gonic/gin"
)

// RegionHandler handles sales regions
type RegionHandler struct {
	BaseHandler
	regionService *regionapp.RegionService
}

// NewRegionHandler creates a new RegionHandler
func NewRegionHandler(regionService *regionapp.RegionService) *RegionHandler {
	return &RegionHandler{regionService: regionService}
}

// List handles GET /api/v1/regions
//
// @ID           listRegions
// @Summary      List regions
// @Tags         regions
// @Produce      json
// @Param        search query string false "Search term"
// @Param        active query boolean false "Active flag"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]regionapp.RegionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /regions [get]
func (h *RegionHandler) List(c *gin.Context) {
	var filter regionapp.RegionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.regionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID handles GET /api/v1/regions/:id
//
// @ID           getRegion
// @Summary      Get a region
// @Tags         regions
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} APIResponse[regionapp.RegionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /regions/{id} [get]
func (h *RegionHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	region, err := h.regionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, region)
}

// Create handles POST /api/v1/regions
//
// @ID           createRegion
// @Summary      Create a region
// @Tags         regions
// @Accept       json
// @Produce      json
// @Param        request body regionapp.RegionInput true "Region data"
// @Success      201 {object} APIResponse[regionapp.RegionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /regions [post]
func (h *RegionHandler) Create(c *gin.Context) {
	var input regionapp.RegionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	region, err := h.regionService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, region)
}

// Update handles PUT /api/v1/regions/:id
//
// @ID           updateRegion
// @Summary      Update a region
// @Tags         regions
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body regionapp.RegionInput true "Region data"
// @Success      200 {object} APIResponse[regionapp.RegionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /regions/{id} [put]
func (h *RegionHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var input regionapp.RegionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	region, err := h.regionService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, region)
}

// Activate handles POST /api/v1/regions/:id/activate
//
// @ID           activateRegion
// @Summary      Activate a region
// @Tags         regions
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} APIResponse[regionapp.RegionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /regions/{id}/activate [post]
func (h *RegionHandler) Activate(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	region, err := h.regionService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, region)
}

// Deactivate handles POST /api/v1/regions/:id/deactivate
//
// @ID           deactivateRegion
// @Summary      Deactivate a region
// @Tags         regions
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} APIResponse[regionapp.RegionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /regions/{id}/deactivate [post]
func (h *RegionHandler) Deactivate(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	region, err := h.regionService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, region)
}
