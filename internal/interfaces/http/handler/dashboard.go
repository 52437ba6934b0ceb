package handler

import (
	reportapp "github.com/filterdesk/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the dashboard figures
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Dashboard handles GET /api/v1/stats/dashboard. Representatives get figures
// for their own orders and clients only.
//
// @ID           getDashboard
// @Summary      Dashboard figures
// @Description  Representatives get figures for their own orders and clients only
// @Tags         stats
// @Produce      json
// @Success      200 {object} SuccessResponse{data=object}
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /stats/dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stats, err := h.dashboardService.Dashboard(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
