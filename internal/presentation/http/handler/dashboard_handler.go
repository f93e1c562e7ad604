package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Admin handles the admin's weekly statistics
func (h *DashboardHandler) Admin(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Admin(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// Worker handles a worker's own figures. Without worker_id the caller's
// own dashboard is returned.
func (h *DashboardHandler) Worker(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	workerID := actor.ID
	if raw := c.Query("worker_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid worker_id format")
			return
		}
		workerID = id
	}

	stats, err := h.dashboardService.Worker(c.Request.Context(), actor, workerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
