package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// GratuityHandler handles gratuity balance and delivery HTTP requests
type GratuityHandler struct {
	gratuityService *service.GratuityService
}

// NewGratuityHandler creates a new gratuity handler
func NewGratuityHandler(gratuityService *service.GratuityService) *GratuityHandler {
	return &GratuityHandler{gratuityService: gratuityService}
}

// Balances returns every worker's pending gratuity
func (h *GratuityHandler) Balances(c *gin.Context) {
	sheet, err := h.gratuityService.Balances(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithWarnings(c, 200, "Balances retrieved successfully", sheet.Balances, sheet.Warnings)
}

// ListDeliveries returns the delivery history, optionally for one worker
func (h *GratuityHandler) ListDeliveries(c *gin.Context) {
	var workerID *uuid.UUID
	if raw := c.Query("worker_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid worker_id format")
			return
		}
		workerID = &id
	}

	params := pageParams(0, 0)
	if err := c.ShouldBindQuery(params); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}
	params.Validate()

	result, err := h.gratuityService.ListDeliveries(c.Request.Context(), params, workerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Deliveries retrieved successfully", result)
}

// Deliver records a gratuity handover
func (h *GratuityHandler) Deliver(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.DeliverGratuityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	entry, err := h.gratuityService.Deliver(c.Request.Context(), actor, &service.DeliverInput{
		WorkerID: req.WorkerID,
		Amount:   req.Amount,
		Note:     req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Gratuity delivered successfully", entry)
}
