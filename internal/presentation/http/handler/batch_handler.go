package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// BatchHandler handles product batch HTTP requests
type BatchHandler struct {
	inventory *service.InventoryService
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(inventory *service.InventoryService) *BatchHandler {
	return &BatchHandler{inventory: inventory}
}

// List handles listing batches
func (h *BatchHandler) List(c *gin.Context) {
	var filter request.BatchFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	result, err := h.inventory.ListBatches(c.Request.Context(), pageParams(filter.Page, filter.PerPage), filter.Search, filter.InStock)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Batches retrieved successfully", result)
}

// Available lists sellable batches in FIFO order, net of the caller's holds
func (h *BatchHandler) Available(c *gin.Context) {
	holds, err := parseHolds(c.QueryArray("hold"))
	if err != nil {
		response.Error(c, err)
		return
	}

	batches, err := h.inventory.FindAvailable(c.Request.Context(), c.Query("q"), holds)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Available batches retrieved successfully", batches)
}

// Get handles getting a single batch
func (h *BatchHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	batch, err := h.inventory.GetBatch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Batch retrieved successfully", batch)
}

// Create handles recording a new batch
func (h *BatchHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	batch, err := h.inventory.CreateBatch(c.Request.Context(), actor, toBatchInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Batch created successfully", batch)
}

// Update handles correcting a batch
func (h *BatchHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	batch, err := h.inventory.UpdateBatch(c.Request.Context(), actor, id, toBatchInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Batch updated successfully", batch)
}

// Delete handles removing a batch
func (h *BatchHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.inventory.DeleteBatch(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Batch deleted successfully", nil)
}

func toBatchInput(req *request.BatchRequest) *service.BatchInput {
	return &service.BatchInput{
		Name:      req.Name,
		UnitCost:  req.UnitCost,
		UnitPrice: req.UnitPrice,
		Remaining: req.Remaining,
		IntakeAt:  req.IntakeAt,
	}
}
