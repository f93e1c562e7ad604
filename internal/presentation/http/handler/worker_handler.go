package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// WorkerHandler handles worker roster HTTP requests
type WorkerHandler struct {
	workerService *service.WorkerService
}

// NewWorkerHandler creates a new worker handler
func NewWorkerHandler(workerService *service.WorkerService) *WorkerHandler {
	return &WorkerHandler{workerService: workerService}
}

// List handles listing the roster
func (h *WorkerHandler) List(c *gin.Context) {
	var params struct {
		Search  string `form:"search"`
		Page    int    `form:"page"`
		PerPage int    `form:"per_page"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	result, err := h.workerService.List(c.Request.Context(), pageParams(params.Page, params.PerPage), params.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Workers retrieved successfully", result)
}

// Get handles getting a single worker
func (h *WorkerHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	worker, err := h.workerService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Worker retrieved successfully", worker)
}

// Add handles adding a worker to the roster
func (h *WorkerHandler) Add(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.AddWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	worker, err := h.workerService.Add(c.Request.Context(), actor, &service.AddWorkerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Worker added successfully", worker)
}

// Update handles editing a worker
func (h *WorkerHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	worker, err := h.workerService.Update(c.Request.Context(), actor, id, &service.UpdateWorkerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		IsActive:  req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Worker updated successfully", worker)
}

// Remove handles removing a worker with no recorded services
func (h *WorkerHandler) Remove(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.workerService.Remove(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Worker removed successfully", nil)
}
