package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ClosingHandler handles daily and weekly closing HTTP requests
type ClosingHandler struct {
	closingService *service.ClosingService
	printerService *service.PrinterService
}

// NewClosingHandler creates a new closing handler
func NewClosingHandler(closingService *service.ClosingService, printerService *service.PrinterService) *ClosingHandler {
	return &ClosingHandler{closingService: closingService, printerService: printerService}
}

// List handles the closing history
func (h *ClosingHandler) List(c *gin.Context) {
	var filter request.ClosingFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	var kind *enum.ClosingKind
	switch filter.Kind {
	case "daily":
		k := enum.ClosingKindDaily
		kind = &k
	case "weekly":
		k := enum.ClosingKindWeekly
		kind = &k
	}

	result, err := h.closingService.List(c.Request.Context(), pageParams(filter.Page, filter.PerPage), kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Closings retrieved successfully", result)
}

// Get handles getting a single closing record
func (h *ClosingHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.closingService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Closing retrieved successfully", record)
}

// Daily runs the daily closing
func (h *ClosingHandler) Daily(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.closingService.Daily(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Daily closing completed", result)
}

// PreviewWeekly shows what a weekly closing would settle now
func (h *ClosingHandler) PreviewWeekly(c *gin.Context) {
	preview, err := h.closingService.PreviewWeekly(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithWarnings(c, 200, "Weekly preview computed", preview, preview.Warnings)
}

// Weekly runs the weekly closing and resets the week
func (h *ClosingHandler) Weekly(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.WeeklyClosingRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperror.FromBinding(err))
			return
		}
	}

	result, err := h.closingService.Weekly(c.Request.Context(), actor, &service.WeeklyInput{
		SettleGratuities: req.SettleGratuities,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Weekly closing completed", result)
}

// Report streams the stored spreadsheet of a closing
func (h *ClosingHandler) Report(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	rc, name, err := h.closingService.OpenReport(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = xlsxContentType
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		_ = c.Error(err)
	}
}

// Print prints a closing slip
func (h *ClosingHandler) Print(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.printerService.PrintClosing(c.Request.Context(), id)
	if err != nil {
		if record != nil {
			response.OK(c, "Closing loaded but printing failed", gin.H{
				"closing": record,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Closing printed successfully", gin.H{"closing": record})
}
