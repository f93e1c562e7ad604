package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/ledger"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	printerService *service.PrinterService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, printerService *service.PrinterService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, printerService: printerService}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	var status *enum.InvoiceStatus
	if filter.Status != "" {
		s, err := enum.ParseInvoiceStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		status = &s
	}

	result, err := h.invoiceService.List(c.Request.Context(), pageParams(filter.Page, filter.PerPage), status, filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice with its totals
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", gin.H{
		"invoice": invoice,
		"totals":  ledger.InvoiceTotals(invoice),
	})
}

// TodaySummary returns today's closed invoice totals
func (h *InvoiceHandler) TodaySummary(c *gin.Context) {
	summary, err := h.invoiceService.TodaySummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Today's summary retrieved successfully", summary)
}

// WeekServices returns this week's service counts per worker
func (h *InvoiceHandler) WeekServices(c *gin.Context) {
	rows, err := h.invoiceService.WeekServicesByWorker(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Weekly services retrieved successfully", rows)
}

// Create handles opening an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	input := &service.CreateInvoiceInput{
		CustomerName: req.CustomerName,
		Products:     make([]service.ProductSelection, 0, len(req.Products)),
		Services:     toServiceLines(req.Services),
	}
	for _, p := range req.Products {
		input.Products = append(input.Products, service.ProductSelection{BatchID: p.BatchID, Quantity: p.Quantity})
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Edit handles replacing the customer and services of an invoice
func (h *InvoiceHandler) Edit(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.EditInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	input := &service.EditInvoiceInput{
		CustomerName: req.CustomerName,
		Services:     toServiceLines(req.Services),
	}
	if req.Payment != nil {
		payment, err := toPayment(req.Payment)
		if err != nil {
			response.Error(c, err)
			return
		}
		input.Payment = &payment
	}

	invoice, err := h.invoiceService.Edit(c.Request.Context(), actor, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// AddServiceLine handles appending a service to an open invoice
func (h *InvoiceHandler) AddServiceLine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.ServiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	lines := toServiceLines([]request.ServiceLineRequest{req})
	invoice, err := h.invoiceService.AddServiceLine(c.Request.Context(), actor, id, &lines[0])
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service added successfully", invoice)
}

// RemoveServiceLine handles removing a service from an open invoice
func (h *InvoiceHandler) RemoveServiceLine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	lineID, err := pathID(c, "line")
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.RemoveServiceLine(c.Request.Context(), actor, id, lineID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service removed successfully", invoice)
}

// AddProductLine handles reserving a product onto an open invoice
func (h *InvoiceHandler) AddProductLine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.ProductSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}

	invoice, err := h.invoiceService.AddProductLine(c.Request.Context(), actor, id, service.ProductSelection{
		BatchID:  req.BatchID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product added successfully", invoice)
}

// RemoveProductLine handles returning a product line to its batch
func (h *InvoiceHandler) RemoveProductLine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	lineID, err := pathID(c, "line")
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.RemoveProductLine(c.Request.Context(), actor, id, lineID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product removed successfully", invoice)
}

// Close handles settling an open invoice
func (h *InvoiceHandler) Close(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromBinding(err))
		return
	}
	payment, err := toPayment(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.Close(c.Request.Context(), actor, id, payment)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice closed successfully", invoice)
}

// Print handles printing an invoice receipt. A printer failure still returns
// the receipt with a warning.
func (h *InvoiceHandler) Print(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	receipt, err := h.printerService.PrintInvoice(c.Request.Context(), id)
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}

// Discard handles deleting an invoice and returning its stock
func (h *InvoiceHandler) Discard(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.invoiceService.Discard(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice discarded successfully", nil)
}

func toServiceLines(reqs []request.ServiceLineRequest) []service.ServiceLineInput {
	lines := make([]service.ServiceLineInput, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, service.ServiceLineInput{
			WorkerID: r.WorkerID,
			Price:    r.Price,
			Note:     r.Note,
			Gratuity: r.Gratuity,
		})
	}
	return lines
}

func toPayment(req *request.PaymentRequest) (ledger.Payment, error) {
	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		return ledger.Payment{}, apperror.ErrPaymentMismatch.WithMessage(err.Error())
	}
	return ledger.Payment{Method: method, Cash: req.Cash, Transfer: req.Transfer}, nil
}
