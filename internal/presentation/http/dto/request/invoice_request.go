package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSelectionRequest selects a quantity from a batch
type ProductSelectionRequest struct {
	BatchID  uuid.UUID `json:"batch_id" binding:"required"`
	Quantity int       `json:"quantity"`
}

// ServiceLineRequest represents a service performed by a worker
type ServiceLineRequest struct {
	WorkerID uuid.UUID       `json:"worker_id" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Note     string          `json:"note" binding:"max=500"`
	Gratuity decimal.Decimal `json:"gratuity"`
}

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	CustomerName string                    `json:"customer_name" binding:"max=255"`
	Products     []ProductSelectionRequest `json:"products" binding:"dive"`
	Services     []ServiceLineRequest      `json:"services" binding:"dive"`
}

// PaymentRequest describes how an invoice is paid
type PaymentRequest struct {
	Method   string          `json:"method" binding:"required,oneof=cash transfer split"`
	Cash     decimal.Decimal `json:"cash"`
	Transfer decimal.Decimal `json:"transfer"`
}

// EditInvoiceRequest replaces the customer and services of an invoice
type EditInvoiceRequest struct {
	CustomerName string               `json:"customer_name" binding:"max=255"`
	Services     []ServiceLineRequest `json:"services" binding:"dive"`
	Payment      *PaymentRequest      `json:"payment"`
}

// InvoiceFilterRequest represents invoice list parameters
type InvoiceFilterRequest struct {
	Status  string `form:"status" binding:"omitempty,oneof=open closed"`
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
