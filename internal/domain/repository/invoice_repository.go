package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations.
// Invoices are always returned with their lines ordered by position.
type InvoiceRepository interface {
	// Create inserts the invoice together with its product and service lines
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// UpdateHeader saves the invoice columns without touching its lines
	UpdateHeader(ctx context.Context, invoice *entity.Invoice) error
	// CloseIfOpen stores the payment and flips the status only while the
	// invoice is still open. Returns false when another writer closed it first.
	CloseIfOpen(ctx context.Context, invoice *entity.Invoice) (bool, error)
	// Delete removes the invoice and its lines
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteAll removes every invoice and line, returning the invoice count
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// ListClosed returns closed invoices with ClosedAt in [from, to). A nil bound is open.
	ListClosed(ctx context.Context, from, to *time.Time) ([]entity.Invoice, error)
	CountOpen(ctx context.Context) (int64, error)
	// WorkerHasClosedServices reports whether any closed invoice carries a service line by the worker
	WorkerHasClosedServices(ctx context.Context, workerID uuid.UUID) (bool, error)

	AddProductLine(ctx context.Context, line *entity.InvoiceProductLine) error
	DeleteProductLine(ctx context.Context, invoiceID, lineID uuid.UUID) error
	AddServiceLine(ctx context.Context, line *entity.ServiceLine) error
	DeleteServiceLine(ctx context.Context, invoiceID, lineID uuid.UUID) error
	// ReplaceServiceLines deletes the invoice's service lines and inserts lines in their place
	ReplaceServiceLines(ctx context.Context, invoiceID uuid.UUID, lines []entity.ServiceLine) error
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
}
