package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/ledger"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// InvoiceService handles the open/closed life cycle of invoices
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	userRepo    repository.UserRepository
	closingRepo repository.ClosingRepository
	inventory   *InventoryService
	txManager   repository.TxManager
	business    BusinessSettings
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	closingRepo repository.ClosingRepository,
	inventory *InventoryService,
	txManager repository.TxManager,
	business BusinessSettings,
	log logrus.FieldLogger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		userRepo:    userRepo,
		closingRepo: closingRepo,
		inventory:   inventory,
		txManager:   txManager,
		business:    business,
		log:         log,
		now:         utcNow,
	}
}

// ProductSelection is a confirmed pick of units from one batch
type ProductSelection struct {
	BatchID  uuid.UUID
	Quantity int
}

// ServiceLineInput represents a service performed by a worker
type ServiceLineInput struct {
	WorkerID uuid.UUID
	Price    decimal.Decimal
	Note     string
	Gratuity decimal.Decimal
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	CustomerName string
	Products     []ProductSelection
	Services     []ServiceLineInput
}

// EditInvoiceInput replaces the customer and service lines of an invoice.
// Payment is only used for closed invoices; nil re-settles with the stored payment.
type EditInvoiceInput struct {
	CustomerName string
	Services     []ServiceLineInput
	Payment      *ledger.Payment
}

func requireInvoicing(actor Actor) error {
	if !actor.Role.CanInvoice() {
		return apperror.ErrForbidden
	}
	return nil
}

// Create reserves the selected stock and stores a new open invoice.
// Reservations and the insert share one transaction.
func (s *InvoiceService) Create(ctx context.Context, actor Actor, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if err := requireInvoicing(actor); err != nil {
		return nil, err
	}
	customer := strings.TrimSpace(input.CustomerName)
	if customer == "" {
		return nil, apperror.ErrMissingCustomer
	}
	if len(input.Products) == 0 && len(input.Services) == 0 {
		return nil, apperror.ErrEmptyInvoice
	}

	services, err := s.buildServiceLines(ctx, input.Services)
	if err != nil {
		return nil, err
	}

	now := s.now()
	invoice := &entity.Invoice{
		Number:        utils.GenerateInvoiceNo(s.business.InvoicePrefix, now.In(s.business.location())),
		CustomerName:  customer,
		Status:        enum.InvoiceStatusOpen,
		PaymentMethod: enum.PaymentMethodNone,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		ServiceLines:  services,
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, sel := range input.Products {
			line, err := s.inventory.Reserve(ctx, sel.BatchID, sel.Quantity)
			if err != nil {
				return err
			}
			invoice.ProductLines = append(invoice.ProductLines, *line)
		}
		return s.invoiceRepo.Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"number":     invoice.Number,
		"products":   len(invoice.ProductLines),
		"services":   len(invoice.ServiceLines),
	}).Info("invoice opened")

	return s.invoiceRepo.GetByID(ctx, invoice.ID)
}

// AddServiceLine appends a service line to an open invoice
func (s *InvoiceService) AddServiceLine(ctx context.Context, actor Actor, invoiceID uuid.UUID, input *ServiceLineInput) (*entity.Invoice, error) {
	if err := requireInvoicing(actor); err != nil {
		return nil, err
	}
	invoice, err := s.openInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildServiceLines(ctx, []ServiceLineInput{*input})
	if err != nil {
		return nil, err
	}
	line := lines[0]
	line.InvoiceID = invoice.ID
	if err := s.invoiceRepo.AddServiceLine(ctx, &line); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// RemoveServiceLine deletes a service line from an open invoice
func (s *InvoiceService) RemoveServiceLine(ctx context.Context, actor Actor, invoiceID, lineID uuid.UUID) (*entity.Invoice, error) {
	if err := requireInvoicing(actor); err != nil {
		return nil, err
	}
	invoice, err := s.openInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, l := range invoice.ServiceLines {
		if l.ID == lineID {
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NewNotFoundError("Service line")
	}
	if len(invoice.ServiceLines)+len(invoice.ProductLines) == 1 {
		return nil, apperror.ErrEmptyInvoice.WithMessage("Discard the invoice instead of removing its last line")
	}

	if err := s.invoiceRepo.DeleteServiceLine(ctx, invoiceID, lineID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// AddProductLine reserves stock and appends it to an open invoice
func (s *InvoiceService) AddProductLine(ctx context.Context, actor Actor, invoiceID uuid.UUID, sel ProductSelection) (*entity.Invoice, error) {
	if err := requireInvoicing(actor); err != nil {
		return nil, err
	}
	if _, err := s.openInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		line, err := s.inventory.Reserve(ctx, sel.BatchID, sel.Quantity)
		if err != nil {
			return err
		}
		line.InvoiceID = invoiceID
		return s.invoiceRepo.AddProductLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// RemoveProductLine releases the line's units and deletes it from an open invoice
func (s *InvoiceService) RemoveProductLine(ctx context.Context, actor Actor, invoiceID, lineID uuid.UUID) (*entity.Invoice, error) {
	if err := requireInvoicing(actor); err != nil {
		return nil, err
	}
	invoice, err := s.openInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	var line *entity.InvoiceProductLine
	for i := range invoice.ProductLines {
		if invoice.ProductLines[i].ID == lineID {
			line = &invoice.ProductLines[i]
			break
		}
	}
	if line == nil {
		return nil, apperror.NewNotFoundError("Product line")
	}
	if len(invoice.ServiceLines)+len(invoice.ProductLines) == 1 {
		return nil, apperror.ErrEmptyInvoice.WithMessage("Discard the invoice instead of removing its last line")
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.inventory.ReturnLines(ctx, []entity.InvoiceProductLine{*line}); err != nil {
			return err
		}
		return s.invoiceRepo.DeleteProductLine(ctx, invoiceID, lineID)
	})
	if err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// Close validates the payment against the invoice total and closes it.
func (s *InvoiceService) Close(ctx context.Context, actor Actor, invoiceID uuid.UUID, payment ledger.Payment) (*entity.Invoice, error) {
	if err := requireInvoicing(actor); err != nil {
		return nil, err
	}
	invoice, err := s.openInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.HasLines() {
		return nil, apperror.ErrEmptyInvoice
	}

	totals := ledger.InvoiceTotals(invoice)
	settlement, err := ledger.SettlePayment(totals.Total, payment)
	if err != nil {
		return nil, err
	}

	now := s.now()
	applySettlement(invoice, settlement)
	invoice.ClosedBy = &actor.ID
	invoice.ClosedAt = &now

	closed, err := s.invoiceRepo.CloseIfOpen(ctx, invoice)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, apperror.ErrInvoiceClosed
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"total":      totals.Total.String(),
		"method":     settlement.Method.String(),
		"closed_by":  actor.Username,
	}).Info("invoice closed")

	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// Edit replaces the customer name and service lines. Closed invoices are
// admin only and get their payment settled again against the new total.
func (s *InvoiceService) Edit(ctx context.Context, actor Actor, invoiceID uuid.UUID, input *EditInvoiceInput) (*entity.Invoice, error) {
	if err := requireInvoicing(actor); err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if !invoice.IsOpen() && !actor.IsAdmin() {
		return nil, apperror.ErrInvoiceClosed
	}

	customer := strings.TrimSpace(input.CustomerName)
	if customer == "" {
		return nil, apperror.ErrMissingCustomer
	}
	services, err := s.buildServiceLines(ctx, input.Services)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 && len(invoice.ProductLines) == 0 {
		return nil, apperror.ErrEmptyInvoice
	}

	invoice.CustomerName = customer
	if !invoice.IsOpen() {
		payment := storedPayment(invoice)
		if input.Payment != nil {
			payment = *input.Payment
		}
		total := ledger.ComputeTotals(invoice.ProductLines, services).Total
		settlement, err := ledger.SettlePayment(total, payment)
		if err != nil {
			return nil, err
		}
		applySettlement(invoice, settlement)
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.invoiceRepo.ReplaceServiceLines(ctx, invoiceID, services); err != nil {
			return err
		}
		return s.invoiceRepo.UpdateHeader(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	if !invoice.IsOpen() {
		s.log.WithFields(logrus.Fields{"invoice_id": invoiceID, "edited_by": actor.Username}).Warn("closed invoice edited")
	}
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// Discard releases every product line back to stock and deletes the invoice.
func (s *InvoiceService) Discard(ctx context.Context, actor Actor, invoiceID uuid.UUID) error {
	if err := requireInvoicing(actor); err != nil {
		return err
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}
	if !invoice.IsOpen() && !actor.IsAdmin() {
		return apperror.ErrInvoiceClosed
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.inventory.ReturnLines(ctx, invoice.ProductLines); err != nil {
			return err
		}
		return s.invoiceRepo.Delete(ctx, invoiceID)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id": invoiceID,
		"status":     invoice.Status.String(),
		"by":         actor.Username,
	}).Info("invoice discarded")
	return nil
}

// Get retrieves an invoice by ID
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// List retrieves invoices with pagination
func (s *InvoiceService) List(ctx context.Context, params *pagination.PaginationParams, status *enum.InvoiceStatus, search string) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		Pagination: params,
		Search:     search,
		Status:     status,
	})
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(invoices, params, total), nil
}

// TodaySummary aggregates the invoices closed on the current local day
func (s *InvoiceService) TodaySummary(ctx context.Context) (*ledger.TodaySummary, error) {
	now := s.now()
	from, to := ledger.DayWindow(now, s.business.location()).Bounds()
	invoices, err := s.invoiceRepo.ListClosed(ctx, from, to)
	if err != nil {
		return nil, err
	}
	open, err := s.invoiceRepo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	summary := ledger.Today(invoices, int(open), now, s.business.location())
	return &summary, nil
}

// WeekServicesByWorker groups this week's service lines by worker
func (s *InvoiceService) WeekServicesByWorker(ctx context.Context) ([]ledger.WorkerServices, error) {
	week, err := currentWeek(ctx, s.closingRepo)
	if err != nil {
		return nil, err
	}
	from, to := week.Bounds()
	invoices, err := s.invoiceRepo.ListClosed(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return ledger.ServicesByWorker(invoices, week, s.business.AdminShare), nil
}

func (s *InvoiceService) openInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if !invoice.IsOpen() {
		return nil, apperror.ErrInvoiceClosed
	}
	return invoice, nil
}

// buildServiceLines validates inputs against the worker roster.
func (s *InvoiceService) buildServiceLines(ctx context.Context, inputs []ServiceLineInput) ([]entity.ServiceLine, error) {
	lines := make([]entity.ServiceLine, 0, len(inputs))
	workers := make(map[uuid.UUID]*entity.User)

	for i, in := range inputs {
		if in.WorkerID == uuid.Nil || !in.Price.IsPositive() {
			return nil, apperror.ErrInvalidWorkerOrPrice
		}
		if !ledger.HasMoneyScale(in.Price) {
			return nil, apperror.ErrInvalidMoneyScale
		}
		gratuity, err := ledger.NormalizeGratuity(in.Gratuity)
		if err != nil {
			return nil, err
		}

		worker, ok := workers[in.WorkerID]
		if !ok {
			worker, err = s.userRepo.GetByID(ctx, in.WorkerID)
			if err != nil {
				return nil, fmt.Errorf("load worker for service line %d: %w", i, err)
			}
			workers[in.WorkerID] = worker
		}
		if worker == nil || !worker.IsWorker() || !worker.IsActive {
			return nil, apperror.ErrInvalidWorkerOrPrice.WithMessage("Worker is not an active member of the roster")
		}

		lines = append(lines, entity.ServiceLine{
			WorkerID:   worker.ID,
			WorkerName: worker.FullName(),
			Price:      in.Price,
			Note:       strings.TrimSpace(in.Note),
			Gratuity:   gratuity,
		})
	}
	return lines, nil
}

func applySettlement(invoice *entity.Invoice, st ledger.Settlement) {
	invoice.PaymentMethod = st.Method
	invoice.CashAmount = st.CashAmount
	invoice.TransferAmount = st.TransferAmount
	invoice.CashTendered = st.CashTendered
	invoice.ChangeGiven = st.ChangeGiven
}

// storedPayment rebuilds what the cashier originally received.
func storedPayment(invoice *entity.Invoice) ledger.Payment {
	switch invoice.PaymentMethod {
	case enum.PaymentMethodCash:
		return ledger.Payment{Method: enum.PaymentMethodCash, Cash: invoice.CashTendered}
	case enum.PaymentMethodTransfer:
		return ledger.Payment{Method: enum.PaymentMethodTransfer, Transfer: invoice.TransferAmount}
	default:
		return ledger.Payment{Method: invoice.PaymentMethod, Cash: invoice.CashAmount, Transfer: invoice.TransferAmount}
	}
}
