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
	"github.com/sangkips/barberpos-api/pkg/logger"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// InventoryService handles product batches and stock reservations
type InventoryService struct {
	batchRepo repository.BatchRepository
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewInventoryService creates a new inventory service
func NewInventoryService(batchRepo repository.BatchRepository, log logrus.FieldLogger) *InventoryService {
	return &InventoryService{batchRepo: batchRepo, log: log, now: utcNow}
}

// BatchInput represents the create/update batch input
type BatchInput struct {
	Name      string
	UnitCost  decimal.Decimal
	UnitPrice decimal.Decimal
	Remaining int
	IntakeAt  *time.Time
}

func (in *BatchInput) validate() error {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if !in.UnitPrice.IsPositive() {
		errs = append(errs, apperror.FieldError{Field: "unit_price", Message: "Unit price must be greater than zero"})
	}
	if in.UnitCost.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "unit_cost", Message: "Unit cost cannot be negative"})
	}
	if !ledger.HasMoneyScale(in.UnitPrice) {
		errs = append(errs, apperror.FieldError{Field: "unit_price", Message: "Unit price may have at most two decimal places"})
	}
	if !ledger.HasMoneyScale(in.UnitCost) {
		errs = append(errs, apperror.FieldError{Field: "unit_cost", Message: "Unit cost may have at most two decimal places"})
	}
	if in.Remaining < 0 {
		errs = append(errs, apperror.FieldError{Field: "remaining", Message: "Remaining cannot be negative"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// FindAvailable returns the earliest-intake batch per matching product name.
// holds are the caller's unconfirmed selections and are subtracted from stock.
func (s *InventoryService) FindAvailable(ctx context.Context, query string, holds []ledger.Hold) ([]ledger.AvailableBatch, error) {
	batches, err := s.batchRepo.ListInStock(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.SelectFIFO(batches, query, holds), nil
}

// Reserve takes quantity units out of a batch and returns the line snapshot.
func (s *InventoryService) Reserve(ctx context.Context, batchID uuid.UUID, quantity int) (*entity.InvoiceProductLine, error) {
	if quantity < 1 {
		return nil, apperror.ErrInvalidQuantity
	}
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, apperror.NewNotFoundError("Product batch")
	}
	if quantity > batch.Remaining {
		return nil, apperror.ErrInvalidQuantity.WithMessage(
			fmt.Sprintf("Only %d units of %s remain", batch.Remaining, batch.Name))
	}

	ok, err := s.batchRepo.AtomicDecrement(ctx, batchID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrInsufficientStock
	}

	line := batch.Snapshot(quantity)
	return &line, nil
}

// Release returns quantity units to a batch. Non-positive quantities are ignored.
func (s *InventoryService) Release(ctx context.Context, batchID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	ok, err := s.batchRepo.Increment(ctx, batchID, quantity)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFoundError("Product batch")
	}
	return nil
}

// ReturnLines releases the units of sold lines. Lines whose batch has been
// deleted since the sale are logged and skipped.
func (s *InventoryService) ReturnLines(ctx context.Context, lines []entity.InvoiceProductLine) error {
	for _, line := range lines {
		err := s.Release(ctx, line.BatchID, line.Quantity)
		if err == nil {
			continue
		}
		if apperror.GetAppError(err).Kind != apperror.KindNotFound {
			return err
		}
		logger.LogWarn(s.log, "InventoryService", "ReturnLines", "batch no longer exists, units not returned",
			map[string]any{"invoice_id": line.InvoiceID, "batch_id": line.BatchID, "quantity": line.Quantity})
	}
	return nil
}

// CreateBatch registers a stock intake
func (s *InventoryService) CreateBatch(ctx context.Context, actor Actor, input *BatchInput) (*entity.ProductBatch, error) {
	if err := requireRole(actor, enum.RoleAdmin, enum.RoleAssistant); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	intake := s.now()
	if input.IntakeAt != nil {
		intake = input.IntakeAt.UTC()
	}
	batch := &entity.ProductBatch{
		Name:      strings.TrimSpace(input.Name),
		UnitCost:  input.UnitCost,
		UnitPrice: input.UnitPrice,
		Remaining: input.Remaining,
		IntakeAt:  intake,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"batch_id": batch.ID, "name": batch.Name, "remaining": batch.Remaining}).Info("stock intake registered")
	return batch, nil
}

// UpdateBatch overwrites a batch. Admin only.
func (s *InventoryService) UpdateBatch(ctx context.Context, actor Actor, id uuid.UUID, input *BatchInput) (*entity.ProductBatch, error) {
	if err := requireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, apperror.NewNotFoundError("Product batch")
	}

	batch.Name = strings.TrimSpace(input.Name)
	batch.UnitCost = input.UnitCost
	batch.UnitPrice = input.UnitPrice
	batch.Remaining = input.Remaining
	if input.IntakeAt != nil {
		batch.IntakeAt = input.IntakeAt.UTC()
	}
	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// DeleteBatch removes a batch. Invoices keep their own copies. Admin only.
func (s *InventoryService) DeleteBatch(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireRole(actor, enum.RoleAdmin); err != nil {
		return err
	}
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if batch == nil {
		return apperror.NewNotFoundError("Product batch")
	}
	return s.batchRepo.Delete(ctx, id)
}

// GetBatch retrieves a batch by ID
func (s *InventoryService) GetBatch(ctx context.Context, id uuid.UUID) (*entity.ProductBatch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, apperror.NewNotFoundError("Product batch")
	}
	return batch, nil
}

// ListBatches retrieves batches with pagination
func (s *InventoryService) ListBatches(ctx context.Context, params *pagination.PaginationParams, search string, inStock bool) (*pagination.PaginatedResult[entity.ProductBatch], error) {
	batches, total, err := s.batchRepo.List(ctx, &repository.BatchFilterParams{
		Pagination: params,
		Search:     search,
		InStock:    inStock,
	})
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(batches, params, total), nil
}
