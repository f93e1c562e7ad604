package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// BatchRepository defines the interface for product batch data operations
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.ProductBatch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductBatch, error)
	Update(ctx context.Context, batch *entity.ProductBatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *BatchFilterParams) ([]entity.ProductBatch, int64, error)
	// ListInStock returns every batch with remaining > 0, oldest intake first.
	ListInStock(ctx context.Context) ([]entity.ProductBatch, error)
	// AtomicDecrement subtracts amount only if enough units remain.
	// Returns (true, nil) if successful, (false, nil) if insufficient stock, (false, err) on error.
	AtomicDecrement(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	// Increment returns amount units to a batch. Returns (false, nil) if the batch no longer exists.
	Increment(ctx context.Context, id uuid.UUID, amount int) (bool, error)
}

// BatchFilterParams contains filtering parameters for batch queries
type BatchFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	InStock    bool
}
