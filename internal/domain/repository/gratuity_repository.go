package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// GratuityRepository defines the interface for the append-only gratuity ledger
type GratuityRepository interface {
	Create(ctx context.Context, entry *entity.GratuityEntry) error
	CreateBatch(ctx context.Context, entries []entity.GratuityEntry) error
	// ListAll returns the full ledger, oldest first
	ListAll(ctx context.Context) ([]entity.GratuityEntry, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]entity.GratuityEntry, error)
	List(ctx context.Context, params *GratuityFilterParams) ([]entity.GratuityEntry, int64, error)
}

// GratuityFilterParams contains filtering parameters for ledger queries
type GratuityFilterParams struct {
	Pagination *pagination.PaginationParams
	WorkerID   *uuid.UUID
	Kind       *enum.GratuityKind
}
