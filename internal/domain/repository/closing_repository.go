package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// ClosingRepository defines the interface for closing record operations
type ClosingRepository interface {
	Create(ctx context.Context, record *entity.ClosingRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ClosingRecord, error)
	List(ctx context.Context, params *pagination.PaginationParams, kind *enum.ClosingKind) ([]entity.ClosingRecord, int64, error)
	// LatestWeekly returns the most recent weekly record, or nil if there is none
	LatestWeekly(ctx context.Context) (*entity.ClosingRecord, error)
	DeleteAll(ctx context.Context) error
}
