package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type gratuityRepository struct {
	db *gorm.DB
}

// NewGratuityRepository creates a new gratuity ledger repository
func NewGratuityRepository(db *gorm.DB) domainRepo.GratuityRepository {
	return &gratuityRepository{db: db}
}

func (r *gratuityRepository) Create(ctx context.Context, entry *entity.GratuityEntry) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *gratuityRepository) CreateBatch(ctx context.Context, entries []entity.GratuityEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&entries).Error
}

func (r *gratuityRepository) ListAll(ctx context.Context) ([]entity.GratuityEntry, error) {
	var entries []entity.GratuityEntry
	err := conn(ctx, r.db).Order("occurred_at ASC").Find(&entries).Error
	return entries, err
}

func (r *gratuityRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]entity.GratuityEntry, error) {
	var entries []entity.GratuityEntry
	err := conn(ctx, r.db).
		Where("worker_id = ?", workerID).
		Order("occurred_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *gratuityRepository) List(ctx context.Context, params *domainRepo.GratuityFilterParams) ([]entity.GratuityEntry, int64, error) {
	var entries []entity.GratuityEntry
	var total int64

	query := conn(ctx, r.db).Model(&entity.GratuityEntry{})
	if params.WorkerID != nil {
		query = query.Where("worker_id = ?", *params.WorkerID)
	}
	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("occurred_at DESC").
		Find(&entries).Error

	return entries, total, err
}
