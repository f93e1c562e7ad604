package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"gorm.io/gorm"
)

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository creates a new product batch repository
func NewBatchRepository(db *gorm.DB) domainRepo.BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, batch *entity.ProductBatch) error {
	return conn(ctx, r.db).Create(batch).Error
}

func (r *batchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductBatch, error) {
	var batch entity.ProductBatch
	err := conn(ctx, r.db).First(&batch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &batch, err
}

func (r *batchRepository) Update(ctx context.Context, batch *entity.ProductBatch) error {
	batch.Version++
	return conn(ctx, r.db).Save(batch).Error
}

func (r *batchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.ProductBatch{}, "id = ?", id).Error
}

func (r *batchRepository) List(ctx context.Context, params *domainRepo.BatchFilterParams) ([]entity.ProductBatch, int64, error) {
	var batches []entity.ProductBatch
	var total int64

	query := conn(ctx, r.db).Model(&entity.ProductBatch{}).
		Scopes(LikeScope("normalized_name", utils.NormalizeName(params.Search)))
	if params.InStock {
		query = query.Where("remaining > 0")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("normalized_name ASC").Order("intake_at ASC").
		Find(&batches).Error

	return batches, total, err
}

func (r *batchRepository) ListInStock(ctx context.Context) ([]entity.ProductBatch, error) {
	var batches []entity.ProductBatch
	err := conn(ctx, r.db).
		Where("remaining > 0").
		Order("intake_at ASC").Order("created_at ASC").
		Find(&batches).Error
	return batches, err
}

// AtomicDecrement decrements stock only if sufficient quantity exists.
// Uses: UPDATE product_batches SET remaining = remaining - amount WHERE id = ? AND remaining >= amount
func (r *batchRepository) AtomicDecrement(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.ProductBatch{}).
		Where("id = ? AND remaining >= ?", id, amount).
		UpdateColumns(map[string]any{
			"remaining":  gorm.Expr("remaining - ?", amount),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	// If no rows were affected, insufficient stock
	return result.RowsAffected > 0, nil
}

func (r *batchRepository) Increment(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.ProductBatch{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"remaining":  gorm.Expr("remaining + ?", amount),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
