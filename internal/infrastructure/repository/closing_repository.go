package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"gorm.io/gorm"
)

type closingRepository struct {
	db *gorm.DB
}

// NewClosingRepository creates a new closing record repository
func NewClosingRepository(db *gorm.DB) domainRepo.ClosingRepository {
	return &closingRepository{db: db}
}

func (r *closingRepository) Create(ctx context.Context, record *entity.ClosingRecord) error {
	return conn(ctx, r.db).Create(record).Error
}

func (r *closingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ClosingRecord, error) {
	var record entity.ClosingRecord
	err := conn(ctx, r.db).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *closingRepository) List(ctx context.Context, params *pagination.PaginationParams, kind *enum.ClosingKind) ([]entity.ClosingRecord, int64, error) {
	var records []entity.ClosingRecord
	var total int64

	query := conn(ctx, r.db).Model(&entity.ClosingRecord{})
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("closed_at DESC").
		Find(&records).Error

	return records, total, err
}

func (r *closingRepository) LatestWeekly(ctx context.Context) (*entity.ClosingRecord, error) {
	var record entity.ClosingRecord
	err := conn(ctx, r.db).
		Where("kind = ?", enum.ClosingKindWeekly).
		Order("closed_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *closingRepository) DeleteAll(ctx context.Context) error {
	return conn(ctx, r.db).Where("1 = 1").Delete(&entity.ClosingRecord{}).Error
}
