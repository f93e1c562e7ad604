package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// withLines preloads both line collections in position order
func withLines(db *gorm.DB) *gorm.DB {
	byPosition := func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }
	return db.Preload("ProductLines", byPosition).Preload("ServiceLines", byPosition)
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	for i := range invoice.ProductLines {
		invoice.ProductLines[i].Position = i
	}
	for i := range invoice.ServiceLines {
		invoice.ServiceLines[i].Position = i
	}
	return conn(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).Scopes(withLines).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) UpdateHeader(ctx context.Context, invoice *entity.Invoice) error {
	return conn(ctx, r.db).Model(invoice).
		Select("customer_name", "status", "payment_method", "cash_amount", "transfer_amount",
			"cash_tendered", "change_given", "closed_by", "closed_at", "updated_at").
		Updates(invoice).Error
}

// CloseIfOpen uses: UPDATE invoices SET ... WHERE id = ? AND status = open
func (r *invoiceRepository) CloseIfOpen(ctx context.Context, invoice *entity.Invoice) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("id = ? AND status = ?", invoice.ID, enum.InvoiceStatusOpen).
		Updates(map[string]any{
			"status":          enum.InvoiceStatusClosed,
			"payment_method":  invoice.PaymentMethod,
			"cash_amount":     invoice.CashAmount,
			"transfer_amount": invoice.TransferAmount,
			"cash_tendered":   invoice.CashTendered,
			"change_given":    invoice.ChangeGiven,
			"closed_by":       invoice.ClosedBy,
			"closed_at":       invoice.ClosedAt,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceProductLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.ServiceLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}

func (r *invoiceRepository) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entity.InvoiceProductLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&entity.ServiceLine{}).Error; err != nil {
			return err
		}
		result := tx.Where("1 = 1").Delete(&entity.Invoice{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(LikeScope("customer_name", params.Search))
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Scopes(withLines).
		Order("created_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListClosed(ctx context.Context, from, to *time.Time) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	query := conn(ctx, r.db).Where("status = ?", enum.InvoiceStatusClosed)
	if from != nil {
		query = query.Where("closed_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("closed_at < ?", to.UTC())
	}
	err := query.Scopes(withLines).Order("closed_at ASC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("status = ?", enum.InvoiceStatusOpen).
		Count(&count).Error
	return count, err
}

func (r *invoiceRepository) WorkerHasClosedServices(ctx context.Context, workerID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.ServiceLine{}).
		Joins("JOIN invoices ON invoices.id = invoice_service_lines.invoice_id").
		Where("invoice_service_lines.worker_id = ? AND invoices.status = ?", workerID, enum.InvoiceStatusClosed).
		Count(&count).Error
	return count > 0, err
}

func (r *invoiceRepository) AddProductLine(ctx context.Context, line *entity.InvoiceProductLine) error {
	db := conn(ctx, r.db)
	var maxPos sql.NullInt64
	if err := db.Model(&entity.InvoiceProductLine{}).
		Where("invoice_id = ?", line.InvoiceID).
		Select("MAX(position)").Scan(&maxPos).Error; err != nil {
		return err
	}
	line.Position = nextPosition(maxPos)
	return db.Create(line).Error
}

func (r *invoiceRepository) DeleteProductLine(ctx context.Context, invoiceID, lineID uuid.UUID) error {
	return conn(ctx, r.db).
		Where("id = ? AND invoice_id = ?", lineID, invoiceID).
		Delete(&entity.InvoiceProductLine{}).Error
}

func (r *invoiceRepository) AddServiceLine(ctx context.Context, line *entity.ServiceLine) error {
	db := conn(ctx, r.db)
	var maxPos sql.NullInt64
	if err := db.Model(&entity.ServiceLine{}).
		Where("invoice_id = ?", line.InvoiceID).
		Select("MAX(position)").Scan(&maxPos).Error; err != nil {
		return err
	}
	line.Position = nextPosition(maxPos)
	return db.Create(line).Error
}

func (r *invoiceRepository) DeleteServiceLine(ctx context.Context, invoiceID, lineID uuid.UUID) error {
	return conn(ctx, r.db).
		Where("id = ? AND invoice_id = ?", lineID, invoiceID).
		Delete(&entity.ServiceLine{}).Error
}

func (r *invoiceRepository) ReplaceServiceLines(ctx context.Context, invoiceID uuid.UUID, lines []entity.ServiceLine) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&entity.ServiceLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].ID = uuid.Nil
			lines[i].InvoiceID = invoiceID
			lines[i].Position = i
		}
		return tx.Create(&lines).Error
	})
}

func nextPosition(maxPos sql.NullInt64) int {
	if !maxPos.Valid {
		return 0
	}
	return int(maxPos.Int64) + 1
}
