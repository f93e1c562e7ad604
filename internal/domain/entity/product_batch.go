package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductBatch is one stock intake of a product. Several batches may share a
// name; they are consumed earliest intake first.
type ProductBatch struct {
	ID             uuid.UUID       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	NormalizedName string          `gorm:"size:255;not null;index" json:"-"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_cost"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	Remaining      int             `gorm:"not null;default:0;check:remaining >= 0" json:"remaining"`
	IntakeAt       time.Time       `gorm:"not null;index" json:"intake_at"`
	Version        int             `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new batch
func (b *ProductBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the grouping key in step with the display name
func (b *ProductBatch) BeforeSave(tx *gorm.DB) error {
	b.NormalizedName = utils.NormalizeName(b.Name)
	return nil
}

// TableName returns the table name for the ProductBatch model
func (ProductBatch) TableName() string {
	return "product_batches"
}

// Snapshot copies the batch into an invoice product line for quantity units.
func (b *ProductBatch) Snapshot(quantity int) InvoiceProductLine {
	return InvoiceProductLine{
		BatchID:   b.ID,
		Name:      b.Name,
		UnitPrice: b.UnitPrice,
		UnitCost:  b.UnitCost,
		Quantity:  quantity,
	}
}
