package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GratuityEntry is an append-only row of the gratuity ledger. Delivered
// entries are payouts; earned entries carry forward gratuity from invoices
// removed by a weekly reset.
type GratuityEntry struct {
	ID         uuid.UUID         `gorm:"type:varchar(36);primaryKey" json:"id"`
	WorkerID   uuid.UUID         `gorm:"type:varchar(36);not null;index" json:"worker_id"`
	WorkerName string            `gorm:"size:255;not null" json:"worker_name"`
	Amount     decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Kind       enum.GratuityKind `gorm:"not null;default:0" json:"kind"`
	Delivered  bool              `gorm:"not null" json:"delivered"`
	OccurredAt time.Time         `gorm:"not null;index" json:"occurred_at"`
	RecordedBy uuid.UUID         `gorm:"type:varchar(36);not null" json:"recorded_by"`
	Note       string            `gorm:"size:500" json:"note,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// BeforeCreate generates a UUID and keeps Delivered consistent with Kind
func (e *GratuityEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Delivered = e.Kind == enum.GratuityKindDelivered
	return nil
}

// TableName returns the table name for the GratuityEntry model
func (GratuityEntry) TableName() string {
	return "gratuity_entries"
}
