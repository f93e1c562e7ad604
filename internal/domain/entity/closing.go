package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClosingRecord is the append-only trace of a daily or weekly closing.
type ClosingRecord struct {
	ID            uuid.UUID        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Kind          enum.ClosingKind `gorm:"not null;index" json:"kind"`
	BusinessDate  string           `gorm:"size:10;not null;index" json:"business_date"`
	ClosedAt      time.Time        `gorm:"not null;index" json:"closed_at"`
	Detail        string           `gorm:"size:500" json:"detail"`
	ReportRef     string           `gorm:"size:500" json:"report_ref,omitempty"`
	InvoiceCount  int              `gorm:"not null;default:0" json:"invoice_count"`
	CashTotal     decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"cash_total"`
	TransferTotal decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"transfer_total"`
	BilledTotal   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"billed_total"`
	PerformedBy   uuid.UUID        `gorm:"type:varchar(36);not null" json:"performed_by"`
	CreatedAt     time.Time        `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new closing record
func (c *ClosingRecord) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ClosingRecord model
func (ClosingRecord) TableName() string {
	return "closing_records"
}
