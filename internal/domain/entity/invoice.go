package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a sales ticket mixing product and service lines.
//
// While open every payment field is zero. Once closed,
// CashAmount + TransferAmount equals the invoice total; CashTendered and
// ChangeGiven keep what was physically handed over for cash payments.
type Invoice struct {
	ID             uuid.UUID          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Number         string             `gorm:"size:40;uniqueIndex;not null" json:"number"`
	CustomerName   string             `gorm:"size:255;not null" json:"customer_name"`
	Status         enum.InvoiceStatus `gorm:"not null;default:0;index" json:"status"`
	PaymentMethod  enum.PaymentMethod `gorm:"not null;default:0" json:"payment_method"`
	CashAmount     decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"cash_amount"`
	TransferAmount decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"transfer_amount"`
	CashTendered   decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"cash_tendered"`
	ChangeGiven    decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"change_given"`
	CreatedBy      uuid.UUID          `gorm:"type:varchar(36);not null" json:"created_by"`
	ClosedBy       *uuid.UUID         `gorm:"type:varchar(36)" json:"closed_by,omitempty"`
	ClosedAt       *time.Time         `gorm:"index" json:"closed_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	ProductLines []InvoiceProductLine `gorm:"foreignKey:InvoiceID" json:"product_lines"`
	ServiceLines []ServiceLine        `gorm:"foreignKey:InvoiceID" json:"service_lines"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// IsOpen reports whether the invoice still accepts line edits.
func (i *Invoice) IsOpen() bool {
	return i.Status == enum.InvoiceStatusOpen
}

// HasLines reports whether the invoice carries at least one line.
func (i *Invoice) HasLines() bool {
	return len(i.ProductLines) > 0 || len(i.ServiceLines) > 0
}

// InvoiceProductLine is a frozen copy of a batch at the moment it was sold.
// BatchID is kept only so the quantity can be released on discard.
type InvoiceProductLine struct {
	ID        uuid.UUID       `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"invoice_id"`
	Position  int             `gorm:"not null;default:0" json:"position"`
	BatchID   uuid.UUID       `gorm:"type:varchar(36);not null" json:"batch_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new product line
func (l *InvoiceProductLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceProductLine model
func (InvoiceProductLine) TableName() string {
	return "invoice_product_lines"
}

// Subtotal is UnitPrice x Quantity.
func (l InvoiceProductLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ServiceLine is a billable service performed by a worker. A zero Gratuity
// means none was given.
type ServiceLine struct {
	ID         uuid.UUID       `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvoiceID  uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"invoice_id"`
	Position   int             `gorm:"not null;default:0" json:"position"`
	WorkerID   uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"worker_id"`
	WorkerName string          `gorm:"size:255;not null" json:"worker_name"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Note       string          `gorm:"size:500" json:"note,omitempty"`
	Gratuity   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"gratuity"`
	CreatedAt  time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new service line
func (l *ServiceLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ServiceLine model
func (ServiceLine) TableName() string {
	return "invoice_service_lines"
}

// HasGratuity reports whether a gratuity was recorded on the line.
func (l ServiceLine) HasGratuity() bool {
	return l.Gratuity.IsPositive()
}
