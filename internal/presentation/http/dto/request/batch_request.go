package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchRequest represents a product batch creation or update request.
// Amounts are validated by the inventory service.
type BatchRequest struct {
	Name      string          `json:"name" binding:"required,max=255"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Remaining int             `json:"remaining"`
	IntakeAt  *time.Time      `json:"intake_at"`
}

// BatchFilterRequest represents batch list parameters
type BatchFilterRequest struct {
	Search  string `form:"search"`
	InStock bool   `form:"in_stock"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
