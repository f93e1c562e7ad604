package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliverGratuityRequest records a cash handover of gratuities to a worker
type DeliverGratuityRequest struct {
	WorkerID uuid.UUID       `json:"worker_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note" binding:"max=500"`
}
