package service

import (
	"context"
	"time"

	"github.com/sangkips/barberpos-api/internal/config"
	"github.com/sangkips/barberpos-api/internal/domain/ledger"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// BusinessSettings carries the shop-wide values the ledger services share.
type BusinessSettings struct {
	Name          string
	Location      *time.Location
	AdminShare    decimal.Decimal
	InvoicePrefix string
	OwnerEmail    string
}

// NewBusinessSettings builds the settings from configuration
func NewBusinessSettings(cfg *config.BusinessConfig) BusinessSettings {
	prefix := cfg.InvoicePrefix
	if prefix == "" {
		prefix = "FAC"
	}
	return BusinessSettings{
		Name:          cfg.Name,
		Location:      cfg.Location(),
		AdminShare:    cfg.AdminShare,
		InvoicePrefix: prefix,
		OwnerEmail:    cfg.OwnerEmail,
	}
}

func (b BusinessSettings) location() *time.Location {
	if b.Location == nil {
		return time.UTC
	}
	return b.Location
}

// currentWeek returns the window opened by the last weekly closing.
func currentWeek(ctx context.Context, closingRepo repository.ClosingRepository) (ledger.Window, error) {
	last, err := closingRepo.LatestWeekly(ctx)
	if err != nil {
		return ledger.Window{}, err
	}
	return ledger.WeekWindow(last), nil
}
