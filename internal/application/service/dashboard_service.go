package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/ledger"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	invoiceRepo repository.InvoiceRepository
	closingRepo repository.ClosingRepository
	userRepo    repository.UserRepository
	gratuity    *GratuityService
	business    BusinessSettings
	now         func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	invoiceRepo repository.InvoiceRepository,
	closingRepo repository.ClosingRepository,
	userRepo repository.UserRepository,
	gratuity *GratuityService,
	business BusinessSettings,
) *DashboardService {
	return &DashboardService{
		invoiceRepo: invoiceRepo,
		closingRepo: closingRepo,
		userRepo:    userRepo,
		gratuity:    gratuity,
		business:    business,
		now:         utcNow,
	}
}

// AdminDashboard represents the admin's view of the current week
type AdminDashboard struct {
	ledger.AdminStats
	Since        *time.Time `json:"since,omitempty"`
	OpenInvoices int64      `json:"open_invoices"`
}

// WorkerDashboard represents a worker's own figures
type WorkerDashboard struct {
	WorkerID   uuid.UUID            `json:"worker_id"`
	WorkerName string               `json:"worker_name"`
	Today      ledger.WorkerStats   `json:"today"`
	Week       ledger.WorkerStats   `json:"week"`
	Gratuity   ledger.WorkerBalance `json:"gratuity"`
}

// Admin returns sales and margins for the current weekly window
func (s *DashboardService) Admin(ctx context.Context, actor Actor) (*AdminDashboard, error) {
	if err := requireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	week, err := currentWeek(ctx, s.closingRepo)
	if err != nil {
		return nil, err
	}
	from, to := week.Bounds()
	invoices, err := s.invoiceRepo.ListClosed(ctx, from, to)
	if err != nil {
		return nil, err
	}
	open, err := s.invoiceRepo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		AdminStats:   ledger.AdminStatsIn(invoices, week, s.business.AdminShare),
		Since:        from,
		OpenInvoices: open,
	}, nil
}

// Worker returns today's and this week's figures for a worker.
// Workers may only see their own dashboard.
func (s *DashboardService) Worker(ctx context.Context, actor Actor, workerID uuid.UUID) (*WorkerDashboard, error) {
	switch {
	case actor.IsAdmin():
	case actor.Role == enum.RoleWorker && actor.ID == workerID:
	default:
		return nil, apperror.ErrForbidden
	}

	worker, err := s.userRepo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker == nil || !worker.IsWorker() {
		return nil, apperror.NewNotFoundError("Worker")
	}

	week, err := currentWeek(ctx, s.closingRepo)
	if err != nil {
		return nil, err
	}
	from, to := week.Bounds()
	invoices, err := s.invoiceRepo.ListClosed(ctx, from, to)
	if err != nil {
		return nil, err
	}
	balance, err := s.gratuity.Balance(ctx, workerID)
	if err != nil {
		return nil, err
	}

	today := ledger.DayWindow(s.now(), s.business.location())
	return &WorkerDashboard{
		WorkerID:   worker.ID,
		WorkerName: worker.FullName(),
		Today:      ledger.WorkerStatsIn(invoices, workerID, today, s.business.AdminShare),
		Week:       ledger.WorkerStatsIn(invoices, workerID, week, s.business.AdminShare),
		Gratuity:   *balance,
	}, nil
}
