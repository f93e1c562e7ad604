package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/ledger"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/lock"
	"github.com/sangkips/barberpos-api/pkg/logger"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// GratuityService derives pending gratuity balances and records payouts
type GratuityService struct {
	gratuityRepo repository.GratuityRepository
	invoiceRepo  repository.InvoiceRepository
	userRepo     repository.UserRepository
	txManager    repository.TxManager
	locker       lock.Locker
	lockTTL      time.Duration
	log          logrus.FieldLogger
	now          func() time.Time
}

// NewGratuityService creates a new gratuity service
func NewGratuityService(
	gratuityRepo repository.GratuityRepository,
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	txManager repository.TxManager,
	locker lock.Locker,
	lockTTL time.Duration,
	log logrus.FieldLogger,
) *GratuityService {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &GratuityService{
		gratuityRepo: gratuityRepo,
		invoiceRepo:  invoiceRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		locker:       locker,
		lockTTL:      lockTTL,
		log:          log,
		now:          utcNow,
	}
}

// DeliverInput represents a gratuity payout to a worker
type DeliverInput struct {
	WorkerID uuid.UUID
	Amount   decimal.Decimal
	Note     string
}

// Balances computes every worker's pending gratuity. Negative balances are
// returned as warnings and logged; they never block.
func (s *GratuityService) Balances(ctx context.Context) (*ledger.BalanceSheet, error) {
	sheet, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range sheet.Warnings {
		logger.LogWarn(s.log, "GratuityService", "Balances", "pending gratuity is negative",
			map[string]any{"worker_id": w.WorkerID, "worker": w.WorkerName, "pending": w.Pending.String()})
	}
	return sheet, nil
}

// Balance returns one worker's position
func (s *GratuityService) Balance(ctx context.Context, workerID uuid.UUID) (*ledger.WorkerBalance, error) {
	sheet, err := s.Balances(ctx)
	if err != nil {
		return nil, err
	}
	b := sheet.Find(workerID)
	return &b, nil
}

// Deliver pays out part or all of a worker's pending gratuity. Payouts share
// the weekly closing lock and pending is recomputed under it.
func (s *GratuityService) Deliver(ctx context.Context, actor Actor, input *DeliverInput) (*entity.GratuityEntry, error) {
	if err := requireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount
	}
	if !ledger.HasMoneyScale(input.Amount) {
		return nil, apperror.ErrInvalidMoneyScale
	}

	var entry *entity.GratuityEntry
	err := lock.WithLock(ctx, s.locker, settlementLockKey, s.lockTTL, func(ctx context.Context) error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			sheet, err := s.compute(ctx)
			if err != nil {
				return err
			}
			balance := sheet.Find(input.WorkerID)
			if input.Amount.GreaterThan(balance.Pending) {
				return apperror.ErrInsufficientPending.WithMessage(
					"Amount exceeds the pending gratuity balance of " + balance.Pending.StringFixed(2))
			}

			name := balance.WorkerName
			if name == "" {
				worker, err := s.userRepo.GetByID(ctx, input.WorkerID)
				if err != nil {
					return err
				}
				if worker != nil {
					name = worker.FullName()
				}
			}

			entry = &entity.GratuityEntry{
				WorkerID:   input.WorkerID,
				WorkerName: name,
				Amount:     input.Amount,
				Kind:       enum.GratuityKindDelivered,
				OccurredAt: s.now(),
				RecordedBy: actor.ID,
				Note:       strings.TrimSpace(input.Note),
			}
			return s.gratuityRepo.Create(ctx, entry)
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"worker_id": entry.WorkerID,
		"amount":    entry.Amount.String(),
		"by":        actor.Username,
	}).Info("gratuity delivered")
	return entry, nil
}

// ListDeliveries retrieves ledger entries, optionally for one worker
func (s *GratuityService) ListDeliveries(ctx context.Context, params *pagination.PaginationParams, workerID *uuid.UUID) (*pagination.PaginatedResult[entity.GratuityEntry], error) {
	kind := enum.GratuityKindDelivered
	entries, total, err := s.gratuityRepo.List(ctx, &repository.GratuityFilterParams{
		Pagination: params,
		WorkerID:   workerID,
		Kind:       &kind,
	})
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(entries, params, total), nil
}

// activeRoster lists the workers currently on the roster.
func (s *GratuityService) activeRoster(ctx context.Context) ([]entity.User, error) {
	workers, err := s.userRepo.ListByRole(ctx, enum.RoleWorker)
	if err != nil {
		return nil, err
	}
	roster := workers[:0]
	for _, w := range workers {
		if w.IsActive {
			roster = append(roster, w)
		}
	}
	return roster, nil
}

func (s *GratuityService) compute(ctx context.Context) (*ledger.BalanceSheet, error) {
	roster, err := s.activeRoster(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListClosed(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	entries, err := s.gratuityRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sheet := ledger.Balances(roster, invoices, entries)
	return &sheet, nil
}
