package service

import (
	"context"
	"errors"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/ledger"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/report"
	"github.com/sangkips/barberpos-api/internal/infrastructure/storage"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/email"
	"github.com/sangkips/barberpos-api/pkg/lock"
	"github.com/sangkips/barberpos-api/pkg/logger"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// settlementLockKey serializes the weekly closing and gratuity deliveries
const settlementLockKey = "ledger:settlement"

// ClosingNotifier is told about every persisted closing
type ClosingNotifier interface {
	SendClosingSummary(to string, summary email.ClosingSummary) error
}

// ClosingService runs the daily and weekly closings
type ClosingService struct {
	invoiceRepo   repository.InvoiceRepository
	gratuityRepo  repository.GratuityRepository
	closingRepo   repository.ClosingRepository
	txManager     repository.TxManager
	gratuity      *GratuityService
	renderer      report.Renderer
	store         storage.ArtifactStore
	locker        lock.Locker
	lockTTL       time.Duration
	reportTimeout time.Duration
	notifier      ClosingNotifier
	business      BusinessSettings
	log           logrus.FieldLogger
	now           func() time.Time
}

// ClosingServiceConfig groups the collaborators of the closing service
type ClosingServiceConfig struct {
	InvoiceRepo   repository.InvoiceRepository
	GratuityRepo  repository.GratuityRepository
	ClosingRepo   repository.ClosingRepository
	TxManager     repository.TxManager
	Gratuity      *GratuityService
	Renderer      report.Renderer
	Store         storage.ArtifactStore
	Locker        lock.Locker
	LockTTL       time.Duration
	ReportTimeout time.Duration
	Notifier      ClosingNotifier // optional
	Business      BusinessSettings
	Log           logrus.FieldLogger
}

// NewClosingService creates a new closing service
func NewClosingService(cfg ClosingServiceConfig) *ClosingService {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.ReportTimeout <= 0 {
		cfg.ReportTimeout = 30 * time.Second
	}
	return &ClosingService{
		invoiceRepo:   cfg.InvoiceRepo,
		gratuityRepo:  cfg.GratuityRepo,
		closingRepo:   cfg.ClosingRepo,
		txManager:     cfg.TxManager,
		gratuity:      cfg.Gratuity,
		renderer:      cfg.Renderer,
		store:         cfg.Store,
		locker:        cfg.Locker,
		lockTTL:       cfg.LockTTL,
		reportTimeout: cfg.ReportTimeout,
		notifier:      cfg.Notifier,
		business:      cfg.Business,
		log:           cfg.Log,
		now:           utcNow,
	}
}

// WeeklyInput represents the weekly closing options
type WeeklyInput struct {
	// SettleGratuities pays out every positive pending balance before the reset.
	SettleGratuities bool
}

// DailyResult is the outcome of a daily closing
type DailyResult struct {
	Record  *entity.ClosingRecord `json:"record"`
	Summary ledger.DailySummary   `json:"summary"`
}

// WeeklyPreview is the settlement that a weekly closing would produce now
type WeeklyPreview struct {
	Settlement ledger.WeeklySettlement   `json:"settlement"`
	Balances   []ledger.WorkerBalance    `json:"balances"`
	Warnings   []ledger.IntegrityWarning `json:"warnings"`
}

// WeeklyResult is the outcome of a weekly closing
type WeeklyResult struct {
	Record          *entity.ClosingRecord   `json:"record"`
	Settlement      ledger.WeeklySettlement `json:"settlement"`
	Payouts         []entity.GratuityEntry  `json:"payouts"`
	CarriedForward  []entity.GratuityEntry  `json:"carried_forward"`
	InvoicesRemoved int64                   `json:"invoices_removed"`
}

// Daily summarizes today's closed invoices and records the closing once the
// report is stored. Nothing is reset.
func (s *ClosingService) Daily(ctx context.Context, actor Actor) (*DailyResult, error) {
	if err := requireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}

	now := s.now()
	loc := s.business.location()
	from, to := ledger.DayWindow(now, loc).Bounds()
	invoices, err := s.invoiceRepo.ListClosed(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary := ledger.Daily(invoices, now, loc)

	ref, err := s.publish(ctx, dailyReport(s.business, summary, actor, now))
	if err != nil {
		return nil, err
	}

	record := &entity.ClosingRecord{
		Kind:          enum.ClosingKindDaily,
		BusinessDate:  summary.Date,
		ClosedAt:      now,
		Detail:        "Cierre diario realizado por " + actor.Username,
		ReportRef:     ref,
		InvoiceCount:  summary.Count,
		CashTotal:     summary.Cash,
		TransferTotal: summary.Transfer,
		BilledTotal:   summary.Billed,
		PerformedBy:   actor.ID,
	}
	if err := s.closingRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"closing_id": record.ID,
		"date":       record.BusinessDate,
		"invoices":   record.InvoiceCount,
		"billed":     record.BilledTotal.String(),
	}).Info("daily closing recorded")

	s.notify(record, actor, []email.ClosingLine{
		{Label: "Facturas", Amount: decimal.NewFromInt(int64(summary.Count)).String()},
		{Label: "Efectivo", Amount: summary.Cash.StringFixed(2)},
		{Label: "Transferencia", Amount: summary.Transfer.StringFixed(2)},
		{Label: "Total facturado", Amount: summary.Billed.StringFixed(2)},
	})
	return &DailyResult{Record: record, Summary: summary}, nil
}

// PreviewWeekly computes the weekly settlement without changing anything
func (s *ClosingService) PreviewWeekly(ctx context.Context) (*WeeklyPreview, error) {
	settlement, sheet, err := s.weeklyFigures(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range sheet.Warnings {
		logger.LogWarn(s.log, "ClosingService", "PreviewWeekly", "pending gratuity is negative",
			map[string]any{"worker_id": w.WorkerID, "pending": w.Pending.String()})
	}
	return &WeeklyPreview{Settlement: settlement, Balances: sheet.Balances, Warnings: sheet.Warnings}, nil
}

// Weekly settles the week and resets the invoice ledger.
//
// Open invoices must be closed or discarded first. The report is stored
// first; if that fails nothing changes. The payouts, carry-forward entries,
// the deletion of invoices and closing records, and the new weekly record
// then commit together. Batches are never touched.
func (s *ClosingService) Weekly(ctx context.Context, actor Actor, input *WeeklyInput) (*WeeklyResult, error) {
	if err := requireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}

	var result *WeeklyResult
	err := lock.WithLock(ctx, s.locker, settlementLockKey, s.lockTTL, func(ctx context.Context) error {
		now := s.now()
		open, err := s.invoiceRepo.CountOpen(ctx)
		if err != nil {
			return err
		}
		if open > 0 {
			return apperror.ErrOpenInvoicesPending
		}

		settlement, sheet, err := s.weeklyFigures(ctx)
		if err != nil {
			return err
		}

		ref, err := s.publish(ctx, weeklyReport(s.business, settlement, sheet, actor, now))
		if err != nil {
			return err
		}

		result = &WeeklyResult{Settlement: settlement, Payouts: []entity.GratuityEntry{}}
		err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			if input != nil && input.SettleGratuities {
				current, err := s.gratuity.compute(ctx)
				if err != nil {
					return err
				}
				for _, b := range current.Balances {
					if !b.Pending.IsPositive() {
						continue
					}
					result.Payouts = append(result.Payouts, entity.GratuityEntry{
						WorkerID:   b.WorkerID,
						WorkerName: b.WorkerName,
						Amount:     b.Pending,
						Kind:       enum.GratuityKindDelivered,
						OccurredAt: now,
						RecordedBy: actor.ID,
						Note:       "Liquidacion semanal",
					})
				}
			}

			closed, err := s.invoiceRepo.ListClosed(ctx, nil, nil)
			if err != nil {
				return err
			}
			result.CarriedForward = ledger.CarryForward(closed)
			for i := range result.CarriedForward {
				result.CarriedForward[i].OccurredAt = now
				result.CarriedForward[i].RecordedBy = actor.ID
				result.CarriedForward[i].Note = "Propinas acumuladas al cierre semanal"
			}

			entries := append(append([]entity.GratuityEntry{}, result.Payouts...), result.CarriedForward...)
			if len(entries) > 0 {
				if err := s.gratuityRepo.CreateBatch(ctx, entries); err != nil {
					return err
				}
			}

			stillOpen, err := s.invoiceRepo.CountOpen(ctx)
			if err != nil {
				return err
			}
			if stillOpen > 0 {
				return apperror.ErrOpenInvoicesPending
			}

			if result.InvoicesRemoved, err = s.invoiceRepo.DeleteAll(ctx); err != nil {
				return err
			}
			if err := s.closingRepo.DeleteAll(ctx); err != nil {
				return err
			}

			result.Record = &entity.ClosingRecord{
				Kind:          enum.ClosingKindWeekly,
				BusinessDate:  ledger.BusinessDate(now, s.business.location()),
				ClosedAt:      now,
				Detail:        "Cierre semanal realizado por " + actor.Username,
				ReportRef:     ref,
				InvoiceCount:  settlement.InvoiceCount,
				CashTotal:     settlement.Cash,
				TransferTotal: settlement.Transfer,
				BilledTotal:   settlement.Billed,
				PerformedBy:   actor.ID,
			}
			return s.closingRepo.Create(ctx, result.Record)
		})
		if err != nil {
			s.discardReport(ref)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"closing_id":       result.Record.ID,
		"invoices_removed": result.InvoicesRemoved,
		"payouts":          len(result.Payouts),
		"billed":           result.Settlement.Billed.String(),
	}).Info("weekly closing recorded")

	s.notify(result.Record, actor, []email.ClosingLine{
		{Label: "Total facturado", Amount: result.Settlement.Billed.StringFixed(2)},
		{Label: "Ganancia productos", Amount: result.Settlement.ProductMargin.StringFixed(2)},
		{Label: "Comision administracion", Amount: result.Settlement.AdminCommission.StringFixed(2)},
		{Label: "Total a barberos", Amount: result.Settlement.OwedToWorkers.StringFixed(2)},
		{Label: "Neto administracion", Amount: result.Settlement.AdminNet.StringFixed(2)},
	})
	return result, nil
}

// List retrieves closing records with pagination
func (s *ClosingService) List(ctx context.Context, params *pagination.PaginationParams, kind *enum.ClosingKind) (*pagination.PaginatedResult[entity.ClosingRecord], error) {
	records, total, err := s.closingRepo.List(ctx, params, kind)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(records, params, total), nil
}

// Get retrieves a closing record by ID
func (s *ClosingService) Get(ctx context.Context, id uuid.UUID) (*entity.ClosingRecord, error) {
	record, err := s.closingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Closing record")
	}
	return record, nil
}

// OpenReport opens the stored report of a closing. The caller closes the reader.
func (s *ClosingService) OpenReport(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if record.ReportRef == "" {
		return nil, "", apperror.NewNotFoundError("Closing report")
	}

	rc, err := s.store.Open(ctx, record.ReportRef)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", apperror.NewNotFoundError("Closing report")
		}
		return nil, "", err
	}
	return rc, path.Base(record.ReportRef), nil
}

func (s *ClosingService) weeklyFigures(ctx context.Context) (ledger.WeeklySettlement, *ledger.BalanceSheet, error) {
	week, err := currentWeek(ctx, s.closingRepo)
	if err != nil {
		return ledger.WeeklySettlement{}, nil, err
	}
	from, to := week.Bounds()
	invoices, err := s.invoiceRepo.ListClosed(ctx, from, to)
	if err != nil {
		return ledger.WeeklySettlement{}, nil, err
	}
	sheet, err := s.gratuity.compute(ctx)
	if err != nil {
		return ledger.WeeklySettlement{}, nil, err
	}
	roster, err := s.gratuity.activeRoster(ctx)
	if err != nil {
		return ledger.WeeklySettlement{}, nil, err
	}
	return ledger.Weekly(roster, invoices, week, s.business.AdminShare), sheet, nil
}

// publish renders and stores a report, returning its reference.
func (s *ClosingService) publish(ctx context.Context, r *entity.Report) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.reportTimeout)
	defer cancel()

	artifact, err := s.renderer.Render(ctx, r)
	if err != nil {
		logger.LogError(s.log, "ClosingService", "publish", "render report", r.Subtitle, err)
		return "", apperror.ErrReportFailed
	}
	ref, err := s.store.Save(ctx, artifact.Name, artifact.ContentType, artifact.Data)
	if err != nil {
		logger.LogError(s.log, "ClosingService", "publish", "store report", artifact.Name, err)
		return "", apperror.ErrReportFailed
	}
	return ref, nil
}

// discardReport removes a stored report whose closing did not commit.
func (s *ClosingService) discardReport(ref string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.reportTimeout)
	defer cancel()
	if err := s.store.Delete(ctx, ref); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.LogError(s.log, "ClosingService", "discardReport", "delete report", ref, err)
	}
}

func (s *ClosingService) notify(record *entity.ClosingRecord, actor Actor, lines []email.ClosingLine) {
	if s.notifier == nil || s.business.OwnerEmail == "" {
		return
	}
	summary := email.ClosingSummary{
		BusinessName: s.business.Name,
		Kind:         record.Kind.String(),
		BusinessDate: record.BusinessDate,
		PerformedBy:  actor.Username,
		Lines:        lines,
		ReportRef:    record.ReportRef,
	}
	if err := s.notifier.SendClosingSummary(s.business.OwnerEmail, summary); err != nil {
		logger.LogError(s.log, "ClosingService", "notify", "send closing summary", record.ID, err)
	}
}
