package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.User{}, &entity.ProductBatch{}, &entity.Invoice{},
		&entity.InvoiceProductLine{}, &entity.ServiceLine{}, &entity.GratuityEntry{},
		&entity.ClosingRecord{}, &entity.IdempotencyKey{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAtomicDecrementAndIncrement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBatchRepository(db)
	ctx := context.Background()

	batch := &entity.ProductBatch{Name: "Cera Mate", UnitCost: decimal.NewFromInt(8000), UnitPrice: decimal.NewFromInt(15000), Remaining: 3, IntakeAt: time.Now().UTC()}
	if err := repo.Create(ctx, batch); err != nil {
		t.Fatalf("create: %v", err)
	}
	if batch.NormalizedName != "cera mate" {
		t.Fatalf("normalized name = %q", batch.NormalizedName)
	}

	ok, err := repo.AtomicDecrement(ctx, batch.ID, 5)
	if err != nil || ok {
		t.Fatalf("decrement past stock should fail quietly, got ok=%v err=%v", ok, err)
	}
	ok, err = repo.AtomicDecrement(ctx, batch.ID, 3)
	if err != nil || !ok {
		t.Fatalf("decrement: ok=%v err=%v", ok, err)
	}
	if ok, err = repo.Increment(ctx, batch.ID, 3); err != nil || !ok {
		t.Fatalf("increment: ok=%v err=%v", ok, err)
	}
	got, _ := repo.GetByID(ctx, batch.ID)
	if got.Remaining != 3 || got.Version != 3 {
		t.Fatalf("remaining=%d version=%d", got.Remaining, got.Version)
	}

	if ok, err = repo.Increment(ctx, uuid.New(), 1); err != nil || ok {
		t.Fatalf("increment on a missing batch should report false")
	}

	list, total, err := repo.List(ctx, &domainRepo.BatchFilterParams{Pagination: pagination.FromQuery("1", "10"), Search: "CERA"})
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("list: total=%d err=%v", total, err)
	}
}

func TestTransactionRollsBackEveryRepository(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTxManager(db)
	batches := NewBatchRepository(db)
	invoices := NewInvoiceRepository(db)
	ctx := context.Background()

	batch := &entity.ProductBatch{Name: "Shampoo", UnitPrice: decimal.NewFromInt(20000), Remaining: 2, IntakeAt: time.Now().UTC()}
	if err := batches.Create(ctx, batch); err != nil {
		t.Fatalf("create batch: %v", err)
	}

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := batches.AtomicDecrement(ctx, batch.ID, 2); err != nil {
			return err
		}
		inv := &entity.Invoice{Number: "FAC-1", CustomerName: "Ana", CreatedBy: uuid.New()}
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	got, _ := batches.GetByID(ctx, batch.ID)
	if got.Remaining != 2 {
		t.Fatalf("remaining = %d, want 2 after rollback", got.Remaining)
	}
	if n, _ := invoices.CountOpen(ctx); n != 0 {
		t.Fatalf("invoice survived the rollback")
	}
}

func TestInvoiceLifecycleQueries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()
	worker := uuid.New()

	inv := &entity.Invoice{
		Number:       "FAC-2",
		CustomerName: "Ana Maria",
		CreatedBy:    uuid.New(),
		ProductLines: []entity.InvoiceProductLine{{BatchID: uuid.New(), Name: "Shampoo", UnitPrice: decimal.NewFromInt(20000), Quantity: 1}},
		ServiceLines: []entity.ServiceLine{{WorkerID: worker, WorkerName: "Jose", Price: decimal.NewFromInt(30000)}},
	}
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	extra := &entity.ServiceLine{InvoiceID: inv.ID, WorkerID: worker, WorkerName: "Jose", Price: decimal.NewFromInt(10000)}
	if err := repo.AddServiceLine(ctx, extra); err != nil {
		t.Fatalf("add service line: %v", err)
	}
	if extra.Position != 1 {
		t.Fatalf("position = %d, want 1", extra.Position)
	}

	if has, _ := repo.WorkerHasClosedServices(ctx, worker); has {
		t.Fatalf("open invoices must not count as recorded services")
	}

	closedAt := time.Now().UTC()
	inv.PaymentMethod = enum.PaymentMethodCash
	inv.CashAmount = decimal.NewFromInt(60000)
	inv.ClosedAt = &closedAt
	if ok, err := repo.CloseIfOpen(ctx, inv); err != nil || !ok {
		t.Fatalf("close: ok=%v err=%v", ok, err)
	}
	if ok, _ := repo.CloseIfOpen(ctx, inv); ok {
		t.Fatalf("second close must not apply")
	}
	if has, _ := repo.WorkerHasClosedServices(ctx, worker); !has {
		t.Fatalf("closed invoice should count as recorded services")
	}

	from := closedAt.Add(-time.Minute)
	closed, err := repo.ListClosed(ctx, &from, nil)
	if err != nil || len(closed) != 1 || len(closed[0].ServiceLines) != 2 {
		t.Fatalf("list closed: %v %+v", err, closed)
	}
	later := closedAt.Add(time.Minute)
	if closed, _ = repo.ListClosed(ctx, &later, nil); len(closed) != 0 {
		t.Fatalf("window should exclude earlier invoices")
	}

	list, total, err := repo.List(ctx, &domainRepo.InvoiceFilterParams{Pagination: pagination.FromQuery("1", "10"), Search: "maria"})
	if err != nil || total != 1 || len(list[0].ProductLines) != 1 {
		t.Fatalf("list: total=%d err=%v", total, err)
	}

	deleted, err := repo.DeleteAll(ctx)
	if err != nil || deleted != 1 {
		t.Fatalf("delete all: %d %v", deleted, err)
	}
	var lines int64
	db.Model(&entity.ServiceLine{}).Count(&lines)
	if lines != 0 {
		t.Fatalf("service lines left behind: %d", lines)
	}
}

func TestClosingAndIdempotencyRepositories(t *testing.T) {
	db := setupTestDB(t)
	closings := NewClosingRepository(db)
	keys := NewIdempotencyRepository(db)
	ctx := context.Background()

	if latest, err := closings.LatestWeekly(ctx); err != nil || latest != nil {
		t.Fatalf("expected no weekly closing yet")
	}
	base := time.Now().UTC()
	for i, kind := range []enum.ClosingKind{enum.ClosingKindWeekly, enum.ClosingKindDaily, enum.ClosingKindWeekly} {
		rec := &entity.ClosingRecord{Kind: kind, BusinessDate: "2026-03-15", ClosedAt: base.Add(time.Duration(i) * time.Hour), PerformedBy: uuid.New()}
		if err := closings.Create(ctx, rec); err != nil {
			t.Fatalf("create closing: %v", err)
		}
	}
	latest, err := closings.LatestWeekly(ctx)
	if err != nil || latest == nil || !latest.ClosedAt.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("latest weekly = %+v, %v", latest, err)
	}

	user := uuid.New()
	key := &entity.IdempotencyKey{Key: "abc", UserID: user, Endpoint: "POST /x", RequestHash: "h", ResponseCode: 201, ExpiresAt: base.Add(-time.Second)}
	if err := keys.Create(ctx, key); err != nil {
		t.Fatalf("create key: %v", err)
	}
	if got, _ := keys.GetByKey(ctx, "abc", user); got == nil || got.ResponseCode != 201 {
		t.Fatalf("stored key not found")
	}
	if n, err := keys.DeleteExpired(ctx, base); err != nil || n != 1 {
		t.Fatalf("delete expired: %d %v", n, err)
	}
}
