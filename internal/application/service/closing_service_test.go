package service

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/infrastructure/storage"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

func TestDailyClosingIsRepeatable(t *testing.T) {
	env := newTestEnv(t)
	worker := env.addWorker("pedro")
	env.serviceInvoice(worker, 20000, 2000)
	env.serviceInvoice(worker, 30000, 0)

	first, err := env.closings.Daily(env.ctx, env.admin)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	second, err := env.closings.Daily(env.ctx, env.admin)
	if err != nil {
		t.Fatalf("second daily: %v", err)
	}

	if first.Summary.Count != 2 || !first.Summary.Billed.Equal(d(52000)) {
		t.Fatalf("unexpected summary %+v", first.Summary)
	}
	if second.Summary.Count != first.Summary.Count || !second.Summary.Billed.Equal(first.Summary.Billed) {
		t.Fatalf("daily closing is not repeatable: %+v vs %+v", first.Summary, second.Summary)
	}
	if first.Record.Detail != "Cierre diario realizado por admin" || first.Record.BusinessDate != "2026-03-15" {
		t.Fatalf("unexpected record %+v", first.Record)
	}
	if n := env.count(&entity.Invoice{}); n != 2 {
		t.Fatalf("daily closing must not reset invoices, have %d", n)
	}

	rc, name, err := env.closings.OpenReport(env.ctx, first.Record.ID)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if len(data) == 0 || name == "" {
		t.Fatalf("empty report %q", name)
	}

	kind := enum.ClosingKindDaily
	page, err := env.closings.List(env.ctx, pagination.DefaultPagination(), &kind)
	if err != nil || len(page.Items) != 2 {
		t.Fatalf("list = %+v, %v", page, err)
	}
	if len(env.notifier.sent) != 2 || env.notifier.sent[0].Kind != "daily" {
		t.Fatalf("notifications = %+v", env.notifier.sent)
	}
}

func TestDailyClosingUsesLocalDay(t *testing.T) {
	env := newTestEnv(t)
	worker := env.addWorker("pedro")

	// 03:00 UTC on the 16th is still the 15th in Bogota.
	env.clock = time.Date(2026, 3, 16, 3, 0, 0, 0, time.UTC)
	env.serviceInvoice(worker, 20000, 0)
	env.clock = time.Date(2026, 3, 16, 4, 30, 0, 0, time.UTC)

	res, err := env.closings.Daily(env.ctx, env.admin)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if res.Summary.Date != "2026-03-15" || res.Summary.Count != 1 {
		t.Fatalf("unexpected summary %+v", res.Summary)
	}

	env.clock = time.Date(2026, 3, 16, 15, 0, 0, 0, time.UTC)
	res, err = env.closings.Daily(env.ctx, env.admin)
	if err != nil {
		t.Fatalf("next day: %v", err)
	}
	if res.Summary.Count != 0 {
		t.Fatalf("next local day should be empty, got %d", res.Summary.Count)
	}
}

func TestWeeklyClosingResetsInvoicesOnly(t *testing.T) {
	env := newTestEnv(t)
	worker := env.addWorker("pedro")
	shampoo := env.addBatch("Shampoo", 12000, 20000, 5, env.clock.AddDate(0, 0, -3))
	env.addBatch("Cera", 5000, 9000, 2, env.clock.AddDate(0, 0, -3))

	inv, err := env.invoices.Create(env.ctx, env.assistant, &CreateInvoiceInput{
		CustomerName: "Ana",
		Products:     []ProductSelection{{BatchID: shampoo.ID, Quantity: 2}},
		Services:     []ServiceLineInput{{WorkerID: worker.ID, Price: d(30000), Gratuity: d(5000)}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.invoices.Close(env.ctx, env.assistant, inv.ID, cashPayment(75000)); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := env.closings.Daily(env.ctx, env.admin); err != nil {
		t.Fatalf("daily: %v", err)
	}

	preview, err := env.closings.PreviewWeekly(env.ctx)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	ws := preview.Settlement
	if ws.InvoiceCount != 1 || !ws.ProductMargin.Equal(d(16000)) || !ws.AdminCommission.Equal(d(15000)) ||
		!ws.OwedToWorkers.Equal(d(20000)) || !ws.AdminNet.Equal(d(31000)) {
		t.Fatalf("unexpected settlement %+v", ws)
	}

	env.clock = env.clock.Add(2 * time.Hour)
	res, err := env.closings.Weekly(env.ctx, env.admin, &WeeklyInput{})
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if res.InvoicesRemoved != 1 || len(res.Payouts) != 0 || len(res.CarriedForward) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	if n := env.count(&entity.Invoice{}); n != 0 {
		t.Fatalf("invoices after weekly = %d", n)
	}
	if n := env.count(&entity.ServiceLine{}); n != 0 {
		t.Fatalf("service lines after weekly = %d", n)
	}
	if n := env.count(&entity.ProductBatch{}); n != 2 {
		t.Fatalf("batches after weekly = %d, want 2", n)
	}
	if got := env.remaining(shampoo.ID); got != 3 {
		t.Fatalf("remaining after weekly = %d, want 3", got)
	}

	var records []entity.ClosingRecord
	env.db.Find(&records)
	if len(records) != 1 || records[0].Kind != enum.ClosingKindWeekly || records[0].ReportRef == "" {
		t.Fatalf("records after weekly = %+v", records)
	}

	balance, err := env.gratuity.Balance(env.ctx, worker.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Pending.Equal(d(5000)) {
		t.Fatalf("pending must survive the reset, got %s", balance.Pending)
	}

	env.clock = env.clock.Add(time.Hour)
	after, err := env.closings.PreviewWeekly(env.ctx)
	if err != nil {
		t.Fatalf("preview after reset: %v", err)
	}
	if after.Settlement.InvoiceCount != 0 || after.Settlement.From == nil {
		t.Fatalf("new window should start empty at the weekly closing, got %+v", after.Settlement)
	}
}

func TestWeeklyClosingSettlesGratuities(t *testing.T) {
	env := newTestEnv(t)
	worker := env.addWorker("pedro")
	env.serviceInvoice(worker, 20000, 4000)

	res, err := env.closings.Weekly(env.ctx, env.admin, &WeeklyInput{SettleGratuities: true})
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(res.Payouts) != 1 || !res.Payouts[0].Amount.Equal(d(4000)) {
		t.Fatalf("payouts = %+v", res.Payouts)
	}

	balance, _ := env.gratuity.Balance(env.ctx, worker.ID)
	if !balance.Pending.IsZero() || !balance.Earned.Equal(d(4000)) {
		t.Fatalf("unexpected balance %+v", balance)
	}
}

func TestWeeklyClosingRejectsOpenInvoices(t *testing.T) {
	env := newTestEnv(t)
	worker := env.addWorker("pedro")
	env.serviceInvoice(worker, 20000, 1000)
	wax := env.addBatch("Cera", 5000, 9000, 5, env.clock)
	open, err := env.invoices.Create(env.ctx, env.assistant, &CreateInvoiceInput{
		CustomerName: "Sin pagar",
		Products:     []ProductSelection{{BatchID: wax.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = env.closings.Weekly(env.ctx, env.admin, &WeeklyInput{SettleGratuities: true})
	if !errors.Is(err, apperror.ErrOpenInvoicesPending) {
		t.Fatalf("err = %v, want open invoices pending", err)
	}
	if got := env.remaining(wax.ID); got != 3 {
		t.Fatalf("remaining = %d, want 3", got)
	}
	if n := env.count(&entity.Invoice{}); n != 2 {
		t.Fatalf("invoices = %d, want 2", n)
	}
	if n := env.count(&entity.GratuityEntry{}); n != 0 {
		t.Fatalf("entries = %d, want 0", n)
	}
	if n := env.count(&entity.ClosingRecord{}); n != 0 {
		t.Fatalf("records = %d, want 0", n)
	}

	if err := env.invoices.Discard(env.ctx, env.assistant, open.ID); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if _, err := env.closings.Weekly(env.ctx, env.admin, &WeeklyInput{}); err != nil {
		t.Fatalf("weekly after discard: %v", err)
	}
	if got := env.remaining(wax.ID); got != 5 {
		t.Fatalf("remaining after weekly = %d, want 5", got)
	}
}

func TestWeeklyClosingDropsReportWhenResetFails(t *testing.T) {
	env := newTestEnv(t)
	worker := env.addWorker("pedro")
	env.serviceInvoice(worker, 20000, 3000)

	store := &trackingStore{ArtifactStore: env.closings.store}
	env.closings.store = store
	env.closings.gratuityRepo = failingGratuityRepo{GratuityRepository: env.closings.gratuityRepo}

	if _, err := env.closings.Weekly(env.ctx, env.admin, &WeeklyInput{}); err == nil {
		t.Fatal("weekly should fail")
	}
	if len(store.saved) != 1 || len(store.deleted) != 1 || store.saved[0] != store.deleted[0] {
		t.Fatalf("saved=%v deleted=%v", store.saved, store.deleted)
	}
	if _, err := store.Open(env.ctx, store.saved[0]); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("report still stored: %v", err)
	}
	if n := env.count(&entity.Invoice{}); n != 1 {
		t.Fatalf("invoices = %d, want 1", n)
	}
	if n := env.count(&entity.ClosingRecord{}); n != 0 {
		t.Fatalf("records = %d, want 0", n)
	}
}

func TestWeeklySettlementListsWholeRoster(t *testing.T) {
	env := newTestEnv(t)
	pedro := env.addWorker("pedro")
	juan := env.addWorker("juan")
	env.serviceInvoice(pedro, 20000, 0)

	preview, err := env.closings.PreviewWeekly(env.ctx)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	rows := make(map[string]int)
	for _, w := range preview.Settlement.Workers {
		rows[w.WorkerID.String()] = w.Services
		if w.WorkerID == juan.ID && !w.Total.IsZero() {
			t.Fatalf("idle worker total = %s", w.Total)
		}
	}
	if len(rows) != 2 || rows[pedro.ID.String()] != 1 || rows[juan.ID.String()] != 0 {
		t.Fatalf("workers = %+v", preview.Settlement.Workers)
	}
}

func TestWeeklyClosingReportFailureChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	worker := env.addWorker("pedro")
	env.serviceInvoice(worker, 20000, 1000)
	env.closings.renderer = failingRenderer{}

	_, err := env.closings.Weekly(env.ctx, env.admin, &WeeklyInput{SettleGratuities: true})
	if !errors.Is(err, apperror.ErrReportFailed) {
		t.Fatalf("err = %v, want report failed", err)
	}
	if n := env.count(&entity.Invoice{}); n != 1 {
		t.Fatalf("invoices = %d, want 1", n)
	}
	if n := env.count(&entity.GratuityEntry{}); n != 0 {
		t.Fatalf("entries = %d, want 0", n)
	}
	if n := env.count(&entity.ClosingRecord{}); n != 0 {
		t.Fatalf("records = %d, want 0", n)
	}

	if _, err := env.closings.Daily(env.ctx, env.admin); !errors.Is(err, apperror.ErrReportFailed) {
		t.Fatalf("daily err = %v", err)
	}
}

func TestClosingsAreAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.closings.Daily(env.ctx, env.assistant); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("daily err = %v", err)
	}
	if _, err := env.closings.Weekly(env.ctx, env.assistant, &WeeklyInput{}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("weekly err = %v", err)
	}
}
