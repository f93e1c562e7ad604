package service

import (
	"errors"
	"testing"

	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"github.com/sangkips/barberpos-api/pkg/utils"
)

func TestAddWorker(t *testing.T) {
	env := newTestEnv(t)

	w, err := env.workers.Add(env.ctx, env.admin, &AddWorkerInput{FirstName: "Jose", LastName: "Torres", Username: " JTorres ", Password: "secreto"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if w.Username != "jtorres" || w.Role != enum.RoleWorker || !w.IsActive || !utils.CheckPasswordHash("secreto", w.Password) {
		t.Fatalf("unexpected worker %+v", w)
	}

	_, err = env.workers.Add(env.ctx, env.admin, &AddWorkerInput{FirstName: "Otro", LastName: "Jose", Username: "jtorres", Password: "x"})
	if !errors.Is(err, apperror.ErrDuplicateWorker) {
		t.Fatalf("duplicate err = %v", err)
	}

	_, err = env.workers.Add(env.ctx, env.assistant, &AddWorkerInput{FirstName: "A", LastName: "B", Username: "ab", Password: "x"})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("assistant add err = %v", err)
	}

	_, err = env.workers.Add(env.ctx, env.admin, &AddWorkerInput{})
	if appErr := apperror.GetAppError(err); appErr.Kind != apperror.KindValidation || len(appErr.Errors) != 4 {
		t.Fatalf("validation err = %+v", appErr)
	}

	page, err := env.workers.List(env.ctx, pagination.DefaultPagination(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("roster = %d, want 1", len(page.Items))
	}
}

func TestUpdateWorker(t *testing.T) {
	env := newTestEnv(t)
	pedro := env.addWorker("pedro")
	env.addWorker("juan")

	taken := "juan"
	if _, err := env.workers.Update(env.ctx, env.admin, pedro.ID, &UpdateWorkerInput{Username: &taken}); !errors.Is(err, apperror.ErrDuplicateWorker) {
		t.Fatalf("duplicate err = %v", err)
	}

	inactive := false
	name := "Pedro Pablo"
	updated, err := env.workers.Update(env.ctx, env.admin, pedro.ID, &UpdateWorkerInput{FirstName: &name, IsActive: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Pedro Pablo" || updated.IsActive {
		t.Fatalf("unexpected worker %+v", updated)
	}

	// Inactive workers cannot receive new service lines.
	_, err = env.invoices.Create(env.ctx, env.assistant, &CreateInvoiceInput{
		CustomerName: "Ana",
		Services:     []ServiceLineInput{{WorkerID: pedro.ID, Price: d(100)}},
	})
	if !errors.Is(err, apperror.ErrInvalidWorkerOrPrice) {
		t.Fatalf("inactive worker err = %v", err)
	}
}

func TestRemoveWorker(t *testing.T) {
	env := newTestEnv(t)
	busy := env.addWorker("pedro")
	idle := env.addWorker("juan")
	env.serviceInvoice(busy, 20000, 0)

	if err := env.workers.Remove(env.ctx, env.admin, busy.ID); !errors.Is(err, apperror.ErrWorkerHasRecordedServices) {
		t.Fatalf("remove busy err = %v", err)
	}
	if err := env.workers.Remove(env.ctx, env.admin, idle.ID); err != nil {
		t.Fatalf("remove idle: %v", err)
	}
	if _, err := env.workers.Get(env.ctx, idle.ID); apperror.GetAppError(err).Kind != apperror.KindNotFound {
		t.Fatalf("removed worker err = %v", err)
	}
	if err := env.workers.Remove(env.ctx, env.admin, env.assistant.ID); apperror.GetAppError(err).Kind != apperror.KindNotFound {
		t.Fatalf("non-worker removal err = %v", err)
	}
}
