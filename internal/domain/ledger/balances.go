package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// WorkerBalance is a worker's gratuity position.
// Pending = Earned - Delivered and is never clamped.
type WorkerBalance struct {
	WorkerID   uuid.UUID       `json:"worker_id"`
	WorkerName string          `json:"worker_name"`
	Active     bool            `json:"active"`
	Earned     decimal.Decimal `json:"earned"`
	Delivered  decimal.Decimal `json:"delivered"`
	Pending    decimal.Decimal `json:"pending"`
}

// IntegrityWarning flags a worker whose deliveries exceed what was earned.
type IntegrityWarning struct {
	WorkerID   uuid.UUID       `json:"worker_id"`
	WorkerName string          `json:"worker_name"`
	Pending    decimal.Decimal `json:"pending"`
}

// BalanceSheet is the gratuity position of every worker.
type BalanceSheet struct {
	Balances []WorkerBalance    `json:"balances"`
	Warnings []IntegrityWarning `json:"warnings"`
}

// Find returns the balance for workerID, or a zero balance.
func (s BalanceSheet) Find(workerID uuid.UUID) WorkerBalance {
	for _, b := range s.Balances {
		if b.WorkerID == workerID {
			return b
		}
	}
	return WorkerBalance{WorkerID: workerID, Earned: decimal.Zero, Delivered: decimal.Zero, Pending: decimal.Zero}
}

// Balances derives every worker's gratuity position from scratch.
//
// Earned adds gratuities on closed invoices and carried-forward earned
// entries; Delivered adds payouts. Roster workers come first in roster
// order, followed by workers that only appear in history.
func Balances(roster []entity.User, invoices []entity.Invoice, entries []entity.GratuityEntry) BalanceSheet {
	index := make(map[uuid.UUID]int)
	var list []WorkerBalance

	get := func(id uuid.UUID, name string, active bool) *WorkerBalance {
		if i, ok := index[id]; ok {
			return &list[i]
		}
		index[id] = len(list)
		list = append(list, WorkerBalance{
			WorkerID: id, WorkerName: name, Active: active,
			Earned: decimal.Zero, Delivered: decimal.Zero, Pending: decimal.Zero,
		})
		return &list[len(list)-1]
	}

	for _, u := range roster {
		get(u.ID, u.FullName(), true)
	}
	rosterLen := len(list)

	for _, inv := range invoices {
		if inv.Status != enum.InvoiceStatusClosed {
			continue
		}
		for _, s := range inv.ServiceLines {
			if !s.HasGratuity() {
				continue
			}
			b := get(s.WorkerID, s.WorkerName, false)
			b.Earned = b.Earned.Add(s.Gratuity)
		}
	}
	for _, e := range entries {
		b := get(e.WorkerID, e.WorkerName, false)
		if e.Kind == enum.GratuityKindEarned {
			b.Earned = b.Earned.Add(e.Amount)
		} else {
			b.Delivered = b.Delivered.Add(e.Amount)
		}
	}

	orphans := list[rosterLen:]
	sort.SliceStable(orphans, func(i, j int) bool { return orphans[i].WorkerName < orphans[j].WorkerName })

	sheet := BalanceSheet{Balances: list, Warnings: []IntegrityWarning{}}
	if sheet.Balances == nil {
		sheet.Balances = []WorkerBalance{}
	}
	for i := range sheet.Balances {
		b := &sheet.Balances[i]
		b.Pending = b.Earned.Sub(b.Delivered)
		if b.Pending.IsNegative() {
			sheet.Warnings = append(sheet.Warnings, IntegrityWarning{
				WorkerID: b.WorkerID, WorkerName: b.WorkerName, Pending: b.Pending,
			})
		}
	}
	return sheet
}

// CarryForward turns the gratuity earned on closed invoices into one earned
// ledger entry per worker, so that it survives the invoices being deleted.
func CarryForward(invoices []entity.Invoice) []entity.GratuityEntry {
	var order []uuid.UUID
	sums := make(map[uuid.UUID]*entity.GratuityEntry)
	for _, inv := range invoices {
		if inv.Status != enum.InvoiceStatusClosed {
			continue
		}
		for _, s := range inv.ServiceLines {
			if !s.HasGratuity() {
				continue
			}
			e, ok := sums[s.WorkerID]
			if !ok {
				e = &entity.GratuityEntry{
					WorkerID:   s.WorkerID,
					WorkerName: s.WorkerName,
					Amount:     decimal.Zero,
					Kind:       enum.GratuityKindEarned,
				}
				sums[s.WorkerID] = e
				order = append(order, s.WorkerID)
			}
			e.Amount = e.Amount.Add(s.Gratuity)
		}
	}
	out := make([]entity.GratuityEntry, 0, len(order))
	for _, id := range order {
		out = append(out, *sums[id])
	}
	return out
}
