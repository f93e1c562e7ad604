package ledger

import (
	"time"

	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
)

// DateLayout is the format of business dates on closing records.
const DateLayout = "2006-01-02"

// Window is a half-open time range [From, To). A zero bound is unbounded.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// Bounds returns the window as optional pointers for range queries.
func (w Window) Bounds() (from, to *time.Time) {
	if !w.From.IsZero() {
		f := w.From
		from = &f
	}
	if !w.To.IsZero() {
		t := w.To
		to = &t
	}
	return from, to
}

// WeekWindow starts at the last weekly closing, or at the epoch when there
// has been none.
func WeekWindow(lastWeekly *entity.ClosingRecord) Window {
	if lastWeekly == nil {
		return Window{}
	}
	return Window{From: lastWeekly.ClosedAt}
}

// DayWindow covers the calendar day of now in loc.
func DayWindow(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Window{From: start, To: start.AddDate(0, 0, 1)}
}

// BusinessDate formats t as a calendar date in loc.
func BusinessDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ClosedIn keeps the closed invoices whose ClosedAt falls in w.
func ClosedIn(invoices []entity.Invoice, w Window) []entity.Invoice {
	out := make([]entity.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Status != enum.InvoiceStatusClosed || inv.ClosedAt == nil {
			continue
		}
		if w.Contains(*inv.ClosedAt) {
			out = append(out, inv)
		}
	}
	return out
}
