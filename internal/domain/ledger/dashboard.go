package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WorkerStats is a worker's activity over a window.
type WorkerStats struct {
	Services   int             `json:"services"`
	Sales      decimal.Decimal `json:"sales"`
	Commission decimal.Decimal `json:"commission"`
	Gratuity   decimal.Decimal `json:"gratuity"`
	Total      decimal.Decimal `json:"total"`
}

// WorkerStatsIn sums the worker's service lines on closed invoices in w.
func WorkerStatsIn(invoices []entity.Invoice, workerID uuid.UUID, w Window, adminShare decimal.Decimal) WorkerStats {
	st := WorkerStats{Sales: decimal.Zero, Commission: decimal.Zero, Gratuity: decimal.Zero}
	for _, inv := range ClosedIn(invoices, w) {
		for _, s := range inv.ServiceLines {
			if s.WorkerID != workerID {
				continue
			}
			st.Services++
			st.Sales = st.Sales.Add(s.Price)
			st.Commission = st.Commission.Add(Commission(s.Price, adminShare))
			st.Gratuity = st.Gratuity.Add(s.Gratuity)
		}
	}
	st.Total = st.Commission.Add(st.Gratuity)
	return st
}

// AdminStats is the business-wide view of a window.
type AdminStats struct {
	InvoiceCount  int             `json:"invoice_count"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	ServiceCount  int             `json:"service_count"`
	ProductMargin decimal.Decimal `json:"product_margin"`
	AdminMargin   decimal.Decimal `json:"admin_margin"`
	OwedToWorkers decimal.Decimal `json:"owed_to_workers"`
}

// AdminStatsIn is derived from the weekly settlement over the same window.
func AdminStatsIn(invoices []entity.Invoice, w Window, adminShare decimal.Decimal) AdminStats {
	ws := Weekly(nil, invoices, w, adminShare)
	services := 0
	for _, wk := range ws.Workers {
		services += wk.Services
	}
	return AdminStats{
		InvoiceCount:  ws.InvoiceCount,
		TotalSales:    ws.Billed,
		ServiceCount:  services,
		ProductMargin: ws.ProductMargin,
		AdminMargin:   ws.AdminNet,
		OwedToWorkers: ws.OwedToWorkers,
	}
}

// TodaySummary is the live counter shown while invoicing.
type TodaySummary struct {
	DailySummary
	OpenInvoices int `json:"open_invoices"`
}

// Today combines the day's takings with the number of open invoices.
func Today(invoices []entity.Invoice, openCount int, now time.Time, loc *time.Location) TodaySummary {
	return TodaySummary{DailySummary: Daily(invoices, now, loc), OpenInvoices: openCount}
}

// WorkerServices groups a worker's service lines.
type WorkerServices struct {
	WorkerID   uuid.UUID            `json:"worker_id"`
	WorkerName string               `json:"worker_name"`
	Lines      []entity.ServiceLine `json:"lines"`
	Stats      WorkerStats          `json:"stats"`
}

// ServicesByWorker lists the service lines of closed invoices in w grouped by
// worker, in order of first appearance.
func ServicesByWorker(invoices []entity.Invoice, w Window, adminShare decimal.Decimal) []WorkerServices {
	closed := ClosedIn(invoices, w)
	index := make(map[uuid.UUID]int)
	out := []WorkerServices{}
	for _, inv := range closed {
		for _, s := range inv.ServiceLines {
			i, ok := index[s.WorkerID]
			if !ok {
				i = len(out)
				index[s.WorkerID] = i
				out = append(out, WorkerServices{WorkerID: s.WorkerID, WorkerName: s.WorkerName})
			}
			out[i].Lines = append(out[i].Lines, s)
		}
	}
	for i := range out {
		out[i].Stats = WorkerStatsIn(closed, out[i].WorkerID, Window{}, adminShare)
	}
	return out
}
