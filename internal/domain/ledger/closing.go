package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DailyRow is one closed invoice in the daily listing.
type DailyRow struct {
	InvoiceID uuid.UUID          `json:"invoice_id"`
	Number    string             `json:"number"`
	Customer  string             `json:"customer"`
	Method    enum.PaymentMethod `json:"method"`
	Cash      decimal.Decimal    `json:"cash"`
	Transfer  decimal.Decimal    `json:"transfer"`
	Amount    decimal.Decimal    `json:"amount"`
	ClosedAt  time.Time          `json:"closed_at"`
}

// DailySummary is the day's takings.
type DailySummary struct {
	Date       string          `json:"date"`
	Count      int             `json:"count"`
	Cash       decimal.Decimal `json:"cash"`
	Transfer   decimal.Decimal `json:"transfer"`
	Billed     decimal.Decimal `json:"billed"`
	Gratuities decimal.Decimal `json:"gratuities"`
	Rows       []DailyRow      `json:"rows"`
}

// Daily summarizes closed invoices whose closing falls on the calendar day
// of now in loc.
func Daily(invoices []entity.Invoice, now time.Time, loc *time.Location) DailySummary {
	selected := ClosedIn(invoices, DayWindow(now, loc))
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].ClosedAt.Before(*selected[j].ClosedAt)
	})

	sum := DailySummary{
		Date:       BusinessDate(now, loc),
		Cash:       decimal.Zero,
		Transfer:   decimal.Zero,
		Billed:     decimal.Zero,
		Gratuities: decimal.Zero,
		Rows:       make([]DailyRow, 0, len(selected)),
	}
	for _, inv := range selected {
		amount := inv.CashAmount.Add(inv.TransferAmount)
		sum.Count++
		sum.Cash = sum.Cash.Add(inv.CashAmount)
		sum.Transfer = sum.Transfer.Add(inv.TransferAmount)
		sum.Billed = sum.Billed.Add(amount)
		sum.Gratuities = sum.Gratuities.Add(InvoiceTotals(&inv).Gratuities)
		sum.Rows = append(sum.Rows, DailyRow{
			InvoiceID: inv.ID,
			Number:    inv.Number,
			Customer:  inv.CustomerName,
			Method:    inv.PaymentMethod,
			Cash:      inv.CashAmount,
			Transfer:  inv.TransferAmount,
			Amount:    amount,
			ClosedAt:  inv.ClosedAt.In(loc),
		})
	}
	return sum
}

// WorkerSettlement is what one worker earned over a window.
type WorkerSettlement struct {
	WorkerID   uuid.UUID       `json:"worker_id"`
	WorkerName string          `json:"worker_name"`
	Services   int             `json:"services"`
	Sales      decimal.Decimal `json:"sales"`
	Commission decimal.Decimal `json:"commission"`
	Gratuity   decimal.Decimal `json:"gratuity"`
	Total      decimal.Decimal `json:"total"`
}

// WeeklySettlement aggregates every closed invoice in a window.
type WeeklySettlement struct {
	From            *time.Time         `json:"from,omitempty"`
	InvoiceCount    int                `json:"invoice_count"`
	Cash            decimal.Decimal    `json:"cash"`
	Transfer        decimal.Decimal    `json:"transfer"`
	Billed          decimal.Decimal    `json:"billed"`
	ProductSales    decimal.Decimal    `json:"product_sales"`
	ProductMargin   decimal.Decimal    `json:"product_margin"`
	ServiceSales    decimal.Decimal    `json:"service_sales"`
	AdminCommission decimal.Decimal    `json:"admin_commission"`
	Workers         []WorkerSettlement `json:"workers"`
	OwedToWorkers   decimal.Decimal    `json:"owed_to_workers"`
	AdminNet        decimal.Decimal    `json:"admin_net"`
}

// Weekly computes the settlement over the closed invoices in w.
// Every roster member gets a row, zeroed when they had no services. Workers
// off the roster follow in order of first appearance.
func Weekly(roster []entity.User, invoices []entity.Invoice, w Window, adminShare decimal.Decimal) WeeklySettlement {
	from, _ := w.Bounds()
	ws := WeeklySettlement{
		From:            from,
		Cash:            decimal.Zero,
		Transfer:        decimal.Zero,
		Billed:          decimal.Zero,
		ProductSales:    decimal.Zero,
		ProductMargin:   decimal.Zero,
		ServiceSales:    decimal.Zero,
		AdminCommission: decimal.Zero,
		Workers:         []WorkerSettlement{},
		OwedToWorkers:   decimal.Zero,
	}

	index := make(map[uuid.UUID]int)
	row := func(id uuid.UUID, name string) int {
		i, ok := index[id]
		if !ok {
			i = len(ws.Workers)
			index[id] = i
			ws.Workers = append(ws.Workers, WorkerSettlement{
				WorkerID: id, WorkerName: name,
				Sales: decimal.Zero, Commission: decimal.Zero, Gratuity: decimal.Zero, Total: decimal.Zero,
			})
		}
		return i
	}
	for _, u := range roster {
		row(u.ID, u.FullName())
	}

	for _, inv := range ClosedIn(invoices, w) {
		ws.InvoiceCount++
		ws.Cash = ws.Cash.Add(inv.CashAmount)
		ws.Transfer = ws.Transfer.Add(inv.TransferAmount)
		ws.Billed = ws.Billed.Add(inv.CashAmount.Add(inv.TransferAmount))
		ws.ProductSales = ws.ProductSales.Add(InvoiceTotals(&inv).Products)
		ws.ProductMargin = ws.ProductMargin.Add(ProductMargin(inv.ProductLines))

		for _, s := range inv.ServiceLines {
			ws.ServiceSales = ws.ServiceSales.Add(s.Price)
			ws.AdminCommission = ws.AdminCommission.Add(AdminCommission(s.Price, adminShare))

			i := row(s.WorkerID, s.WorkerName)
			ws.Workers[i].Services++
			ws.Workers[i].Sales = ws.Workers[i].Sales.Add(s.Price)
			ws.Workers[i].Commission = ws.Workers[i].Commission.Add(Commission(s.Price, adminShare))
			ws.Workers[i].Gratuity = ws.Workers[i].Gratuity.Add(s.Gratuity)
		}
	}

	for i := range ws.Workers {
		wk := &ws.Workers[i]
		wk.Total = wk.Commission.Add(wk.Gratuity)
		ws.OwedToWorkers = ws.OwedToWorkers.Add(wk.Total)
	}
	ws.AdminNet = ws.ProductMargin.Add(ws.AdminCommission)
	return ws
}
