package service

import (
	"time"

	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/ledger"
)

func dailyReport(business BusinessSettings, sum ledger.DailySummary, actor Actor, now time.Time) *entity.Report {
	rows := make([][]any, 0, len(sum.Rows))
	for _, r := range sum.Rows {
		rows = append(rows, []any{r.Number, r.Customer, r.Method.String(), r.Cash, r.Transfer, r.Amount, r.ClosedAt})
	}

	return &entity.Report{
		Title:    business.Name,
		Subtitle: "Cierre diario",
		Date:     now,
		Sections: []entity.ReportSection{
			{
				Title:  "Resumen " + sum.Date,
				Header: []string{"Concepto", "Valor"},
				Rows: [][]any{
					{"Facturas", sum.Count},
					{"Efectivo", sum.Cash},
					{"Transferencia", sum.Transfer},
					{"Total facturado", sum.Billed},
					{"Propinas", sum.Gratuities},
				},
			},
			{
				Title:  "Facturas cerradas",
				Header: []string{"Factura", "Cliente", "Pago", "Efectivo", "Transferencia", "Total", "Hora"},
				Rows:   rows,
			},
		},
		Note: "Cierre realizado por " + actor.Username,
	}
}

func weeklyReport(business BusinessSettings, ws ledger.WeeklySettlement, sheet *ledger.BalanceSheet, actor Actor, now time.Time) *entity.Report {
	workers := make([][]any, 0, len(ws.Workers))
	for _, w := range ws.Workers {
		workers = append(workers, []any{w.WorkerName, w.Services, w.Sales, w.Commission, w.Gratuity, w.Total})
	}
	balances := make([][]any, 0, len(sheet.Balances))
	for _, b := range sheet.Balances {
		balances = append(balances, []any{b.WorkerName, b.Earned, b.Delivered, b.Pending})
	}

	from := "inicio"
	if ws.From != nil {
		from = ws.From.In(business.location()).Format("2006-01-02 15:04")
	}

	return &entity.Report{
		Title:    business.Name,
		Subtitle: "Cierre semanal",
		Date:     now,
		Sections: []entity.ReportSection{
			{
				Title:  "Resumen desde " + from,
				Header: []string{"Concepto", "Valor"},
				Rows: [][]any{
					{"Facturas", ws.InvoiceCount},
					{"Efectivo", ws.Cash},
					{"Transferencia", ws.Transfer},
					{"Total facturado", ws.Billed},
					{"Venta de productos", ws.ProductSales},
					{"Ganancia productos", ws.ProductMargin},
					{"Venta de servicios", ws.ServiceSales},
					{"Comision administracion", ws.AdminCommission},
					{"Total a barberos", ws.OwedToWorkers},
					{"Neto administracion", ws.AdminNet},
				},
			},
			{
				Title:  "Liquidacion por barbero",
				Header: []string{"Barbero", "Servicios", "Ventas", "Comision", "Propinas", "Total"},
				Rows:   workers,
			},
			{
				Title:  "Propinas",
				Header: []string{"Barbero", "Ganado", "Entregado", "Pendiente"},
				Rows:   balances,
			},
		},
		Note: "Cierre realizado por " + actor.Username,
	}
}
