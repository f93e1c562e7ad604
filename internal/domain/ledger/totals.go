// Package ledger holds the pure computations behind invoicing, gratuity
// balances and closings. Nothing here touches storage; every function is
// deterministic for the same input.
package ledger

import (
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DefaultAdminShare is the business's cut of every service price.
var DefaultAdminShare = decimal.NewFromFloat(0.5)

// MoneyPlaces is the scale every money column is stored at.
const MoneyPlaces = 2

// HasMoneyScale reports whether every amount fits in MoneyPlaces decimals.
func HasMoneyScale(amounts ...decimal.Decimal) bool {
	for _, a := range amounts {
		if !a.Equal(a.Truncate(MoneyPlaces)) {
			return false
		}
	}
	return true
}

// Totals breaks an invoice total into its three parts.
type Totals struct {
	Products   decimal.Decimal `json:"products"`
	Services   decimal.Decimal `json:"services"`
	Gratuities decimal.Decimal `json:"gratuities"`
	Total      decimal.Decimal `json:"total"`
}

// ComputeTotals sums product lines (unit price x quantity), service prices
// and gratuities.
func ComputeTotals(products []entity.InvoiceProductLine, services []entity.ServiceLine) Totals {
	t := Totals{Products: decimal.Zero, Services: decimal.Zero, Gratuities: decimal.Zero}
	for _, p := range products {
		t.Products = t.Products.Add(p.Subtotal())
	}
	for _, s := range services {
		t.Services = t.Services.Add(s.Price)
		t.Gratuities = t.Gratuities.Add(s.Gratuity)
	}
	t.Total = t.Products.Add(t.Services).Add(t.Gratuities)
	return t
}

// InvoiceTotals is ComputeTotals over an invoice's own lines.
func InvoiceTotals(inv *entity.Invoice) Totals {
	return ComputeTotals(inv.ProductLines, inv.ServiceLines)
}

// Commission is the worker's informational share of a service price.
func Commission(price, adminShare decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(adminShare))
}

// AdminCommission is the business's share of a service price.
func AdminCommission(price, adminShare decimal.Decimal) decimal.Decimal {
	return price.Mul(adminShare)
}

// ProductMargin is (unit price - unit cost) x quantity over the lines.
func ProductMargin(lines []entity.InvoiceProductLine) decimal.Decimal {
	margin := decimal.Zero
	for _, l := range lines {
		margin = margin.Add(l.UnitPrice.Sub(l.UnitCost).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return margin
}
