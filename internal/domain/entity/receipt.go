package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the business header printed at the top of a receipt.
type ReceiptHeader struct {
	BusinessName string `json:"business_name"`
}

// ReceiptItem represents a product line on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// ReceiptService represents a service line on a receipt.
type ReceiptService struct {
	Worker   string          `json:"worker"`
	Note     string          `json:"note,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Gratuity decimal.Decimal `json:"gratuity"`
}

// Receipt is a printable view of an invoice. It is composed at print time
// and never stored.
type Receipt struct {
	Header        ReceiptHeader    `json:"header"`
	InvoiceNo     string           `json:"invoice_no"`
	Date          string           `json:"date"`
	Customer      string           `json:"customer"`
	Status        string           `json:"status"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	Items         []ReceiptItem    `json:"items"`
	Services      []ReceiptService `json:"services"`
	Products      decimal.Decimal  `json:"products"`
	ServicesTotal decimal.Decimal  `json:"services_total"`
	Gratuities    decimal.Decimal  `json:"gratuities"`
	Total         decimal.Decimal  `json:"total"`
	Cash          decimal.Decimal  `json:"cash"`
	Transfer      decimal.Decimal  `json:"transfer"`
	Change        decimal.Decimal  `json:"change"`
}
