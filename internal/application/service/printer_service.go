package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/ledger"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	invoiceRepo repository.InvoiceRepository
	closingRepo repository.ClosingRepository
	printerType string
	charWidth   int
	business    BusinessSettings
	log         logrus.FieldLogger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	invoiceRepo repository.InvoiceRepository,
	closingRepo repository.ClosingRepository,
	printerType string,
	charWidth int,
	business BusinessSettings,
	log logrus.FieldLogger,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		invoiceRepo: invoiceRepo,
		closingRepo: closingRepo,
		printerType: printerType,
		charWidth:   charWidth,
		business:    business,
		log:         log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// BuildReceipt composes the printable view of an invoice.
func (s *PrinterService) BuildReceipt(invoice *entity.Invoice) *entity.Receipt {
	totals := ledger.InvoiceTotals(invoice)
	loc := s.business.location()

	date := invoice.CreatedAt
	if invoice.ClosedAt != nil {
		date = *invoice.ClosedAt
	}

	r := &entity.Receipt{
		Header:        entity.ReceiptHeader{BusinessName: s.business.Name},
		InvoiceNo:     invoice.Number,
		Date:          date.In(loc).Format("2006-01-02 15:04"),
		Customer:      invoice.CustomerName,
		Status:        invoice.Status.String(),
		Items:         make([]entity.ReceiptItem, 0, len(invoice.ProductLines)),
		Services:      make([]entity.ReceiptService, 0, len(invoice.ServiceLines)),
		Products:      totals.Products,
		ServicesTotal: totals.Services,
		Gratuities:    totals.Gratuities,
		Total:         totals.Total,
		Cash:          invoice.CashTendered,
		Transfer:      invoice.TransferAmount,
		Change:        invoice.ChangeGiven,
	}
	if !invoice.IsOpen() {
		r.PaymentMethod = invoice.PaymentMethod.String()
		if invoice.CashTendered.IsZero() {
			r.Cash = invoice.CashAmount
		}
	}

	for _, l := range invoice.ProductLines {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Subtotal(),
		})
	}
	for _, l := range invoice.ServiceLines {
		r.Services = append(r.Services, entity.ReceiptService{
			Worker:   l.WorkerName,
			Note:     l.Note,
			Price:    l.Price,
			Gratuity: l.Gratuity,
		})
	}
	return r
}

// PrintInvoice fetches an invoice and prints its receipt. The receipt is
// returned even when the printer fails so the caller can show it.
func (s *PrinterService) PrintInvoice(ctx context.Context, invoiceID uuid.UUID) (*entity.Receipt, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	receipt := s.BuildReceipt(invoice)
	if err := s.printer.Print(FormatReceipt(receipt, s.charWidth)); err != nil {
		s.log.WithError(err).WithField("invoice_id", invoiceID).Error("printer error")
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// PrintClosing prints the totals of a closing record.
func (s *PrinterService) PrintClosing(ctx context.Context, closingID uuid.UUID) (*entity.ClosingRecord, error) {
	record, err := s.closingRepo.GetByID(ctx, closingID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Closing record")
	}

	if err := s.printer.Print(FormatClosing(record, s.business.Name, s.charWidth)); err != nil {
		s.log.WithError(err).WithField("closing_id", closingID).Error("printer error")
		return record, fmt.Errorf("failed to print closing: %w", err)
	}
	return record, nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(0)
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.BusinessName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Factura:", r.InvoiceNo).
		KeyValue("Fecha:", r.Date).
		KeyValue("Cliente:", r.Customer)
	if r.PaymentMethod != "" {
		doc.KeyValue("Pago:", r.PaymentMethod)
	}
	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s c/u", money(item.UnitPrice))
		}
	}
	for _, svc := range r.Services {
		name := "Servicio " + svc.Worker
		doc.KeyValue(name, money(svc.Price))
		if svc.Note != "" {
			doc.Text("  " + svc.Note)
		}
		if svc.Gratuity.IsPositive() {
			doc.KeyValue("  Propina", money(svc.Gratuity))
		}
	}
	doc.Separator('-')

	doc.KeyValue("Productos:", money(r.Products)).
		KeyValue("Servicios:", money(r.ServicesTotal))
	if r.Gratuities.IsPositive() {
		doc.KeyValue("Propinas:", money(r.Gratuities))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	if r.Cash.IsPositive() {
		doc.KeyValue("Efectivo:", money(r.Cash))
	}
	if r.Transfer.IsPositive() {
		doc.KeyValue("Transferencia:", money(r.Transfer))
	}
	if r.Change.IsPositive() {
		doc.KeyValue("Cambio:", money(r.Change))
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		Text("Gracias por su visita").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// FormatClosing converts a closing record into an ESC/POS slip.
func FormatClosing(c *entity.ClosingRecord, businessName string, width int) []byte {
	title := "CIERRE DIARIO"
	if c.Kind == enum.ClosingKindWeekly {
		title = "CIERRE SEMANAL"
	}

	doc := printer.NewDocument(width)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(businessName).
		Text(title).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Fecha:", c.BusinessDate).
		KeyValue("Facturas:", fmt.Sprintf("%d", c.InvoiceCount)).
		KeyValue("Efectivo:", money(c.CashTotal)).
		KeyValue("Transferencia:", money(c.TransferTotal)).
		SetBold(true).
		KeyValue("TOTAL:", money(c.BilledTotal)).
		SetBold(false).
		Separator('-').
		Text(c.Detail).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
