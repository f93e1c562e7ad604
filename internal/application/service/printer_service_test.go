package service

import (
	"bytes"
	"testing"
)

func TestPrintInvoiceReceipt(t *testing.T) {
	env := newTestEnv(t)
	worker := env.addWorker("pedro")
	shampoo := env.addBatch("Shampoo", 12000, 20000, 5, env.clock)

	inv, err := env.invoices.Create(env.ctx, env.assistant, &CreateInvoiceInput{
		CustomerName: "Ana",
		Products:     []ProductSelection{{BatchID: shampoo.ID, Quantity: 2}},
		Services:     []ServiceLineInput{{WorkerID: worker.ID, Price: d(30000), Gratuity: d(5000), Note: "barba"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.invoices.Close(env.ctx, env.assistant, inv.ID, cashPayment(80000)); err != nil {
		t.Fatalf("close: %v", err)
	}

	receipt, err := env.printing.PrintInvoice(env.ctx, inv.ID)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !receipt.Total.Equal(d(75000)) || !receipt.Change.Equal(d(5000)) || !receipt.Cash.Equal(d(80000)) {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if len(receipt.Items) != 1 || len(receipt.Services) != 1 || receipt.PaymentMethod != "cash" {
		t.Fatalf("unexpected receipt lines %+v", receipt)
	}
	if receipt.Date != "2026-03-15 10:00" {
		t.Fatalf("date = %s", receipt.Date)
	}

	data := FormatReceipt(receipt, 32)
	for _, want := range []string{"Invictus Barber", "TOTAL:", "$75000", "Cambio:"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("receipt is missing %q", want)
		}
	}
}

func TestPrintClosingSlip(t *testing.T) {
	env := newTestEnv(t)
	worker := env.addWorker("pedro")
	env.serviceInvoice(worker, 20000, 0)

	res, err := env.closings.Daily(env.ctx, env.admin)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if _, err := env.printing.PrintClosing(env.ctx, res.Record.ID); err != nil {
		t.Fatalf("print closing: %v", err)
	}

	data := FormatClosing(res.Record, "Invictus Barber", 32)
	if !bytes.Contains(data, []byte("CIERRE DIARIO")) || !bytes.Contains(data, []byte("$20000")) {
		t.Fatalf("unexpected slip %q", data)
	}
}
