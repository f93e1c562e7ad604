package ledger

import (
	"fmt"

	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Payment is what the cashier received.
type Payment struct {
	Method   enum.PaymentMethod
	Cash     decimal.Decimal
	Transfer decimal.Decimal
}

// Settlement is what gets stored on a closed invoice.
// CashAmount + TransferAmount always equals the invoice total.
type Settlement struct {
	Method         enum.PaymentMethod
	CashAmount     decimal.Decimal
	TransferAmount decimal.Decimal
	CashTendered   decimal.Decimal
	ChangeGiven    decimal.Decimal
}

// SettlePayment checks a payment against total.
//
// Cash needs cash >= total and the difference is returned as change.
// Transfer needs transfer >= total. Split needs cash + transfer == total
// exactly. Anything else fails with ErrPaymentMismatch.
func SettlePayment(total decimal.Decimal, p Payment) (Settlement, error) {
	if p.Cash.IsNegative() || p.Transfer.IsNegative() {
		return Settlement{}, apperror.ErrPaymentMismatch.WithMessage("Payment amounts cannot be negative")
	}
	if !HasMoneyScale(p.Cash, p.Transfer) {
		return Settlement{}, apperror.ErrInvalidMoneyScale
	}

	zero := decimal.Zero
	switch p.Method {
	case enum.PaymentMethodCash:
		if p.Cash.LessThan(total) {
			return Settlement{}, mismatch(total, p.Cash)
		}
		return Settlement{
			Method:         p.Method,
			CashAmount:     total,
			TransferAmount: zero,
			CashTendered:   p.Cash,
			ChangeGiven:    p.Cash.Sub(total),
		}, nil
	case enum.PaymentMethodTransfer:
		if p.Transfer.LessThan(total) {
			return Settlement{}, mismatch(total, p.Transfer)
		}
		return Settlement{
			Method:         p.Method,
			CashAmount:     zero,
			TransferAmount: total,
			CashTendered:   zero,
			ChangeGiven:    zero,
		}, nil
	case enum.PaymentMethodSplit:
		paid := p.Cash.Add(p.Transfer)
		if !paid.Equal(total) {
			return Settlement{}, mismatch(total, paid)
		}
		return Settlement{
			Method:         p.Method,
			CashAmount:     p.Cash,
			TransferAmount: p.Transfer,
			CashTendered:   p.Cash,
			ChangeGiven:    zero,
		}, nil
	}
	return Settlement{}, apperror.ErrPaymentMismatch.WithMessage("A payment method is required")
}

func mismatch(total, paid decimal.Decimal) error {
	return apperror.ErrPaymentMismatch.WithMessage(
		fmt.Sprintf("Payment of %s does not cover the invoice total of %s", paid.StringFixed(2), total.StringFixed(2)))
}

// NormalizeGratuity rejects a negative amount with ErrNegativeGratuity and
// sub-cent amounts with ErrInvalidMoneyScale.
func NormalizeGratuity(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperror.ErrNegativeGratuity
	}
	if !HasMoneyScale(amount) {
		return decimal.Zero, apperror.ErrInvalidMoneyScale
	}
	return amount, nil
}
