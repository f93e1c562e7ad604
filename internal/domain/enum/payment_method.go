package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod records how a closed invoice was paid. PaymentMethodNone is
// only valid while the invoice is open.
type PaymentMethod int

const (
	PaymentMethodNone     PaymentMethod = 0
	PaymentMethodCash     PaymentMethod = 1
	PaymentMethodTransfer PaymentMethod = 2
	PaymentMethodSplit    PaymentMethod = 3
)

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodNone:
		return "none"
	case PaymentMethodCash:
		return "cash"
	case PaymentMethodTransfer:
		return "transfer"
	case PaymentMethodSplit:
		return "split"
	}
	return fmt.Sprintf("PaymentMethod(%d)", int(m))
}

// Label is the Spanish name printed on receipts and reports.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCash:
		return "Efectivo"
	case PaymentMethodTransfer:
		return "Transferencia"
	case PaymentMethodSplit:
		return "Combinado"
	}
	return "-"
}

// ParsePaymentMethod accepts "cash", "transfer" or "split".
func ParsePaymentMethod(str string) (PaymentMethod, error) {
	switch str {
	case "cash":
		return PaymentMethodCash, nil
	case "transfer":
		return PaymentMethodTransfer, nil
	case "split":
		return PaymentMethodSplit, nil
	case "none", "":
		return PaymentMethodNone, nil
	}
	return 0, fmt.Errorf("unknown payment method %q", str)
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodNone
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	case int32:
		*m = PaymentMethod(v)
	}
	return nil
}
