package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// InvoiceStatus is the life-cycle state of an invoice. Closed is terminal.
type InvoiceStatus int

const (
	InvoiceStatusOpen   InvoiceStatus = 0
	InvoiceStatusClosed InvoiceStatus = 1
)

func (s InvoiceStatus) String() string {
	switch s {
	case InvoiceStatusOpen:
		return "open"
	case InvoiceStatusClosed:
		return "closed"
	}
	return fmt.Sprintf("InvoiceStatus(%d)", int(s))
}

// ParseInvoiceStatus accepts "open" or "closed".
func ParseInvoiceStatus(str string) (InvoiceStatus, error) {
	switch str {
	case "open":
		return InvoiceStatusOpen, nil
	case "closed":
		return InvoiceStatusClosed, nil
	}
	return 0, fmt.Errorf("unknown invoice status %q", str)
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	parsed, err := ParseInvoiceStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	case int32:
		*s = InvoiceStatus(v)
	case []byte:
		return s.scanString(string(v))
	case string:
		return s.scanString(v)
	}
	return nil
}

func (s *InvoiceStatus) scanString(v string) error {
	var i int
	if _, err := fmt.Sscan(v, &i); err != nil {
		return err
	}
	*s = InvoiceStatus(i)
	return nil
}
