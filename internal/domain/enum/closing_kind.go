package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ClosingKind distinguishes the two settlement events.
type ClosingKind int

const (
	ClosingKindDaily  ClosingKind = 0
	ClosingKindWeekly ClosingKind = 1
)

func (k ClosingKind) String() string {
	switch k {
	case ClosingKindDaily:
		return "daily"
	case ClosingKindWeekly:
		return "weekly"
	}
	return fmt.Sprintf("ClosingKind(%d)", int(k))
}

func (k ClosingKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ClosingKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "daily":
		*k = ClosingKindDaily
	case "weekly":
		*k = ClosingKindWeekly
	default:
		return fmt.Errorf("unknown closing kind %q", str)
	}
	return nil
}

func (k ClosingKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *ClosingKind) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*k = ClosingKind(v)
	case int:
		*k = ClosingKind(v)
	case int32:
		*k = ClosingKind(v)
	}
	return nil
}

// GratuityKind separates carried-forward earnings from payouts in the
// gratuity ledger.
type GratuityKind int

const (
	GratuityKindDelivered GratuityKind = 0
	GratuityKindEarned    GratuityKind = 1
)

func (k GratuityKind) String() string {
	if k == GratuityKindEarned {
		return "earned"
	}
	return "delivered"
}

func (k GratuityKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k GratuityKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *GratuityKind) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*k = GratuityKind(v)
	case int:
		*k = GratuityKind(v)
	case int32:
		*k = GratuityKind(v)
	}
	return nil
}
