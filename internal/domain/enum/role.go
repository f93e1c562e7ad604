package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role is an actor's authorization level.
type Role int

const (
	RoleWorker    Role = 0
	RoleAssistant Role = 1
	RoleAdmin     Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleWorker:
		return "worker"
	case RoleAssistant:
		return "assistant"
	case RoleAdmin:
		return "admin"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole accepts the lower-case role names used in tokens and requests.
func ParseRole(str string) (Role, error) {
	switch str {
	case "worker":
		return RoleWorker, nil
	case "assistant":
		return RoleAssistant, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", str)
}

// CanInvoice reports whether the role may create and edit invoices.
func (r Role) CanInvoice() bool {
	return r == RoleAdmin || r == RoleAssistant
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseRole(str)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *Role) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*r = Role(v)
	case int:
		*r = Role(v)
	case int32:
		*r = Role(v)
	}
	return nil
}
