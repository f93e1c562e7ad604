package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/apperror"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID       uuid.UUID
	Username string
	Name     string
	Role     enum.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enum.RoleAdmin
}

func requireRole(actor Actor, roles ...enum.Role) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return apperror.ErrForbidden
}

// utcNow is the default clock. Everything is stored in UTC and converted to
// the business time zone only when grouping by calendar day.
func utcNow() time.Time {
	return time.Now().UTC()
}
