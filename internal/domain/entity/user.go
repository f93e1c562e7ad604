package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User is an actor that can sign in. Users with RoleWorker form the worker
// roster that service lines and gratuities refer to.
type User struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	FirstName   string     `gorm:"size:255;not null" json:"first_name"`
	LastName    string     `gorm:"size:255;not null" json:"last_name"`
	Username    string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Role        enum.Role  `gorm:"not null;default:0;index" json:"role"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsWorker reports whether the user belongs to the worker roster.
func (u *User) IsWorker() bool {
	return u.Role == enum.RoleWorker
}
