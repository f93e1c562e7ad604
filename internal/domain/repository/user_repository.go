package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, role *enum.Role, search string) ([]entity.User, int64, error)
	// ListByRole returns every user holding role, ordered by first name
	ListByRole(ctx context.Context, role enum.Role) ([]entity.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
