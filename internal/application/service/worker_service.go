package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/pagination"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// WorkerService manages the worker roster
type WorkerService struct {
	userRepo    repository.UserRepository
	invoiceRepo repository.InvoiceRepository
	log         logrus.FieldLogger
}

// NewWorkerService creates a new worker service
func NewWorkerService(userRepo repository.UserRepository, invoiceRepo repository.InvoiceRepository, log logrus.FieldLogger) *WorkerService {
	return &WorkerService{userRepo: userRepo, invoiceRepo: invoiceRepo, log: log}
}

// AddWorkerInput represents the add worker input
type AddWorkerInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// UpdateWorkerInput represents the update worker input. Nil fields are left as is.
type UpdateWorkerInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	Password  *string
	IsActive  *bool
}

// List returns the roster with pagination
func (s *WorkerService) List(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	role := enum.RoleWorker
	users, total, err := s.userRepo.List(ctx, params, &role, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(users, params, total), nil
}

// Get returns a worker by ID
func (s *WorkerService) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsWorker() {
		return nil, apperror.NewNotFoundError("Worker")
	}
	return user, nil
}

// Add registers a new worker. Admin only.
func (s *WorkerService) Add(ctx context.Context, actor Actor, input *AddWorkerInput) (*entity.User, error) {
	if err := requireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}

	var errs []apperror.FieldError
	if strings.TrimSpace(input.FirstName) == "" {
		errs = append(errs, apperror.FieldError{Field: "first_name", Message: "First name is required"})
	}
	if strings.TrimSpace(input.LastName) == "" {
		errs = append(errs, apperror.FieldError{Field: "last_name", Message: "Last name is required"})
	}
	if strings.TrimSpace(input.Username) == "" {
		errs = append(errs, apperror.FieldError{Field: "username", Message: "Username is required"})
	}
	if input.Password == "" {
		errs = append(errs, apperror.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	if err := s.ensureUsernameFree(ctx, username, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Username:  username,
		Password:  hash,
		Role:      enum.RoleWorker,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"worker_id": user.ID, "username": user.Username}).Info("worker added")
	return user, nil
}

// Update changes a worker's names, username, password or active flag. Admin only.
func (s *WorkerService) Update(ctx context.Context, actor Actor, id uuid.UUID, input *UpdateWorkerInput) (*entity.User, error) {
	if err := requireRole(actor, enum.RoleAdmin); err != nil {
		return nil, err
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "first_name", Message: "First name is required"}})
		}
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		if strings.TrimSpace(*input.LastName) == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "last_name", Message: "Last name is required"}})
		}
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*input.Username))
		if username == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "username", Message: "Username is required"}})
		}
		if err := s.ensureUsernameFree(ctx, username, user.ID); err != nil {
			return nil, err
		}
		user.Username = username
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Remove deletes a worker who has no services on closed invoices. Admin only.
func (s *WorkerService) Remove(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireRole(actor, enum.RoleAdmin); err != nil {
		return err
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	recorded, err := s.invoiceRepo.WorkerHasClosedServices(ctx, id)
	if err != nil {
		return err
	}
	if recorded {
		return apperror.ErrWorkerHasRecordedServices
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"worker_id": id, "username": user.Username}).Info("worker removed")
	return nil
}

func (s *WorkerService) ensureUsernameFree(ctx context.Context, username string, self uuid.UUID) error {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.ErrDuplicateWorker
	}
	return nil
}
