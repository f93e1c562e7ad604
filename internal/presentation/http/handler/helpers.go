package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/ledger"
	"github.com/sangkips/barberpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/barberpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// CurrentActor builds the service actor from the authenticated request
func CurrentActor(c *gin.Context) (service.Actor, bool) {
	userID := GetUserID(c)
	if userID == nil {
		return service.Actor{}, false
	}
	value, _ := c.Get(middleware.ContextUserRole)
	role, ok := value.(enum.Role)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{
		ID:       *userID,
		Username: c.GetString(middleware.ContextUsername),
		Name:     c.GetString(middleware.ContextUserName),
		Role:     role,
	}, true
}

func requireActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := CurrentActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
	}
	return actor, ok
}

func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + strings.ReplaceAll(name, "_", " ") + " format")
	}
	return id, nil
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	p := &pagination.PaginationParams{Page: page, PerPage: perPage}
	p.Validate()
	return p
}

// parseHolds reads repeated hold=batch_id:qty query values
func parseHolds(values []string) ([]ledger.Hold, error) {
	holds := make([]ledger.Hold, 0, len(values))
	for _, v := range values {
		id, qty, found := strings.Cut(v, ":")
		if !found {
			return nil, apperror.NewBadRequestError("Invalid hold " + v + ", expected batch_id:quantity")
		}
		batchID, err := uuid.Parse(id)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid hold batch id " + id)
		}
		n, err := strconv.Atoi(qty)
		if err != nil || n < 0 {
			return nil, apperror.NewBadRequestError("Invalid hold quantity " + qty)
		}
		holds = append(holds, ledger.Hold{BatchID: batchID, Quantity: n})
	}
	return holds, nil
}
