package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	infraRepo "github.com/sangkips/barberpos-api/internal/infrastructure/repository"
	"github.com/sangkips/barberpos-api/pkg/apperror"
	"github.com/sangkips/barberpos-api/pkg/logger"
	"github.com/sangkips/barberpos-api/pkg/utils"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	jwt := utils.NewJWTManager("test-secret", "barberpos", time.Hour)
	auth := NewAuthService(infraRepo.NewUserRepository(env.db), jwt, logger.Discard())
	auth.now = func() time.Time { return env.clock }

	hash, err := utils.HashPassword("barbero123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	active := &entity.User{FirstName: "Pedro", LastName: "Perez", Username: "pedro", Password: hash, Role: enum.RoleWorker, IsActive: true}
	inactive := &entity.User{FirstName: "Juan", LastName: "Gomez", Username: "juan", Password: hash, Role: enum.RoleWorker, IsActive: false}
	env.db.Create(active)
	env.db.Create(inactive)

	out, err := auth.Login(env.ctx, &LoginInput{Username: " PEDRO ", Password: "barbero123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := jwt.ValidateAccessToken(out.AccessToken)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if claims.UserID != active.ID || claims.Role != "worker" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	me, err := auth.Me(env.ctx, active.ID)
	if err != nil || me.LastLoginAt == nil {
		t.Fatalf("me = %+v, %v", me, err)
	}

	if _, err := auth.Login(env.ctx, &LoginInput{Username: "pedro", Password: "wrong"}); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := auth.Login(env.ctx, &LoginInput{Username: "nadie", Password: "x"}); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
	if _, err := auth.Login(env.ctx, &LoginInput{Username: "juan", Password: "barbero123"}); !errors.Is(err, apperror.ErrInactiveAccount) {
		t.Fatalf("inactive err = %v", err)
	}
}
