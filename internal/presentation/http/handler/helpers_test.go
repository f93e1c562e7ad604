package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/presentation/http/middleware"
)

func TestParseHolds(t *testing.T) {
	id := uuid.New()

	holds, err := parseHolds([]string{id.String() + ":2", id.String() + ":0"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(holds) != 2 || holds[0].BatchID != id || holds[0].Quantity != 2 {
		t.Fatalf("holds = %+v", holds)
	}

	for _, bad := range []string{"nope", "x:1", id.String() + ":-1", id.String() + ":two"} {
		if _, err := parseHolds([]string{bad}); err == nil {
			t.Errorf("parseHolds(%q) accepted", bad)
		}
	}
}

func TestCurrentActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := CurrentActor(c); ok {
		t.Fatal("actor without auth")
	}

	id := uuid.New()
	c.Set(middleware.ContextUserID, id)
	c.Set(middleware.ContextUsername, "caja")
	c.Set(middleware.ContextUserName, "Laura Caja")
	c.Set(middleware.ContextUserRole, enum.RoleAssistant)

	actor, ok := CurrentActor(c)
	if !ok || actor.ID != id || actor.Username != "caja" || actor.Role != enum.RoleAssistant {
		t.Fatalf("actor = %+v", actor)
	}
}
