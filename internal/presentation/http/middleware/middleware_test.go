package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/pkg/utils"
)

func newTestRouter(jwt *utils.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(jwt)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUsername))
	})
	r.GET("/x", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("secret", "barberpos", time.Hour)
	r := newTestRouter(jwt)

	if w := get(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no header = %d", w.Code)
	}
	if w := get(r, "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", w.Code)
	}

	other := utils.NewJWTManager("other", "barberpos", time.Hour)
	forged, _, _ := other.GenerateAccessToken(uuid.New(), "caja", "Caja", "admin")
	if w := get(r, forged); w.Code != http.StatusUnauthorized {
		t.Fatalf("forged token = %d", w.Code)
	}

	unknownRole, _, _ := jwt.GenerateAccessToken(uuid.New(), "caja", "Caja", "owner")
	if w := get(r, unknownRole); w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown role = %d", w.Code)
	}

	tok, _, _ := jwt.GenerateAccessToken(uuid.New(), "caja", "Caja", "assistant")
	if w := get(r, tok); w.Code != http.StatusOK || w.Body.String() != "caja" {
		t.Fatalf("valid token = %d %q", w.Code, w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	jwt := utils.NewJWTManager("secret", "barberpos", time.Hour)
	r := newTestRouter(jwt, RequireRole(enum.RoleAdmin, enum.RoleAssistant))

	for role, want := range map[string]int{
		"admin":     http.StatusOK,
		"assistant": http.StatusOK,
		"worker":    http.StatusForbidden,
	} {
		tok, _, _ := jwt.GenerateAccessToken(uuid.New(), role, role, role)
		if w := get(r, tok); w.Code != want {
			t.Errorf("%s = %d, want %d", role, w.Code, want)
		}
	}
}

func TestActorRateLimiter(t *testing.T) {
	jwt := utils.NewJWTManager("secret", "barberpos", time.Hour)
	rl := NewActorRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	r := newTestRouter(jwt, rl.Middleware())

	first, _, _ := jwt.GenerateAccessToken(uuid.New(), "a", "A", "worker")
	second, _, _ := jwt.GenerateAccessToken(uuid.New(), "b", "B", "worker")

	for i := 0; i < 2; i++ {
		if w := get(r, first); w.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
	if w := get(r, first); w.Code != http.StatusTooManyRequests {
		t.Fatalf("over burst = %d", w.Code)
	}
	if w := get(r, second); w.Code != http.StatusOK {
		t.Fatalf("other actor = %d", w.Code)
	}
}
