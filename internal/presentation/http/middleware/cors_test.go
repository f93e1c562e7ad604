package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/config"
)

func newCORSRouter(cfg *config.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.GET("/report", func(c *gin.Context) {
		c.Header("Content-Disposition", `attachment; filename="cierre.xlsx"`)
		c.Header(IdempotencyReplayedHeader, "true")
		c.String(http.StatusOK, "PK")
	})
	return r
}

func TestCORSExposesDownloadAndReplayHeaders(t *testing.T) {
	r := newCORSRouter(&config.CORSConfig{AllowedOrigins: []string{"http://caja.local"}})

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	req.Header.Set("Origin", "http://caja.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://caja.local" {
		t.Fatalf("allow origin = %q", got)
	}
	exposed := w.Header().Get("Access-Control-Expose-Headers")
	for _, h := range []string{"Content-Disposition", "X-Idempotency-Replayed"} {
		if !strings.Contains(exposed, h) {
			t.Fatalf("%s not exposed: %q", h, exposed)
		}
	}
}

func TestCORSPreflightAllowsIdempotencyKey(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.CORSConfig
	}{
		{"defaults", &config.CORSConfig{}},
		{"configured headers", &config.CORSConfig{AllowedHeaders: []string{"Authorization", "Content-Type"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCORSRouter(tt.cfg)

			req := httptest.NewRequest(http.MethodOptions, "/report", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Fatalf("status = %d", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Idempotency-Key") {
				t.Fatalf("allow headers = %q", got)
			}
		})
	}
}
