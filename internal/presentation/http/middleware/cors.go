package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/config"
)

// RequestIDHeader carries the request id set by the logger middleware
const RequestIDHeader = "X-Request-ID"

// exposedHeaders are readable by the front desk app. Content-Disposition
// carries the closing report filename.
var exposedHeaders = []string{
	"Content-Length",
	"Content-Type",
	"Content-Disposition",
	RequestIDHeader,
	IdempotencyReplayedHeader,
}

// CORSMiddleware allows the front desk app to call the API from the
// configured origins. Idempotency-Key is always an allowed request header.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}

	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Accept", "Authorization", "Content-Type", "Origin", RequestIDHeader}
	}
	if !slices.Contains(headers, IdempotencyKeyHeader) {
		headers = append(slices.Clone(headers), IdempotencyKeyHeader)
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
