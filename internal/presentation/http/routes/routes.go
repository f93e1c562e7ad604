package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/barberpos-api/internal/config"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/presentation/http/handler"
	"github.com/sangkips/barberpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Batch     *handler.BatchHandler
	Invoice   *handler.InvoiceHandler
	Worker    *handler.WorkerHandler
	Gratuity  *handler.GratuityHandler
	Closing   *handler.ClosingHandler
	Dashboard *handler.DashboardHandler
	Printer   *handler.PrinterHandler
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	DB              Pinger
	Log             logrus.FieldLogger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.DB.PingContext(ctx); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewActorRateLimiter(rateLimiterConfig(deps.Cfg.RateLimit))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	return rl
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  deps.Log,
	})
	admin := middleware.RequireRole(enum.RoleAdmin)
	invoicing := middleware.RequireRole(enum.RoleAdmin, enum.RoleAssistant)

	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)

	batches := protected.Group("/batches")
	{
		batches.GET("", h.Batch.List)
		batches.GET("/available", invoicing, h.Batch.Available)
		batches.GET("/:id", h.Batch.Get)
		batches.POST("", invoicing, h.Batch.Create)
		batches.PUT("/:id", admin, h.Batch.Update)
		batches.DELETE("/:id", admin, h.Batch.Delete)
	}

	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/summary/today", h.Invoice.TodaySummary)
		invoices.GET("/summary/week-services", admin, h.Invoice.WeekServices)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("", invoicing, idempotent, h.Invoice.Create)
		invoices.PUT("/:id", invoicing, h.Invoice.Edit)
		invoices.POST("/:id/service-lines", invoicing, h.Invoice.AddServiceLine)
		invoices.DELETE("/:id/service-lines/:line", invoicing, h.Invoice.RemoveServiceLine)
		invoices.POST("/:id/product-lines", invoicing, h.Invoice.AddProductLine)
		invoices.DELETE("/:id/product-lines/:line", invoicing, h.Invoice.RemoveProductLine)
		invoices.POST("/:id/close", invoicing, idempotent, h.Invoice.Close)
		invoices.POST("/:id/print", invoicing, h.Invoice.Print)
		invoices.DELETE("/:id", invoicing, h.Invoice.Discard)
	}

	workers := protected.Group("/workers")
	{
		workers.GET("", invoicing, h.Worker.List)
		workers.GET("/:id", invoicing, h.Worker.Get)
		workers.POST("", admin, h.Worker.Add)
		workers.PUT("/:id", admin, h.Worker.Update)
		workers.DELETE("/:id", admin, h.Worker.Remove)
	}

	gratuities := protected.Group("/gratuities", admin)
	{
		gratuities.GET("/balances", h.Gratuity.Balances)
		gratuities.GET("/deliveries", h.Gratuity.ListDeliveries)
		gratuities.POST("/deliveries", idempotent, h.Gratuity.Deliver)
	}

	closings := protected.Group("/closings", admin)
	{
		closings.GET("", h.Closing.List)
		closings.GET("/weekly/preview", h.Closing.PreviewWeekly)
		closings.POST("/daily", idempotent, h.Closing.Daily)
		closings.POST("/weekly", idempotent, h.Closing.Weekly)
		closings.GET("/:id", h.Closing.Get)
		closings.GET("/:id/report", h.Closing.Report)
		closings.POST("/:id/print", h.Closing.Print)
	}

	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/admin", admin, h.Dashboard.Admin)
		dashboard.GET("/worker", h.Dashboard.Worker)
	}

	protected.GET("/printer/status", invoicing, h.Printer.GetStatus)
}
