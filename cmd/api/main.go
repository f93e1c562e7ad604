package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/config"
	"github.com/sangkips/barberpos-api/internal/infrastructure/database"
	"github.com/sangkips/barberpos-api/internal/infrastructure/report"
	"github.com/sangkips/barberpos-api/internal/infrastructure/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/storage"
	"github.com/sangkips/barberpos-api/internal/presentation/http/handler"
	"github.com/sangkips/barberpos-api/internal/presentation/http/routes"
	"github.com/sangkips/barberpos-api/pkg/email"
	"github.com/sangkips/barberpos-api/pkg/lock"
	"github.com/sangkips/barberpos-api/pkg/logger"
	"github.com/sangkips/barberpos-api/pkg/printer"
	"github.com/sangkips/barberpos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	if err := database.SeedDefaultData(db, cfg.Seed, log); err != nil {
		log.WithError(err).Warn("Failed to seed default data")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("Failed to get underlying sql.DB")
	}
	defer sqlDB.Close()

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	gratuityRepo := repository.NewGratuityRepository(db)
	closingRepo := repository.NewClosingRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	txManager := repository.NewTxManager(db)

	// Locks serialize deliveries and weekly closings across instances
	locker := lock.NewLocalLocker()
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis unreachable, falling back to in-process locks")
		} else {
			locker = lock.NewRedisLocker(rdb)
			log.WithField("address", cfg.Redis.Address).Info("Using redis locks")
		}
		cancel()
		defer rdb.Close()
	}

	business := service.NewBusinessSettings(&cfg.Business)

	ctx := context.Background()
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize report storage")
	}

	var notifier service.ClosingNotifier
	emailCfg := email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	}
	if emailCfg.Enabled() {
		notifier = email.NewEmailService(emailCfg)
	}

	thermalPrinter, err := printer.New(printer.Config{
		Type:      cfg.Printer.Type,
		USBPath:   cfg.Printer.USBPath,
		Address:   cfg.Printer.Address,
		SpoolDir:  cfg.Printer.SpoolDir,
		CharWidth: cfg.Printer.CharWidth,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, log)
	inventoryService := service.NewInventoryService(batchRepo, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, userRepo, closingRepo, inventoryService, txManager, business, log)
	gratuityService := service.NewGratuityService(gratuityRepo, invoiceRepo, userRepo, txManager, locker, cfg.Redis.LockTTL, log)
	workerService := service.NewWorkerService(userRepo, invoiceRepo, log)
	closingService := service.NewClosingService(service.ClosingServiceConfig{
		InvoiceRepo:   invoiceRepo,
		GratuityRepo:  gratuityRepo,
		ClosingRepo:   closingRepo,
		TxManager:     txManager,
		Gratuity:      gratuityService,
		Renderer:      report.NewExcelRenderer(business.Location),
		Store:         store,
		Locker:        locker,
		LockTTL:       cfg.Redis.LockTTL,
		ReportTimeout: cfg.Storage.ReportTimeout,
		Notifier:      notifier,
		Business:      business,
		Log:           log,
	})
	dashboardService := service.NewDashboardService(invoiceRepo, closingRepo, userRepo, gratuityService, business)
	printerService := service.NewPrinterService(thermalPrinter, invoiceRepo, closingRepo, cfg.Printer.Type, cfg.Printer.CharWidth, business, log)

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Batch:     handler.NewBatchHandler(inventoryService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, printerService),
		Worker:    handler.NewWorkerHandler(workerService),
		Gratuity:  handler.NewGratuityHandler(gratuityService),
		Closing:   handler.NewClosingHandler(closingService, printerService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		DB:              sqlDB,
		Log:             log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeIdempotencyKeys(purgeCtx, idempotencyRepo, log)

	go func() {
		log.WithFields(map[string]interface{}{
			"app":  cfg.App.Name,
			"env":  cfg.App.Env,
			"port": port,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-stop
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
}
