package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sangkips/barberpos-api/internal/config"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the configured database (postgres, mysql or sqlite)
func NewDB(cfg *config.DatabaseConfig, debug bool, log logrus.FieldLogger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Tracing {
		if pluginErr := db.Use(otelgorm.NewPlugin()); pluginErr != nil {
			log.WithError(pluginErr).Warn("db connected but failed to install otelgorm plugin")
		}
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	log.WithField("driver", driverName(cfg)).Info("Successfully connected to database")
	return db, nil
}

func driverName(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "" {
		return "postgres"
	}
	return cfg.Driver
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch driverName(cfg) {
	case "postgres":
		return postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), nil
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "sqlite":
		dsn := cfg.DSN()
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.User{},
		&entity.ProductBatch{},
		&entity.Invoice{},
		&entity.InvoiceProductLine{},
		&entity.ServiceLine{},
		&entity.GratuityEntry{},
		&entity.ClosingRecord{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SeedDefaultData creates the administrator and the initial worker roster
// when they do not exist yet. Worker entries are usernames like "jose.torres".
func SeedDefaultData(db *gorm.DB, seed config.SeedConfig, log logrus.FieldLogger) error {
	if seed.AdminUsername != "" && seed.AdminPassword != "" {
		admin := entity.User{
			FirstName: "Administrador",
			LastName:  "",
			Username:  seed.AdminUsername,
			Role:      enum.RoleAdmin,
			IsActive:  true,
		}
		if err := createIfMissing(db, &admin, seed.AdminPassword); err != nil {
			return err
		}
	}

	for _, username := range seed.Workers {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}
		first, last := splitUsername(username)
		worker := entity.User{
			FirstName: first,
			LastName:  last,
			Username:  username,
			Role:      enum.RoleWorker,
			IsActive:  true,
		}
		if err := createIfMissing(db, &worker, seed.WorkerSecret); err != nil {
			log.WithError(err).WithField("username", username).Warn("failed to seed worker")
		}
	}

	log.Info("Default data seeding completed")
	return nil
}

func createIfMissing(db *gorm.DB, user *entity.User, password string) error {
	var count int64
	if err := db.Model(&entity.User{}).Where("username = ?", strings.ToLower(user.Username)).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up %s: %w", user.Username, err)
	}
	if count > 0 {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", user.Username, err)
	}
	user.Password = string(hashedPassword)
	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", user.Username, err)
	}
	return nil
}

// splitUsername turns "jose.torres" into ("Jose", "Torres").
func splitUsername(username string) (string, string) {
	parts := strings.FieldsFunc(username, func(r rune) bool { return r == '.' || r == '_' || r == ' ' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	switch len(parts) {
	case 0:
		return username, ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
