package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/domain/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/report"
	infraRepo "github.com/sangkips/barberpos-api/internal/infrastructure/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/storage"
	"github.com/sangkips/barberpos-api/pkg/email"
	"github.com/sangkips/barberpos-api/pkg/lock"
	"github.com/sangkips/barberpos-api/pkg/logger"
	"github.com/sangkips/barberpos-api/pkg/printer"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

var bogota = time.FixedZone("COT", -5*60*60)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []email.ClosingSummary
}

func (n *recordingNotifier) SendClosingSummary(to string, summary email.ClosingSummary) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, summary)
	return nil
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, *entity.Report) (*entity.Artifact, error) {
	return nil, errors.New("disk full")
}

// trackingStore records the references saved and deleted through it.
type trackingStore struct {
	storage.ArtifactStore
	saved   []string
	deleted []string
}

func (s *trackingStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	ref, err := s.ArtifactStore.Save(ctx, name, contentType, data)
	if err == nil {
		s.saved = append(s.saved, ref)
	}
	return ref, err
}

func (s *trackingStore) Delete(ctx context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	return s.ArtifactStore.Delete(ctx, ref)
}

type failingGratuityRepo struct {
	repository.GratuityRepository
}

func (failingGratuityRepo) CreateBatch(context.Context, []entity.GratuityEntry) error {
	return errors.New("connection reset")
}

type testEnv struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB

	clock time.Time

	inventory *InventoryService
	invoices  *InvoiceService
	gratuity  *GratuityService
	workers   *WorkerService
	closings  *ClosingService
	dashboard *DashboardService
	auth      *AuthService
	printing  *PrinterService
	notifier  *recordingNotifier

	admin     Actor
	assistant Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Discard,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&entity.User{}, &entity.ProductBatch{}, &entity.Invoice{},
		&entity.InvoiceProductLine{}, &entity.ServiceLine{}, &entity.GratuityEntry{},
		&entity.ClosingRecord{}, &entity.IdempotencyKey{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	log := logger.Discard()
	batchRepo := infraRepo.NewBatchRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	userRepo := infraRepo.NewUserRepository(db)
	gratuityRepo := infraRepo.NewGratuityRepository(db)
	closingRepo := infraRepo.NewClosingRepository(db)
	txManager := infraRepo.NewTxManager(db)
	locker := lock.NewLocalLocker()

	business := BusinessSettings{
		Name:          "Invictus Barber",
		Location:      bogota,
		AdminShare:    decimal.NewFromFloat(0.5),
		InvoicePrefix: "FAC",
		OwnerEmail:    "owner@example.com",
	}

	env := &testEnv{
		t:        t,
		ctx:      context.Background(),
		db:       db,
		clock:    time.Date(2026, 3, 15, 15, 0, 0, 0, time.UTC),
		notifier: &recordingNotifier{},
	}
	clock := func() time.Time { return env.clock }

	env.inventory = NewInventoryService(batchRepo, log)
	env.inventory.now = clock
	env.invoices = NewInvoiceService(invoiceRepo, userRepo, closingRepo, env.inventory, txManager, business, log)
	env.invoices.now = clock
	env.gratuity = NewGratuityService(gratuityRepo, invoiceRepo, userRepo, txManager, locker, time.Second, log)
	env.gratuity.now = clock
	env.workers = NewWorkerService(userRepo, invoiceRepo, log)
	env.closings = NewClosingService(ClosingServiceConfig{
		InvoiceRepo:  invoiceRepo,
		GratuityRepo: gratuityRepo,
		ClosingRepo:  closingRepo,
		TxManager:    txManager,
		Gratuity:     env.gratuity,
		Renderer:     report.NewExcelRenderer(bogota),
		Store:        store,
		Locker:       locker,
		LockTTL:      time.Second,
		Notifier:     env.notifier,
		Business:     business,
		Log:          log,
	})
	env.closings.now = clock
	env.dashboard = NewDashboardService(invoiceRepo, closingRepo, userRepo, env.gratuity, business)
	env.dashboard.now = clock
	env.printing = NewPrinterService(printer.NewNullPrinter(), invoiceRepo, closingRepo, "none", 32, business, log)

	admin := env.addUser("admin", "Admin", "Principal", enum.RoleAdmin)
	assistant := env.addUser("caja", "Laura", "Caja", enum.RoleAssistant)
	env.admin = Actor{ID: admin.ID, Username: admin.Username, Name: admin.FullName(), Role: admin.Role}
	env.assistant = Actor{ID: assistant.ID, Username: assistant.Username, Name: assistant.FullName(), Role: assistant.Role}
	return env
}

func (e *testEnv) addUser(username, first, last string, role enum.Role) *entity.User {
	e.t.Helper()
	u := &entity.User{FirstName: first, LastName: last, Username: username, Password: "x", Role: role, IsActive: true}
	if err := e.db.Create(u).Error; err != nil {
		e.t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (e *testEnv) addWorker(username string) *entity.User {
	return e.addUser(username, strings.ToUpper(username[:1])+username[1:], "Barbero", enum.RoleWorker)
}

func (e *testEnv) addBatch(name string, cost, price int64, remaining int, intake time.Time) *entity.ProductBatch {
	e.t.Helper()
	b, err := e.inventory.CreateBatch(e.ctx, e.admin, &BatchInput{
		Name: name, UnitCost: d(cost), UnitPrice: d(price), Remaining: remaining, IntakeAt: &intake,
	})
	if err != nil {
		e.t.Fatalf("create batch %s: %v", name, err)
	}
	return b
}

func (e *testEnv) remaining(id uuid.UUID) int {
	e.t.Helper()
	b, err := e.inventory.GetBatch(e.ctx, id)
	if err != nil {
		e.t.Fatalf("get batch: %v", err)
	}
	return b.Remaining
}

// serviceInvoice opens and closes a cash invoice with a single service line.
func (e *testEnv) serviceInvoice(worker *entity.User, price, gratuity int64) *entity.Invoice {
	e.t.Helper()
	inv, err := e.invoices.Create(e.ctx, e.assistant, &CreateInvoiceInput{
		CustomerName: "Cliente",
		Services:     []ServiceLineInput{{WorkerID: worker.ID, Price: d(price), Gratuity: d(gratuity)}},
	})
	if err != nil {
		e.t.Fatalf("create invoice: %v", err)
	}
	closed, err := e.invoices.Close(e.ctx, e.assistant, inv.ID, cashPayment(price+gratuity))
	if err != nil {
		e.t.Fatalf("close invoice: %v", err)
	}
	return closed
}

func (e *testEnv) count(model any) int64 {
	e.t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		e.t.Fatalf("count: %v", err)
	}
	return n
}
