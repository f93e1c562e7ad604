package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/application/service"
	"github.com/sangkips/barberpos-api/internal/config"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/internal/domain/enum"
	"github.com/sangkips/barberpos-api/internal/infrastructure/report"
	infraRepo "github.com/sangkips/barberpos-api/internal/infrastructure/repository"
	"github.com/sangkips/barberpos-api/internal/infrastructure/storage"
	"github.com/sangkips/barberpos-api/internal/presentation/http/handler"
	"github.com/sangkips/barberpos-api/pkg/lock"
	"github.com/sangkips/barberpos-api/pkg/logger"
	"github.com/sangkips/barberpos-api/pkg/printer"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
}

type apiEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	jwt    *utils.JWTManager

	admin     *entity.User
	assistant *entity.User
	worker    *entity.User
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	userRepo := infraRepo.NewUserRepository(db)
	batchRepo := infraRepo.NewBatchRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	gratuityRepo := infraRepo.NewGratuityRepository(db)
	closingRepo := infraRepo.NewClosingRepository(db)
	txManager := infraRepo.NewTxManager(db)
	locker := lock.NewLocalLocker()
	jwtManager := utils.NewJWTManager("test-secret", "barberpos", time.Hour)

	business := service.BusinessSettings{
		Name:          "Invictus Barber",
		Location:      time.UTC,
		AdminShare:    decimal.NewFromFloat(0.5),
		InvoicePrefix: "FAC",
	}

	inventory := service.NewInventoryService(batchRepo, log)
	invoices := service.NewInvoiceService(invoiceRepo, userRepo, closingRepo, inventory, txManager, business, log)
	gratuity := service.NewGratuityService(gratuityRepo, invoiceRepo, userRepo, txManager, locker, time.Second, log)
	closings := service.NewClosingService(service.ClosingServiceConfig{
		InvoiceRepo:  invoiceRepo,
		GratuityRepo: gratuityRepo,
		ClosingRepo:  closingRepo,
		TxManager:    txManager,
		Gratuity:     gratuity,
		Renderer:     report.NewExcelRenderer(time.UTC),
		Store:        store,
		Locker:       locker,
		LockTTL:      time.Second,
		Business:     business,
		Log:          log,
	})
	printing := service.NewPrinterService(printer.NewNullPrinter(), invoiceRepo, closingRepo, "none", 32, business, log)

	handlers := &Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager, log)),
		Batch:     handler.NewBatchHandler(inventory),
		Invoice:   handler.NewInvoiceHandler(invoices, printing),
		Worker:    handler.NewWorkerHandler(service.NewWorkerService(userRepo, invoiceRepo, log)),
		Gratuity:  handler.NewGratuityHandler(gratuity),
		Closing:   handler.NewClosingHandler(closings, printing),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(invoiceRepo, closingRepo, userRepo, gratuity, business)),
		Printer:   handler.NewPrinterHandler(printing),
	}

	cfg := &config.Config{
		App:       config.AppConfig{Name: "barberpos-api"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}

	env := &apiEnv{
		t:  t,
		db: db,
		router: Setup(handlers, &Deps{
			JWTManager:      jwtManager,
			Cfg:             cfg,
			IdempotencyRepo: infraRepo.NewIdempotencyRepository(db),
			DB:              sqlDB,
			Log:             log,
		}),
		jwt: jwtManager,
	}
	env.admin = env.addUser("admin", "Admin", enum.RoleAdmin)
	env.assistant = env.addUser("caja", "Laura", enum.RoleAssistant)
	env.worker = env.addUser("pedro", "Pedro", enum.RoleWorker)
	return env
}

func (e *apiEnv) addUser(username, first string, role enum.Role) *entity.User {
	e.t.Helper()
	hash, err := utils.HashPassword("secret123")
	if err != nil {
		e.t.Fatalf("hash: %v", err)
	}
	u := &entity.User{FirstName: first, LastName: "Test", Username: username, Password: hash, Role: role, IsActive: true}
	if err := e.db.Create(u).Error; err != nil {
		e.t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *apiEnv) token(u *entity.User) string {
	e.t.Helper()
	tok, _, err := e.jwt.GenerateAccessToken(u.ID, u.Username, u.FullName(), u.Role.String())
	if err != nil {
		e.t.Fatalf("token: %v", err)
	}
	return tok
}

func (e *apiEnv) do(method, path string, as *entity.User, body any, headers map[string]string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			e.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(as))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func key(k string) map[string]string {
	return map[string]string{"Idempotency-Key": k}
}

func (e *apiEnv) createBatch(name string, remaining int) entity.ProductBatch {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/v1/batches", e.admin, map[string]any{
		"name": name, "unit_cost": 12000, "unit_price": 20000, "remaining": remaining,
	}, nil)
	if w.Code != http.StatusCreated {
		e.t.Fatalf("create batch: %d %s", w.Code, w.Body.String())
	}
	var b entity.ProductBatch
	decode(e.t, w, &b)
	return b
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(http.MethodGet, "/health", nil, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}
}

func TestLoginAndMe(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/login", nil, map[string]string{
		"username": "Admin", "password": "secret123",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d %s", w.Code, w.Body.String())
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &out)
	if out.AccessToken == "" {
		t.Fatal("empty access token")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+out.AccessToken)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	var me entity.User
	decode(t, rec, &me)
	if rec.Code != http.StatusOK || me.Username != "admin" {
		t.Fatalf("me = %d %+v", rec.Code, me)
	}

	w = env.do(http.MethodPost, "/api/v1/auth/login", nil, map[string]string{
		"username": "admin", "password": "wrong",
	}, nil)
	if resp := decode(t, w, nil); w.Code != http.StatusUnauthorized || resp.Kind != "unauthorized" {
		t.Fatalf("bad password = %d %+v", w.Code, resp)
	}
}

func TestRoutesRequireTokenAndRole(t *testing.T) {
	env := newAPIEnv(t)
	batch := env.createBatch("Cera", 3)

	tests := []struct {
		name   string
		method string
		path   string
		as     *entity.User
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/batches", nil, http.StatusUnauthorized},
		{"worker lists batches", http.MethodGet, "/api/v1/batches", env.worker, http.StatusOK},
		{"worker cannot record batch", http.MethodPost, "/api/v1/batches", env.worker, http.StatusForbidden},
		{"assistant cannot edit batch", http.MethodPut, "/api/v1/batches/" + batch.ID.String(), env.assistant, http.StatusForbidden},
		{"assistant cannot see balances", http.MethodGet, "/api/v1/gratuities/balances", env.assistant, http.StatusForbidden},
		{"assistant cannot close week", http.MethodPost, "/api/v1/closings/weekly", env.assistant, http.StatusForbidden},
		{"worker cannot open invoice", http.MethodPost, "/api/v1/invoices", env.worker, http.StatusForbidden},
		{"worker sees own dashboard", http.MethodGet, "/api/v1/dashboard/worker", env.worker, http.StatusOK},
		{"worker cannot see another dashboard", http.MethodGet, "/api/v1/dashboard/worker?worker_id=" + env.admin.ID.String(), env.worker, http.StatusForbidden},
		{"admin dashboard", http.MethodGet, "/api/v1/dashboard/admin", env.admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, tt.as, map[string]any{}, nil)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	batch := env.createBatch("Shampoo", 5)

	body := map[string]any{
		"customer_name": "Ana",
		"products":      []map[string]any{{"batch_id": batch.ID, "quantity": 1}},
		"services":      []map[string]any{{"worker_id": env.worker.ID, "price": 30000, "gratuity": 5000}},
	}

	w := env.do(http.MethodPost, "/api/v1/invoices", env.assistant, body, nil)
	if resp := decode(t, w, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing key = %d %+v", w.Code, resp)
	}

	w = env.do(http.MethodPost, "/api/v1/invoices", env.assistant, body, key("inv-1"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	var inv entity.Invoice
	decode(t, w, &inv)

	replay := env.do(http.MethodPost, "/api/v1/invoices", env.assistant, body, key("inv-1"))
	var again entity.Invoice
	decode(t, replay, &again)
	if replay.Code != http.StatusCreated || replay.Header().Get("X-Idempotency-Replayed") != "true" || again.ID != inv.ID {
		t.Fatalf("replay = %d %s", replay.Code, replay.Body.String())
	}

	var got entity.ProductBatch
	decode(t, env.do(http.MethodGet, "/api/v1/batches/"+batch.ID.String(), env.assistant, nil, nil), &got)
	if got.Remaining != 4 {
		t.Fatalf("remaining = %d, want 4", got.Remaining)
	}

	body["customer_name"] = "Otra"
	w = env.do(http.MethodPost, "/api/v1/invoices", env.assistant, body, key("inv-1"))
	if resp := decode(t, w, nil); w.Code != http.StatusUnprocessableEntity || resp.Reason != "IDEMPOTENCY_KEY_REUSED" {
		t.Fatalf("reused key = %d %+v", w.Code, resp)
	}

	closePath := "/api/v1/invoices/" + inv.ID.String() + "/close"
	w = env.do(http.MethodPost, closePath, env.assistant, map[string]any{
		"method": "split", "cash": 30000, "transfer": 20000,
	}, key("close-1"))
	if resp := decode(t, w, nil); w.Code != http.StatusBadRequest || resp.Reason != "PAYMENT_MISMATCH" {
		t.Fatalf("split mismatch = %d %+v", w.Code, resp)
	}

	w = env.do(http.MethodPost, closePath, env.assistant, map[string]any{
		"method": "cash", "cash": 60000,
	}, key("close-2"))
	var closed entity.Invoice
	decode(t, w, &closed)
	if w.Code != http.StatusOK || closed.Status != enum.InvoiceStatusClosed || !closed.ChangeGiven.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("close = %d %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodPost, closePath, env.assistant, map[string]any{
		"method": "cash", "cash": 60000,
	}, key("close-3"))
	if resp := decode(t, w, nil); w.Code != http.StatusUnprocessableEntity || resp.Reason != "INVOICE_CLOSED" {
		t.Fatalf("second close = %d %+v", w.Code, resp)
	}

	w = env.do(http.MethodPost, "/api/v1/invoices/"+inv.ID.String()+"/print", env.assistant, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("print = %d %s", w.Code, w.Body.String())
	}
}

func TestAvailableBatchesWithHolds(t *testing.T) {
	env := newAPIEnv(t)
	batch := env.createBatch("Gel fijador", 3)

	w := env.do(http.MethodGet, "/api/v1/batches/available?q=gel&hold="+batch.ID.String()+":2", env.assistant, nil, nil)
	var offers []struct {
		Batch     entity.ProductBatch `json:"batch"`
		Available int                 `json:"available"`
	}
	decode(t, w, &offers)
	if w.Code != http.StatusOK || len(offers) != 1 || offers[0].Available != 1 {
		t.Fatalf("available = %d %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodGet, "/api/v1/batches/available?q=gel&hold=nope", env.assistant, nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad hold = %d", w.Code)
	}
}

func TestDeliverMoreThanPending(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(http.MethodPost, "/api/v1/gratuities/deliveries", env.admin, map[string]any{
		"worker_id": env.worker.ID, "amount": 1000,
	}, key("deliver-1"))
	if resp := decode(t, w, nil); w.Code != http.StatusConflict || resp.Reason != "INSUFFICIENT_PENDING" {
		t.Fatalf("deliver = %d %+v", w.Code, resp)
	}

	w = env.do(http.MethodGet, "/api/v1/gratuities/balances", env.admin, nil, nil)
	var balances []struct {
		WorkerID uuid.UUID       `json:"worker_id"`
		Pending  decimal.Decimal `json:"pending"`
	}
	decode(t, w, &balances)
	if w.Code != http.StatusOK || len(balances) != 1 || balances[0].WorkerID != env.worker.ID || !balances[0].Pending.IsZero() {
		t.Fatalf("balances = %d %s", w.Code, w.Body.String())
	}
}

func TestWeeklyClosingWithOpenInvoice(t *testing.T) {
	env := newAPIEnv(t)
	batch := env.createBatch("Cera", 4)

	w := env.do(http.MethodPost, "/api/v1/invoices", env.assistant, map[string]any{
		"customer_name": "Sin pagar",
		"products":      []map[string]any{{"batch_id": batch.ID, "quantity": 1}},
	}, key("open-1"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodPost, "/api/v1/closings/weekly", env.admin, nil, key("week-open"))
	if resp := decode(t, w, nil); w.Code != http.StatusUnprocessableEntity || resp.Reason != "OPEN_INVOICES_PENDING" {
		t.Fatalf("weekly = %d %+v", w.Code, resp)
	}
}

func TestWeeklyClosingAndReportDownload(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(http.MethodPost, "/api/v1/closings/weekly", env.admin, nil, key("week-1"))
	if w.Code != http.StatusCreated {
		t.Fatalf("weekly = %d %s", w.Code, w.Body.String())
	}
	var result struct {
		Record entity.ClosingRecord `json:"record"`
	}
	decode(t, w, &result)
	if result.Record.Kind != enum.ClosingKindWeekly {
		t.Fatalf("kind = %v", result.Record.Kind)
	}

	w = env.do(http.MethodGet, "/api/v1/closings/"+result.Record.ID.String()+"/report", env.admin, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("report = %d %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Body.String(), "PK") {
		t.Fatal("report is not an xlsx archive")
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
		t.Fatalf("content disposition = %q", cd)
	}

	w = env.do(http.MethodGet, "/api/v1/closings?kind=weekly", env.admin, nil, nil)
	var page struct {
		Items []entity.ClosingRecord `json:"items"`
	}
	decode(t, w, &page)
	if w.Code != http.StatusOK || len(page.Items) != 1 {
		t.Fatalf("list = %d %s", w.Code, w.Body.String())
	}
}
