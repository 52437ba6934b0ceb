package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/filterdesk/backend/internal/application/catalog"
	importapp "github.com/filterdesk/backend/internal/application/import"
	partnerapp "github.com/filterdesk/backend/internal/application/partner"
	pricingapp "github.com/filterdesk/backend/internal/application/pricing"
	printapp "github.com/filterdesk/backend/internal/application/printing"
	reportapp "github.com/filterdesk/backend/internal/application/report"
	appshared "github.com/filterdesk/backend/internal/application/shared"
	tradeapp "github.com/filterdesk/backend/internal/application/trade"
	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/infrastructure/cache"
	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/filterdesk/backend/internal/infrastructure/persistence"
	"github.com/filterdesk/backend/internal/infrastructure/persistence/models"
	infraprint "github.com/filterdesk/backend/internal/infrastructure/printing"
	"github.com/filterdesk/backend/internal/interfaces/http/dto"
	"github.com/filterdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// testEnv wires the real services over an in-memory SQLite database. The
// signed-in user is whatever env.as points to.
type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	as     *appshared.Actor

	admin *identity.User
	rep   *identity.User
	other *identity.User

	clients   *persistence.GormClientRepository
	products  *persistence.GormProductRepository
	discounts *persistence.GormDiscountRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	store := cache.NewInMemoryStore(0)
	t.Cleanup(func() { store.Close() })

	userRepo := persistence.NewGormUserRepository(db)
	regionRepo := persistence.NewGormRegionRepository(db)
	clientRepo := persistence.NewGormClientRepository(db)
	historyRepo := persistence.NewGormClientHistoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	discountRepo := persistence.NewGormDiscountRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	dashboardService := reportapp.NewDashboardService(
		persistence.NewGormDashboardRepository(db), clientRepo, store, time.Minute, nil)
	orderService := tradeapp.NewOrderService(tradeapp.OrderServiceDeps{
		OrderRepo:    orderRepo,
		ClientRepo:   clientRepo,
		HistoryRepo:  historyRepo,
		ProductRepo:  productRepo,
		DiscountRepo: discountRepo,
		UserRepo:     userRepo,
		TxScope:      txScope,
		Stats:        dashboardService,
	})
	printService := printapp.NewPrintService(printapp.PrintServiceConfig{
		Orders:        orderService,
		Renderers:     []infraprint.PDFRenderer{infraprint.NewGofpdfRenderer(nil)},
		DefaultEngine: "gofpdf",
	})
	sessions := cache.NewTypedCache[importapp.Session](store, "import:session:", time.Minute)
	importService := importapp.NewImportService(txScope,
		persistence.NewGormImportHistoryRepository(db), regionRepo, userRepo, sessions,
		config.ImportConfig{SessionTTL: time.Minute, MaxRows: 100}, zap.NewNop())

	env := &testEnv{
		t:         t,
		db:        db,
		clients:   clientRepo,
		products:  productRepo,
		discounts: discountRepo,
	}
	env.admin = env.seedUser(userRepo, "Admin", "admin@example.com", identity.RoleAdmin)
	env.rep = env.seedUser(userRepo, "Bruno Souza", "bruno@example.com", identity.RoleRepresentative)
	env.other = env.seedUser(userRepo, "Carla Dias", "carla@example.com", identity.RoleRepresentative)

	router := gin.New()
	router.Use(middleware.RequestID(nil))
	api := router.Group("/api/v1", func(c *gin.Context) {
		if env.as != nil {
			c.Set(middleware.ActorKey, *env.as)
		}
		c.Next()
	})

	clientHandler := NewClientHandler(partnerapp.NewClientService(clientRepo, historyRepo, regionRepo, userRepo, zap.NewNop()))
	api.GET("/clients", clientHandler.List)
	api.GET("/clients/stats", clientHandler.Stats)
	api.POST("/clients", clientHandler.Create)
	api.GET("/clients/:id", clientHandler.GetByID)
	api.PUT("/clients/:id", clientHandler.Update)
	api.POST("/clients/:id/deactivate", clientHandler.Deactivate)
	api.GET("/clients/:id/history", clientHandler.History)
	api.POST("/clients/:id/history", clientHandler.AddNote)

	productHandler := NewProductHandler(catalogapp.NewProductService(productRepo, zap.NewNop()))
	api.GET("/products", productHandler.List)
	api.GET("/products/brands", productHandler.Brands)
	api.GET("/products/export.xlsx", productHandler.Export)
	api.POST("/products", productHandler.Create)
	api.GET("/products/:id", productHandler.GetByID)

	pricingHandler := NewPricingHandler(pricingapp.NewQuoteService(productRepo, discountRepo))
	api.POST("/pricing/quote", pricingHandler.Quote)

	orderHandler := NewOrderHandler(orderService, printService)
	api.GET("/orders", orderHandler.List)
	api.GET("/orders/export.xlsx", orderHandler.Export)
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders/:id", orderHandler.GetByID)
	api.DELETE("/orders/:id", orderHandler.Delete)
	api.POST("/orders/:id/items", orderHandler.AddItem)
	api.PUT("/orders/:id/items/:itemId", orderHandler.UpdateItem)
	api.DELETE("/orders/:id/items/:itemId", orderHandler.RemoveItem)
	api.POST("/orders/:id/confirm", orderHandler.Confirm)
	api.GET("/orders/:id/summary", orderHandler.Summary)
	api.GET("/orders/:id/print", orderHandler.Print)
	api.GET("/orders/:id/pdf", orderHandler.PDF)

	importHandler := NewImportHandler(importService, 1<<20)
	api.GET("/imports/history", importHandler.History)
	api.POST("/imports/:ref/preview", importHandler.Preview)
	api.POST("/imports/:ref/commit", importHandler.Commit)

	api.GET("/stats/dashboard", NewDashboardHandler(dashboardService).Dashboard)

	env.router = router
	return env
}

func (e *testEnv) seedUser(repo *persistence.GormUserRepository, name, email string, role identity.Role) *identity.User {
	e.t.Helper()
	user, err := identity.NewUser(name, email, "Senha1234", role)
	require.NoError(e.t, err)
	require.NoError(e.t, user.Approve())
	require.NoError(e.t, repo.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedClient(name, cnpj string, rep *identity.User) *partner.Client {
	e.t.Helper()
	info := partner.ClientInfo{Name: name, CNPJ: cnpj}
	if rep != nil {
		info.RepresentativeID = &rep.ID
	}
	client, err := partner.NewClient(info)
	require.NoError(e.t, err)
	require.NoError(e.t, e.clients.Save(context.Background(), client))
	return client
}

func (e *testEnv) seedProduct(code, brand, price string) *catalog.Product {
	e.t.Helper()
	product, err := catalog.NewProduct(catalog.ProductInfo{
		Code:      code,
		Name:      "Filtro " + code,
		Brand:     brand,
		UnitPrice: decimal.RequireFromString(price),
	})
	require.NoError(e.t, err)
	require.NoError(e.t, e.products.Save(context.Background(), product))
	return product
}

func (e *testEnv) seedDiscount(name, commission string) *pricing.Discount {
	e.t.Helper()
	discount, err := pricing.NewDiscount(name, nil, decimal.RequireFromString(commission))
	require.NoError(e.t, err)
	require.NoError(e.t, e.discounts.Save(context.Background(), discount))
	return discount
}

func actorOf(u *identity.User) *appshared.Actor {
	return &appshared.Actor{UserID: u.ID, Name: u.Name, Role: u.Role}
}

// do sends a JSON request as the given user; a nil user is anonymous
func (e *testEnv) do(as *identity.User, method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(as, req)
}

func (e *testEnv) send(as *identity.User, req *http.Request) *httptest.ResponseRecorder {
	e.as = nil
	if as != nil {
		e.as = actorOf(as)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the data of a success envelope into out
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out), w.Body.String())
	}
	return envelope.Response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
