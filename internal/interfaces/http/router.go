package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/internal/application/auth"
	"github.com/jhoicas/tiendapp-api/internal/application/inventory"
	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Gate          Gatekeeper
	AuthUC        *auth.AuthUseCase // nil con proveedor Firebase: /api/auth no se monta
	AccountUC     *usecase.AccountUseCase
	StoreUC       *usecase.StoreUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	SaleUC        *usecase.SaleUseCase
	ReportUC      *usecase.ReportUseCase
	DocumentUC    *usecase.DocumentUseCase
	MobileUC      *usecase.MobileUseCase
	AdjustStock   *inventory.AdjustStockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Jobs          JobTrigger
	Metrics       prometheus.Gatherer // nil = sin /metrics
	ServiceName   string
	Debug         bool // monta /api/debug/dump
}

// Políticas por ruta.
var (
	anyRole    = access.Policy{}
	adminOnly  = access.Policy{Roles: []string{entity.RoleAdmin}}
	staff      = access.Policy{Roles: []string{entity.RoleAdmin, entity.RoleManager}}
	allRoles   = access.Policy{Roles: []string{entity.RoleAdmin, entity.RoleManager, entity.RoleUser}}
	subscribed = access.Policy{RequireActiveSubscription: true}
	staffPaid  = access.Policy{Roles: staff.Roles, RequireActiveSubscription: true}
)

// Router registra las rutas de la API. Cada ruta protegida declara su política;
// no hay grupos con middleware de prefijo.
func Router(app *fiber.App, deps RouterDeps) {
	gate := deps.Gate
	with := func(p access.Policy) fiber.Handler { return RequireAccess(gate, p) }

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público, solo proveedor JWT propio)
	if deps.AuthUC != nil {
		authHandler := NewAuthHandler(deps.AuthUC)
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)
	}

	// Cron (secreto compartido, no token de usuario)
	api.Get("/cron", NewCronHandler(deps.Jobs).Run)

	storeHandler := NewStoreHandler(deps.StoreUC)
	api.Post("/onboarding/store", RequireIdentity(gate), storeHandler.Onboard)
	api.Get("/store", with(anyRole), storeHandler.Get)
	api.Put("/store", with(adminOnly), storeHandler.Update)

	accountHandler := NewAccountHandler(deps.AccountUC)
	api.Get("/me", with(anyRole), accountHandler.Me)
	api.Get("/protected-data", with(subscribed), accountHandler.ProtectedData)
	if deps.Debug {
		api.Get("/debug/dump", with(adminOnly), accountHandler.DebugDump)
	}

	userHandler := NewUserHandler(deps.UserUC)
	api.Get("/users", with(staff), userHandler.List)
	api.Put("/users/:id/role", with(adminOnly), userHandler.UpdateRole)
	api.Put("/users/:id/subscription", with(adminOnly), userHandler.UpdateSubscription)

	productHandler := NewProductHandler(deps.ProductUC)
	api.Get("/products", with(anyRole), productHandler.List)
	api.Post("/products", with(staff), productHandler.Create)
	api.Get("/products/:id", with(anyRole), productHandler.Detail)
	api.Put("/products/:id", with(staff), productHandler.Update)
	api.Delete("/products/:id", with(adminOnly), productHandler.Delete)

	saleHandler := NewSaleHandler(deps.SaleUC)
	api.Post("/sales", with(subscribed), saleHandler.Create)
	api.Get("/sales", with(staff), saleHandler.List)
	api.Get("/sales/:id", with(staff), saleHandler.GetByID)

	inventoryHandler := NewInventoryHandler(deps.AdjustStock, deps.Replenishment)
	api.Post("/inventory/adjustments", with(staff), inventoryHandler.CreateAdjustment)
	api.Get("/inventory/adjustments", with(staff), inventoryHandler.ListAdjustments)
	api.Get("/inventory/replenishment", with(staff), inventoryHandler.Replenishment)

	reportHandler := NewReportHandler(deps.ReportUC, deps.DocumentUC)
	api.Get("/reports/sales", with(staffPaid), reportHandler.Sales)
	api.Get("/reports/inventory", with(staffPaid), reportHandler.Inventory)
	api.Get("/documents/sales-report", with(staffPaid), reportHandler.SalesReportPDF)
	api.Get("/documents/products/:id", with(staffPaid), reportHandler.ProductSheetPDF)

	mobileHandler := NewMobileHandler(deps.MobileUC)
	api.Get("/mobile/summary", with(allRoles), mobileHandler.Summary)
	api.Get("/mobile/products", with(allRoles), mobileHandler.Products)
	api.Get("/mobile/sales/recent", with(staff), mobileHandler.RecentSales)
}
