package usecase_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/mocks"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

var (
	scopeA = tenancy.MustScope("store-a")
	scopeB = tenancy.MustScope("store-b")
)

// seed crea dos tiendas con un producto cada una y un admin en la tienda A.
func seed(t *testing.T) *mocks.DB {
	t.Helper()
	db := mocks.NewDB()
	db.Stores["store-a"] = &entity.Store{ID: "store-a", Name: "Tienda A", Currency: "USD", LowStockThreshold: 5}
	db.Stores["store-b"] = &entity.Store{ID: "store-b", Name: "Tienda B", Currency: "EUR", LowStockThreshold: 5}
	db.Products["prod-a"] = &entity.Product{ID: "prod-a", StoreID: "store-a", SKU: "A-1", Name: "Café", Price: decimal.RequireFromString("2.50"), Cost: decimal.NewFromInt(1), Stock: 10}
	db.Products["prod-b"] = &entity.Product{ID: "prod-b", StoreID: "store-b", SKU: "B-1", Name: "Té", Price: decimal.NewFromInt(3), Stock: 10}
	db.Users["admin-a"] = &entity.User{ID: "admin-a", StoreID: "store-a", Role: entity.RoleAdmin, SubscriptionStatus: entity.SubscriptionActive}
	db.Users["user-a"] = &entity.User{ID: "user-a", StoreID: "store-a", Role: entity.RoleUser, SubscriptionStatus: entity.SubscriptionActive}
	db.Users["admin-b"] = &entity.User{ID: "admin-b", StoreID: "store-b", Role: entity.RoleAdmin, SubscriptionStatus: entity.SubscriptionActive}
	return db
}

func newProductUC(db *mocks.DB) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(db.TxRunner(), db.ProductRepo(), db.StoreRepo(), db.SaleRepo(), db.AdjustmentRepo())
}

func newSaleUC(db *mocks.DB) *usecase.SaleUseCase {
	return usecase.NewSaleUseCase(db.TxRunner(), db.SaleRepo(), db.StoreRepo())
}

// ── Productos ────────────────────────────────────────────────────────────────

func TestProduct_CrossTenantReadsAreNotFound(t *testing.T) {
	db := seed(t)
	uc := newProductUC(db)
	ctx := context.Background()

	_, err := uc.GetByID(ctx, scopeA, "prod-b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Detail(ctx, scopeA, "prod-b")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Detail(ctx, scopeA, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	name := "robado"
	_, err = uc.Update(ctx, scopeA, "prod-b", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Té", db.Products["prod-b"].Name)

	assert.ErrorIs(t, uc.Delete(ctx, scopeA, "prod-b"), domain.ErrNotFound)
	assert.Contains(t, db.Products, "prod-b")
}

func TestProduct_ListIsScoped(t *testing.T) {
	db := seed(t)
	uc := newProductUC(db)

	list, err := uc.List(context.Background(), scopeA, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "prod-a", list.Items[0].ID)
	assert.Equal(t, 1, list.Page.Count)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestProduct_CreateWithInitialStock(t *testing.T) {
	db := seed(t)
	uc := newProductUC(db)
	ctx := context.Background()

	p, err := uc.Create(ctx, scopeA, "admin-a", dto.CreateProductRequest{
		SKU: "A-2", Name: "Leche", Price: decimal.NewFromInt(4), Cost: decimal.NewFromInt(2), InitialStock: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.Stock)
	assert.Equal(t, "store-a", p.StoreID)
	assert.False(t, p.LowStock)

	adj, err := db.AdjustmentRepo().ListByProduct(ctx, scopeA, p.ID)
	require.NoError(t, err)
	require.Len(t, adj, 1)
	assert.Equal(t, entity.AdjustmentInitial, adj[0].Reason)
	assert.Equal(t, int64(12), adj[0].Delta)

	_, err = uc.Create(ctx, scopeA, "admin-a", dto.CreateProductRequest{SKU: "A-2", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// El mismo SKU en otra tienda es válido.
	_, err = uc.Create(ctx, scopeB, "admin-b", dto.CreateProductRequest{SKU: "A-2", Name: "Leche B"})
	assert.NoError(t, err)
}

func TestProduct_Detail(t *testing.T) {
	db := seed(t)
	ctx := context.Background()
	sales := newSaleUC(db)
	_, err := sales.Create(ctx, scopeA, "user-a", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 3}}})
	require.NoError(t, err)
	_, err = sales.Create(ctx, scopeA, "user-a", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 4}}})
	require.NoError(t, err)

	d, err := newProductUC(db).Detail(ctx, scopeA, "prod-a")
	require.NoError(t, err)
	assert.Equal(t, int64(7), d.KPIs.UnitsSold)
	assert.Equal(t, 2, d.KPIs.SalesCount)
	assert.Equal(t, "17.5", d.KPIs.Revenue["USD"])
	assert.Equal(t, int64(3), d.KPIs.CurrentStock)
	assert.True(t, d.KPIs.LowStock)
	assert.Len(t, d.RecentSales, 2)
	require.Len(t, d.StockHistory, 2)
	assert.Equal(t, entity.AdjustmentSale, d.StockHistory[0].Reason)
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func TestSale_CreateDecrementsStock(t *testing.T) {
	db := seed(t)
	uc := newSaleUC(db)

	sale, err := uc.Create(context.Background(), scopeA, "user-a", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{ProductID: "prod-a", Quantity: 2},
		{ProductID: "prod-a", Quantity: 1},
	}})
	require.NoError(t, err)
	assert.Equal(t, "USD", sale.Currency)
	assert.True(t, decimal.RequireFromString("7.5").Equal(sale.Total))
	assert.Equal(t, int64(7), db.Products["prod-a"].Stock)

	// Un único ajuste por producto, referenciando la venta.
	require.Len(t, db.Adjustments, 1)
	assert.Equal(t, int64(-3), db.Adjustments[0].Delta)
	assert.Equal(t, sale.ID, db.Adjustments[0].Reference)
}

func TestSale_InsufficientStockRollsBack(t *testing.T) {
	db := seed(t)
	db.Products["prod-a2"] = &entity.Product{ID: "prod-a2", StoreID: "store-a", SKU: "A-3", Price: decimal.NewFromInt(1), Stock: 1}
	uc := newSaleUC(db)

	_, err := uc.Create(context.Background(), scopeA, "user-a", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{ProductID: "prod-a", Quantity: 2},
		{ProductID: "prod-a2", Quantity: 5},
	}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), db.Products["prod-a"].Stock)
	assert.Equal(t, int64(1), db.Products["prod-a2"].Stock)
	assert.Empty(t, db.Sales)
	assert.Empty(t, db.Adjustments)
}

func TestSale_QuantitySumOverflowIsInvalid(t *testing.T) {
	db := seed(t)
	uc := newSaleUC(db)

	_, err := uc.Create(context.Background(), scopeA, "user-a", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{ProductID: "prod-a", Quantity: math.MaxInt64},
		{ProductID: "prod-a", Quantity: math.MaxInt64},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(10), db.Products["prod-a"].Stock)
	assert.Empty(t, db.Sales)
}

func TestSale_ForeignProductIsNotFound(t *testing.T) {
	db := seed(t)
	_, err := newSaleUC(db).Create(context.Background(), scopeA, "user-a", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{ProductID: "prod-b", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), db.Products["prod-b"].Stock)
}

func TestSale_ListRejectsInvertedRange(t *testing.T) {
	db := seed(t)
	now := time.Now()
	_, err := newSaleUC(db).List(context.Background(), scopeA, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Reportes ─────────────────────────────────────────────────────────────────

func TestReport_SalesAndInventory(t *testing.T) {
	db := seed(t)
	ctx := context.Background()
	_, err := newSaleUC(db).Create(ctx, scopeA, "user-a", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 4}}})
	require.NoError(t, err)
	_, err = newSaleUC(db).Create(ctx, scopeB, "admin-b", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{ProductID: "prod-b", Quantity: 1}}})
	require.NoError(t, err)

	reports := usecase.NewReportUseCase(db.StoreRepo(), db.ProductRepo(), db.SaleRepo())
	r, err := reports.SalesReport(ctx, scopeA, time.Time{}, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Totals.SalesCount)
	assert.Equal(t, map[string]string{"USD": "10"}, r.Totals.Revenue)
	require.Len(t, r.TopProducts, 1)
	assert.Equal(t, "A-1", r.TopProducts[0].SKU)
	require.Len(t, r.Daily, 1)

	inv, err := reports.InventoryReport(ctx, scopeA)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.ProductCount)
	assert.Equal(t, int64(6), inv.UnitsInStock)
	assert.Equal(t, "6", inv.StockValue)
	assert.Empty(t, inv.LowStock)
}

// ── Documentos ───────────────────────────────────────────────────────────────

type fakeRenderer struct {
	sales   *usecase.SalesReportDocument
	product *usecase.ProductSheetDocument
}

func (f *fakeRenderer) RenderSalesReport(_ context.Context, doc usecase.SalesReportDocument) ([]byte, error) {
	f.sales = &doc
	return []byte("%PDF-sales"), nil
}

func (f *fakeRenderer) RenderProductSheet(_ context.Context, doc usecase.ProductSheetDocument) ([]byte, error) {
	f.product = &doc
	return []byte("%PDF-product"), nil
}

func TestDocument_ProductSheet(t *testing.T) {
	db := seed(t)
	renderer := &fakeRenderer{}
	docs := usecase.NewDocumentUseCase(
		usecase.NewReportUseCase(db.StoreRepo(), db.ProductRepo(), db.SaleRepo()),
		newProductUC(db),
		renderer,
	)
	ctx := context.Background()

	pdf, name, err := docs.ProductSheetPDF(ctx, scopeA, "prod-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-product"), pdf)
	assert.Equal(t, "producto_A-1.pdf", name)
	require.NotNil(t, renderer.product)
	assert.Equal(t, "Tienda A", renderer.product.Header.StoreName)

	_, _, err = docs.ProductSheetPDF(ctx, scopeA, "prod-b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocument_SalesReport(t *testing.T) {
	db := seed(t)
	renderer := &fakeRenderer{}
	docs := usecase.NewDocumentUseCase(
		usecase.NewReportUseCase(db.StoreRepo(), db.ProductRepo(), db.SaleRepo()),
		newProductUC(db),
		renderer,
	)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	_, name, err := docs.SalesReportPDF(context.Background(), scopeA, from, to)
	require.NoError(t, err)
	assert.Equal(t, "ventas_20250101_20250201.pdf", name)
	require.NotNil(t, renderer.sales)
	assert.Equal(t, "Reporte de ventas", renderer.sales.Header.Title)
	assert.Empty(t, renderer.sales.Daily)
}

// ── Tienda, usuarios y cuenta ────────────────────────────────────────────────

func TestStore_Onboard(t *testing.T) {
	db := seed(t)
	db.Users["nuevo"] = &entity.User{ID: "nuevo", Role: entity.RoleUser, SubscriptionStatus: entity.SubscriptionActive}
	uc := usecase.NewStoreUseCase(db.TxRunner(), db.StoreRepo(), db.UserRepo())
	ctx := context.Background()

	s, err := uc.Onboard(ctx, db.Users["nuevo"], dto.CreateStoreRequest{Name: "Nueva", Currency: "cop"})
	require.NoError(t, err)
	assert.Equal(t, "COP", s.Currency)
	assert.Equal(t, entity.DefaultLowStockThreshold, s.LowStockThreshold)
	assert.Equal(t, s.ID, db.Users["nuevo"].StoreID)
	assert.Equal(t, entity.RoleAdmin, db.Users["nuevo"].Role)

	_, err = uc.Onboard(ctx, db.Users["admin-a"], dto.CreateStoreRequest{Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Onboard(ctx, &entity.User{ID: "x"}, dto.CreateStoreRequest{Name: "Mala", Currency: "ZZZ"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_OnboardConcurrenteNoDejaTiendaHuerfana(t *testing.T) {
	db := seed(t)
	db.Users["nuevo"] = &entity.User{ID: "nuevo", Role: entity.RoleUser, SubscriptionStatus: entity.SubscriptionActive}
	uc := usecase.NewStoreUseCase(db.TxRunner(), db.StoreRepo(), db.UserRepo())
	ctx := context.Background()

	// Copia leída antes de que la primera petición aprovisionara la cuenta.
	stale := *db.Users["nuevo"]

	first, err := uc.Onboard(ctx, db.Users["nuevo"], dto.CreateStoreRequest{Name: "Primera", Currency: "COP"})
	require.NoError(t, err)
	storesBefore := len(db.Stores)

	_, err = uc.Onboard(ctx, &stale, dto.CreateStoreRequest{Name: "Segunda", Currency: "COP"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, db.Stores, storesBefore)
	assert.Equal(t, first.ID, db.Users["nuevo"].StoreID)
	for _, st := range db.Stores {
		assert.NotEqual(t, "Segunda", st.Name)
	}
}

func TestStore_UpdateOnlyOwnStore(t *testing.T) {
	db := seed(t)
	uc := usecase.NewStoreUseCase(db.TxRunner(), db.StoreRepo(), db.UserRepo())
	name := "Renombrada"
	s, err := uc.Update(context.Background(), scopeA, dto.UpdateStoreRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renombrada", s.Name)
	assert.Equal(t, "Tienda B", db.Stores["store-b"].Name)
}

func TestUser_RoleChanges(t *testing.T) {
	db := seed(t)
	uc := usecase.NewUserUseCase(db.UserRepo())
	ctx := context.Background()

	u, err := uc.UpdateRole(ctx, scopeA, "admin-a", "user-a", entity.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, u.Role)

	_, err = uc.UpdateRole(ctx, scopeA, "admin-a", "admin-b", entity.RoleUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, entity.RoleAdmin, db.Users["admin-b"].Role)

	_, err = uc.UpdateRole(ctx, scopeA, "admin-a", "admin-a", entity.RoleUser)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.UpdateRole(ctx, scopeA, "admin-a", "user-a", "superadmin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUser_UpdateSubscription(t *testing.T) {
	db := seed(t)
	uc := usecase.NewUserUseCase(db.UserRepo())
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	u, err := uc.UpdateSubscription(context.Background(), scopeA, "user-a", dto.UpdateSubscriptionRequest{Status: entity.SubscriptionActive, ExpiresAt: &exp})
	require.NoError(t, err)
	require.NotNil(t, u.SubscriptionExpiresAt)
	assert.True(t, exp.Equal(*db.Users["user-a"].SubscriptionExpiresAt))

	_, err = uc.UpdateSubscription(context.Background(), scopeA, "admin-b", dto.UpdateSubscriptionRequest{Status: entity.SubscriptionExpired})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func newAccountUC(db *mocks.DB) *usecase.AccountUseCase {
	return usecase.NewAccountUseCase(db.UserRepo(), db.StoreRepo(), db.ProductRepo(), db.SaleRepo(), db.AdjustmentRepo())
}

func TestAccount_ProtectedDataOnlyForCaller(t *testing.T) {
	db := seed(t)
	uc := newAccountUC(db)
	ctx := context.Background()

	out, err := uc.ProtectedData(ctx, scopeA, "user-a", "")
	require.NoError(t, err)
	assert.Equal(t, "user-a", out.UserID)

	_, err = uc.ProtectedData(ctx, scopeA, "user-a", "user-a")
	assert.NoError(t, err)

	_, err = uc.ProtectedData(ctx, scopeA, "user-a", "admin-a")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAccount_DebugDumpIsScoped(t *testing.T) {
	db := seed(t)
	dump, err := newAccountUC(db).DebugDump(context.Background(), scopeA)
	require.NoError(t, err)

	assert.Equal(t, "store-a", dump.Store.ID)
	for _, u := range dump.Users {
		assert.Equal(t, "store-a", u.StoreID)
	}
	require.Len(t, dump.Products, 1)
	assert.Equal(t, "prod-a", dump.Products[0].ID)
}

func TestAccount_Me(t *testing.T) {
	db := seed(t)
	me, err := newAccountUC(db).Me(context.Background(), scopeA, "admin-a")
	require.NoError(t, err)
	assert.Equal(t, "Tienda A", me.Store.Name)
	assert.True(t, me.ActiveSubscription)
}

// ── Móvil ────────────────────────────────────────────────────────────────────

func TestMobile_Summary(t *testing.T) {
	db := seed(t)
	ctx := context.Background()
	_, err := newSaleUC(db).Create(ctx, scopeA, "user-a", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 6}}})
	require.NoError(t, err)

	uc := usecase.NewMobileUseCase(db.StoreRepo(), db.ProductRepo(), db.SaleRepo())
	s, err := uc.Summary(ctx, scopeA)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Today.SalesCount)
	assert.Equal(t, 1, s.LowStockCount)
	assert.Equal(t, 1, s.ProductCount)

	products, err := uc.Products(ctx, scopeA, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].LowStock)

	recent, err := uc.RecentSales(ctx, scopeA)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
