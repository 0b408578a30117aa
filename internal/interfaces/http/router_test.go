package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/application/inventory"
	"github.com/jhoicas/tiendapp-api/internal/application/jobs"
	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/mocks"
	apphttp "github.com/jhoicas/tiendapp-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const cronSecret = "cron-secret-for-tests"

// fakeVerifier acepta "tok-<subject>".
type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (string, error) {
	if strings.HasPrefix(token, "tok-") {
		return strings.TrimPrefix(token, "tok-"), nil
	}
	return "", errors.New("firma inválida")
}

type stubJob struct {
	name  string
	sent  int
	err   error
	calls int
}

func (j *stubJob) Name() string { return j.name }
func (j *stubJob) Run(context.Context) (int, error) {
	j.calls++
	return j.sent, j.err
}

type testEnv struct {
	app    *fiber.App
	db     *mocks.DB
	subs   *stubJob
	briefs *stubJob
}

func seed() *mocks.DB {
	db := mocks.NewDB()
	db.Stores["store-a"] = &entity.Store{ID: "store-a", Name: "Tienda A", Currency: "USD", LowStockThreshold: 5}
	db.Stores["store-b"] = &entity.Store{ID: "store-b", Name: "Tienda B", Currency: "EUR", LowStockThreshold: 5}
	db.Products["prod-a"] = &entity.Product{ID: "prod-a", StoreID: "store-a", SKU: "A-1", Name: "Café", Price: decimal.RequireFromString("2.50"), Cost: decimal.NewFromInt(1), Stock: 10}
	db.Products["prod-b"] = &entity.Product{ID: "prod-b", StoreID: "store-b", SKU: "B-1", Name: "Té", Price: decimal.NewFromInt(3), Stock: 10}
	for _, u := range []*entity.User{
		{ID: "admin-a", StoreID: "store-a", Email: "admin@a.test", Role: entity.RoleAdmin, SubscriptionStatus: entity.SubscriptionActive},
		{ID: "user-a", StoreID: "store-a", Email: "user@a.test", Role: entity.RoleUser, SubscriptionStatus: entity.SubscriptionActive},
		{ID: "expired-a", StoreID: "store-a", Email: "exp@a.test", Role: entity.RoleManager, SubscriptionStatus: entity.SubscriptionExpired},
		{ID: "orphan", Email: "new@x.test", Role: entity.RoleUser, SubscriptionStatus: entity.SubscriptionActive},
	} {
		db.Users[u.ID] = u
	}
	return db
}

func newEnv(t *testing.T, subs, briefs *stubJob) *testEnv {
	t.Helper()
	db := seed()
	if subs == nil {
		subs = &stubJob{name: jobs.JobSubscriptions, sent: 2}
	}
	if briefs == nil {
		briefs = &stubJob{name: jobs.JobBriefs, sent: 3}
	}

	gate := access.NewGate(fakeVerifier{}, db.UserRepo(), nil, access.Options{})
	productUC := usecase.NewProductUseCase(db.TxRunner(), db.ProductRepo(), db.StoreRepo(), db.SaleRepo(), db.AdjustmentRepo())
	reportUC := usecase.NewReportUseCase(db.StoreRepo(), db.ProductRepo(), db.SaleRepo())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	apphttp.Router(app, apphttp.RouterDeps{
		Gate:          gate,
		AccountUC:     usecase.NewAccountUseCase(db.UserRepo(), db.StoreRepo(), db.ProductRepo(), db.SaleRepo(), db.AdjustmentRepo()),
		StoreUC:       usecase.NewStoreUseCase(db.TxRunner(), db.StoreRepo(), db.UserRepo()),
		UserUC:        usecase.NewUserUseCase(db.UserRepo()),
		ProductUC:     productUC,
		SaleUC:        usecase.NewSaleUseCase(db.TxRunner(), db.SaleRepo(), db.StoreRepo()),
		ReportUC:      reportUC,
		DocumentUC:    usecase.NewDocumentUseCase(reportUC, productUC, nil),
		MobileUC:      usecase.NewMobileUseCase(db.StoreRepo(), db.ProductRepo(), db.SaleRepo()),
		AdjustStock:   inventory.NewAdjustStockUseCase(db.TxRunner(), db.AdjustmentRepo()),
		Replenishment: inventory.NewReplenishmentUseCase(db.StoreRepo(), db.ProductRepo(), db.SaleRepo()),
		Jobs:          jobs.NewRunner(cronSecret, subs, briefs, nil, nil),
		Metrics:       prometheus.NewRegistry(),
		ServiceName:   "tiendapp-test",
	})
	return &testEnv{app: app, db: db, subs: subs, briefs: briefs}
}

func (e *testEnv) do(t *testing.T, method, path, authorization, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func bearer(subject string) string { return "Bearer tok-" + subject }

// ──────────────────────────────────────────────────────────────────────────────
// Acceso
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_UnauthenticatedNeverGets403(t *testing.T) {
	env := newEnv(t, nil, nil)
	cases := []struct {
		method, path, auth, code string
	}{
		{fiber.MethodGet, "/api/products", "", "MISSING_TOKEN"},
		{fiber.MethodGet, "/api/products/prod-a", "Bearer basura", "INVALID_TOKEN"},
		{fiber.MethodPost, "/api/products", "Basic abc", "INVALID_TOKEN"},
		{fiber.MethodGet, "/api/reports/sales", "", "MISSING_TOKEN"},
		{fiber.MethodGet, "/api/mobile/summary", bearer("nadie"), "UNAUTHENTICATED"},
		{fiber.MethodGet, "/api/me", bearer("orphan"), "NOT_PROVISIONED"},
	}
	for _, tc := range cases {
		t.Run(tc.path+"_"+tc.code, func(t *testing.T) {
			resp := env.do(t, tc.method, tc.path, tc.auth, "")
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tc.code, body.Code)
		})
	}
	assert.Zero(t, env.db.Writes)
}

func TestRouter_RoleOutsideAllowListIsForbiddenWithoutMutation(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodPost, "/api/products", bearer("user-a"), `{"sku":"X-1","name":"Nuevo","price":"1"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = env.do(t, fiber.MethodDelete, "/api/products/prod-a", bearer("user-a"), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/mobile/sales/recent", bearer("user-a"), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	assert.Zero(t, env.db.Writes)
	assert.Len(t, env.db.Products, 2)
}

func TestRouter_CrossTenantProductIsNotFound(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodGet, "/api/products/prod-b", bearer("admin-a"), "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = env.do(t, fiber.MethodPut, "/api/products/prod-b", bearer("admin-a"), `{"name":"robado"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Té", env.db.Products["prod-b"].Name)
}

func TestRouter_ExpiredSubscription(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodGet, "/api/protected-data", bearer("expired-a"), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "SUBSCRIPTION_EXPIRED", decode[dto.ErrorResponse](t, resp).Code)

	// Las rutas sin requisito de suscripción siguen disponibles.
	resp = env.do(t, fiber.MethodGet, "/api/me", bearer("expired-a"), "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_ProtectedData(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodGet, "/api/protected-data?user=admin-a", bearer("admin-a"), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[dto.ProtectedDataResponse](t, resp)
	assert.Equal(t, "admin-a", body.UserID)
	assert.Equal(t, "store-a", body.StoreID)

	resp = env.do(t, fiber.MethodGet, "/api/protected-data?user=user-a", bearer("admin-a"), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRouter_OnboardingProvisionsCaller(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodPost, "/api/onboarding/store", bearer("orphan"), `{"name":"Mi Tienda","currency":"cop"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	store := decode[dto.StoreResponse](t, resp)
	assert.Equal(t, "Mi Tienda", store.Name)

	resp = env.do(t, fiber.MethodGet, "/api/me", bearer("orphan"), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	me := decode[dto.MeResponse](t, resp)
	assert.Equal(t, entity.RoleAdmin, me.User.Role)
	assert.Equal(t, store.ID, me.Store.ID)

	// Una cuenta ya aprovisionada no puede crear otra tienda.
	resp = env.do(t, fiber.MethodPost, "/api/onboarding/store", bearer("admin-a"), `{"name":"Otra"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ProductCreateAndList(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodPost, "/api/products", bearer("admin-a"),
		`{"sku":"A-2","name":"Azúcar","price":"1.20","cost":"0.80","initial_stock":4}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "store-a", created.StoreID)
	assert.Equal(t, int64(4), created.Stock)
	assert.True(t, created.LowStock)

	resp = env.do(t, fiber.MethodGet, "/api/products?limit=10", bearer("user-a"), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.ProductListResponse](t, resp)
	skus := make([]string, 0, len(list.Items))
	for _, p := range list.Items {
		skus = append(skus, p.SKU)
		assert.Equal(t, "store-a", p.StoreID)
	}
	assert.ElementsMatch(t, []string{"A-1", "A-2"}, skus)

	resp = env.do(t, fiber.MethodPost, "/api/products", bearer("admin-a"), `{"sku":"A-2","name":"Repetido"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_ValidationErrors(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodPost, "/api/products", bearer("admin-a"), `{"name":"sin sku"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_INPUT", body.Code)
	assert.Contains(t, body.Message, "sku")

	resp = env.do(t, fiber.MethodPost, "/api/products", bearer("admin-a"), `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/products?limit=500", bearer("admin-a"), "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/sales?from=ayer", bearer("admin-a"), "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, env.db.Writes)
}

func TestRouter_SaleDecrementsStock(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodPost, "/api/sales", bearer("user-a"), `{"items":[{"product_id":"prod-a","quantity":3}]}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleResponse](t, resp)
	assert.True(t, decimal.RequireFromString("7.50").Equal(sale.Total))
	assert.Equal(t, int64(7), env.db.Products["prod-a"].Stock)

	resp = env.do(t, fiber.MethodPost, "/api/sales", bearer("user-a"), `{"items":[{"product_id":"prod-a","quantity":99}]}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, int64(7), env.db.Products["prod-a"].Stock)

	// Producto de otra tienda: no existe para el llamador.
	resp = env.do(t, fiber.MethodPost, "/api/sales", bearer("user-a"), `{"items":[{"product_id":"prod-b","quantity":1}]}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int64(10), env.db.Products["prod-b"].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cron
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CronWrongSecretRunsNothing(t *testing.T) {
	env := newEnv(t, nil, nil)

	for _, auth := range []string{"", "Bearer otro-secreto", "Bearer " + cronSecret + "x"} {
		resp := env.do(t, fiber.MethodGet, "/api/cron", auth, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, auth)
		assert.NotContains(t, string(mustRead(t, resp)), "subsSent")
	}
	assert.Zero(t, env.subs.calls)
	assert.Zero(t, env.briefs.calls)
}

func TestRouter_CronSuccess(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodGet, "/api/cron", "Bearer "+cronSecret, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[dto.CronResponse](t, resp)
	assert.True(t, body.Success)
	require.NotNil(t, body.SubsSent)
	require.NotNil(t, body.BriefsSent)
	assert.Equal(t, 2, *body.SubsSent)
	assert.Equal(t, 3, *body.BriefsSent)
	assert.Empty(t, body.Failures)
}

func TestRouter_CronPartialFailure(t *testing.T) {
	subs := &stubJob{name: jobs.JobSubscriptions, err: errors.New("smtp caído: detalle interno")}
	env := newEnv(t, subs, nil)

	resp := env.do(t, fiber.MethodGet, "/api/cron", "Bearer "+cronSecret, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw := mustRead(t, resp)
	assert.NotContains(t, string(raw), "smtp")

	var body dto.CronResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Nil(t, body.SubsSent)
	require.NotNil(t, body.BriefsSent)
	assert.Equal(t, 3, *body.BriefsSent)
	assert.Contains(t, body.Failures, jobs.JobSubscriptions)
	assert.Equal(t, 1, env.briefs.calls)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ops
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_OpsRoutes(t *testing.T) {
	env := newEnv(t, nil, nil)

	resp := env.do(t, fiber.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Sin Debug el volcado no existe.
	resp = env.do(t, fiber.MethodGet, "/api/debug/dump", bearer("admin-a"), "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func mustRead(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}
