package http_test

import (
	"bytes"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	apphttp "github.com/jhoicas/tiendapp-api/internal/interfaces/http"
	"github.com/jhoicas/tiendapp-api/pkg/logger"
)

type observedRequest struct {
	method, route string
	status        int
}

type recordingHTTPObserver struct{ seen []observedRequest }

func (r *recordingHTTPObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	r.seen = append(r.seen, observedRequest{method: method, route: route, status: status})
}

func TestErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrSubscriptionExpired, fiber.StatusForbidden, "SUBSCRIPTION_EXPIRED"},
		{fmt.Errorf("usuarios: %w", domain.ErrForbidden), fiber.StatusForbidden, "FORBIDDEN"},
		{domain.ErrNotProvisioned, fiber.StatusUnauthorized, "NOT_PROVISIONED"},
		{fmt.Errorf("%w: producto", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
		{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
		{fmt.Errorf("%w: A-1", domain.ErrInsufficientStock), fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
			app.Get("/x", func(*fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/x", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestErrorHandler_InternalErrorsAreGeneric(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "info", Output: &buf})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestID())
	obs := &recordingHTTPObserver{}
	app.Use(apphttp.RequestLogger(log, obs))
	app.Get("/boom", func(*fiber.Ctx) error {
		return errors.New("pgx: password authentication failed for user tienda")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	reqID := resp.Header.Get(fiber.HeaderXRequestID)
	assert.NotEmpty(t, reqID)

	raw := mustRead(t, resp)
	assert.Contains(t, string(raw), `"INTERNAL"`)
	assert.NotContains(t, string(raw), "password")

	// La causa solo queda en el log, con ruta y request id.
	logs := buf.String()
	assert.Contains(t, logs, "password authentication failed")
	assert.Contains(t, logs, `"route":"/boom"`)
	assert.Contains(t, logs, reqID)
	assert.Contains(t, logs, `"status":500`)

	require.Len(t, obs.seen, 1)
	assert.Equal(t, observedRequest{method: fiber.MethodGet, route: "/boom", status: 500}, obs.seen[0])
}
