package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/pkg/logger"
)

// errorMapping código HTTP y código de error público para un sentinel de dominio.
// Con message vacío se devuelve el texto del error; si no, el mensaje fijo.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// El orden importa: los casos particulares van antes que el sentinel que envuelven.
var errorMappings = []errorMapping{
	{access.ErrMissingToken, fiber.StatusUnauthorized, "MISSING_TOKEN", "Authorization: Bearer <token> requerido"},
	{access.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido o expirado"},
	{domain.ErrNotProvisioned, fiber.StatusUnauthorized, "NOT_PROVISIONED", "la cuenta no tiene una tienda asignada"},
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED", "no autenticado"},
	{domain.ErrSubscriptionExpired, fiber.StatusForbidden, "SUBSCRIPTION_EXPIRED", "la suscripción no está activa"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "no tiene permisos para esta operación"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT", ""},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", ""},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", ""},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", ""},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", ""},
}

// ErrorHandler punto único de traducción de errores a respuestas HTTP.
// Los handlers y middlewares solo devuelven el error. Cualquier error no mapeado
// responde 500 INTERNAL con mensaje genérico y la causa queda en el log.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		for _, m := range errorMappings {
			if errors.Is(err, m.target) {
				msg := m.message
				if msg == "" {
					msg = err.Error()
				}
				return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
			}
		}

		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: fiberCode(fe.Code), Message: fe.Message})
		}

		log.Error().Err(err).
			Str("method", c.Method()).
			Str("route", routePath(c)).
			Str("request_id", requestID(c)).
			Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "INTERNAL",
			Message: "error interno, intente más tarde",
		})
	}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	default:
		return "BAD_REQUEST"
	}
}
