package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/tiendapp-api/pkg/logger"
)

// HTTPObserver recibe una observación por petición (métricas).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestID asigna X-Request-ID a cada petición (o respeta el recibido).
func RequestID() fiber.Handler {
	return requestid.New()
}

// RequestLogger registra método, ruta, status, latencia y request id de cada petición.
// Debe montarse después de RequestID. observer puede ser nil.
func RequestLogger(log *logger.Logger, observer HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Escribe la respuesta de error ahora para registrar el status real.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := routePath(c)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("request_id", requestID(c)).
			Msg("request")

		if observer != nil {
			observer.ObserveHTTP(c.Method(), route, status, elapsed)
		}
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if v, ok := c.Locals("requestid").(string); ok {
		return v
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// routePath patrón de la ruta (p. ej. /api/products/:id) para no disparar la cardinalidad de métricas.
func routePath(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" {
		return r.Path
	}
	return "unmatched"
}
