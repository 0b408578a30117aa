package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
)

// Locals keys para la identidad resuelta en Fiber.
const (
	LocalPrincipal = "principal"
	LocalIdentity  = "identity"
)

// Gatekeeper lo implementa *access.Gate.
type Gatekeeper interface {
	Authorize(ctx context.Context, authorization string, policy access.Policy) (access.Principal, error)
	Identify(ctx context.Context, authorization string) (*entity.User, error)
}

// RequireAccess aplica la política de la ruta con el gate y guarda el Principal en c.Locals.
// Cualquier fallo corta la cadena: el handler nunca se ejecuta.
func RequireAccess(gate Gatekeeper, policy access.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := gate.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization), policy)
		if err != nil {
			return err
		}
		c.Locals(LocalPrincipal, p)
		return c.Next()
	}
}

// RequireIdentity solo verifica la credencial y resuelve la cuenta (aunque no tenga tienda).
// Lo usa únicamente el onboarding.
func RequireIdentity(gate Gatekeeper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := gate.Identify(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Locals(LocalIdentity, u)
		return c.Next()
	}
}

// GetPrincipal devuelve el Principal del contexto (después de RequireAccess).
func GetPrincipal(c *fiber.Ctx) (access.Principal, bool) {
	p, ok := c.Locals(LocalPrincipal).(access.Principal)
	return p, ok && p.StoreID != ""
}

// GetIdentity devuelve la cuenta del contexto (después de RequireIdentity).
func GetIdentity(c *fiber.Ctx) (*entity.User, bool) {
	u, ok := c.Locals(LocalIdentity).(*entity.User)
	return u, ok && u != nil
}

// principal extrae el Principal o falla con 401: un handler protegido montado sin
// RequireAccess no debe servir datos.
func principal(c *fiber.Ctx) (access.Principal, error) {
	p, ok := GetPrincipal(c)
	if !ok {
		return access.Principal{}, access.ErrMissingToken
	}
	return p, nil
}
