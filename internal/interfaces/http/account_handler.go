package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
)

// AccountHandler identidad del llamador, datos protegidos y volcado de depuración.
type AccountHandler struct {
	uc *usecase.AccountUseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// Me godoc
// @Summary      Identidad del llamador y su tienda
// @Tags         account
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Me(c.UserContext(), p.Scope(), p.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ProtectedData godoc
// @Summary      Datos que requieren suscripción activa
// @Tags         account
// @Security     Bearer
// @Produce      json
// @Param        user  query  string  false  "ID de usuario (debe ser el llamador)"
// @Success      200   {object}  dto.ProtectedDataResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/protected-data [get]
func (h *AccountHandler) ProtectedData(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ProtectedData(c.UserContext(), p.Scope(), p.SubjectID, c.Query("user"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DebugDump volcado de la tienda del llamador. Solo se monta en desarrollo.
func (h *AccountHandler) DebugDump(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.uc.DebugDump(c.UserContext(), p.Scope())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
