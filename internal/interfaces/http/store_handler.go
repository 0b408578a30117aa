package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
)

// StoreHandler onboarding y perfil de la tienda.
type StoreHandler struct {
	uc *usecase.StoreUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

// Onboard godoc
// @Summary      Crear la tienda del llamador (queda como admin)
// @Tags         store
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "Datos de la tienda"
// @Success      201   {object}  dto.StoreResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/onboarding/store [post]
func (h *StoreHandler) Onboard(c *fiber.Ctx) error {
	user, ok := GetIdentity(c)
	if !ok {
		return access.ErrMissingToken
	}
	var in dto.CreateStoreRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Onboard(c.UserContext(), user, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Perfil de la tienda
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StoreResponse
// @Router       /api/store [get]
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), p.Scope())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil de la tienda
// @Tags         store
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStoreRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.StoreResponse
// @Router       /api/store [put]
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var in dto.UpdateStoreRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), p.Scope(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
