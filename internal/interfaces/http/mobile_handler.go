package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
)

// MobileHandler endpoints de la app móvil.
type MobileHandler struct {
	uc *usecase.MobileUseCase
}

// NewMobileHandler construye el handler.
func NewMobileHandler(uc *usecase.MobileUseCase) *MobileHandler {
	return &MobileHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del día para la app móvil
// @Tags         mobile
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MobileSummaryResponse
// @Router       /api/mobile/summary [get]
func (h *MobileHandler) Summary(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Summary(c.UserContext(), p.Scope())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Products godoc
// @Summary      Catálogo reducido para la app móvil
// @Tags         mobile
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Búsqueda"
// @Success      200  {array}  dto.MobileProductResponse
// @Router       /api/mobile/products [get]
func (h *MobileHandler) Products(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Products(c.UserContext(), p.Scope(), c.Query("q"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RecentSales godoc
// @Summary      Últimas ventas de la tienda
// @Tags         mobile
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/mobile/sales/recent [get]
func (h *MobileHandler) RecentSales(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.uc.RecentSales(c.UserContext(), p.Scope())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
