package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/application/inventory"
)

// InventoryHandler ajustes de stock y sugerencias de reposición.
type InventoryHandler struct {
	adjust        *inventory.AdjustStockUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjust *inventory.AdjustStockUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, replenishment: replenishment}
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "Ajuste"
// @Success      201   {object}  dto.AdjustmentResultResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) CreateAdjustment(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var in dto.CreateAdjustmentRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.adjust.Adjust(c.UserContext(), p.Scope(), p.SubjectID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAdjustments godoc
// @Summary      Listar ajustes (opcionalmente de un producto)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Success      200  {object}  dto.AdjustmentListResponse
// @Router       /api/inventory/adjustments [get]
func (h *InventoryHandler) ListAdjustments(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	out, err := h.adjust.List(c.UserContext(), p.Scope(), c.Query("product_id"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Sugerencias de compra para productos bajo su punto de reorden
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), p.Scope())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
