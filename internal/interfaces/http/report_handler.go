package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
)

// ReportHandler reportes JSON y sus versiones PDF.
type ReportHandler struct {
	reports   *usecase.ReportUseCase
	documents *usecase.DocumentUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *usecase.ReportUseCase, documents *usecase.DocumentUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, documents: documents}
}

// Sales godoc
// @Summary      Reporte de ventas: totales, ingresos diarios y productos top
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusive)"
// @Success      200   {object}  dto.SalesReportResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	out, err := h.reports.SalesReport(c.UserContext(), p.Scope(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Reporte de inventario: valor del stock y productos bajo mínimo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryReportResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.reports.InventoryReport(c.UserContext(), p.Scope())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SalesReportPDF godoc
// @Summary      Reporte de ventas en PDF
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "Desde"
// @Param        to    query  string  false  "Hasta (inclusive)"
// @Success      200
// @Router       /api/documents/sales-report [get]
func (h *ReportHandler) SalesReportPDF(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	pdf, filename, err := h.documents.SalesReportPDF(c.UserContext(), p.Scope(), from, to)
	if err != nil {
		return err
	}
	return sendPDF(c, pdf, filename)
}

// ProductSheetPDF godoc
// @Summary      Ficha de producto en PDF
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/products/{id} [get]
func (h *ReportHandler) ProductSheetPDF(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	pdf, filename, err := h.documents.ProductSheetPDF(c.UserContext(), p.Scope(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendPDF(c, pdf, filename)
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
