package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain/aggregate"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

// DocumentHeader cabecera común con la marca de la tienda.
type DocumentHeader struct {
	StoreName    string
	StoreContact string // dirección | teléfono | email
	PrimaryColor string // hex; vacío = color por defecto
	Title        string
	Subtitle     string
	GeneratedAt  string
}

// LabelValue par etiqueta/valor ya formateado.
type LabelValue struct {
	Label string
	Value string
}

// DailyLine fila del detalle diario del reporte de ventas.
type DailyLine struct {
	Date    string
	Sales   string
	Units   string
	Revenue string
}

// TopProductLine fila del ranking de productos.
type TopProductLine struct {
	Rank    string
	SKU     string
	Name    string
	Units   string
	Revenue string
}

// StockLine fila del historial de stock.
type StockLine struct {
	Date    string
	Reason  string
	Delta   string
	Balance string
}

// SalesReportDocument contenido del PDF del reporte de ventas. Todo llega formateado.
type SalesReportDocument struct {
	Header      DocumentHeader
	Totals      []LabelValue
	Daily       []DailyLine
	TopProducts []TopProductLine
}

// ProductSheetDocument contenido del PDF de ficha de producto.
type ProductSheetDocument struct {
	Header  DocumentHeader
	Fields  []LabelValue
	KPIs    []LabelValue
	History []StockLine
}

// DocumentRenderer genera el PDF a partir de datos ya formateados.
type DocumentRenderer interface {
	RenderSalesReport(ctx context.Context, doc SalesReportDocument) ([]byte, error)
	RenderProductSheet(ctx context.Context, doc ProductSheetDocument) ([]byte, error)
}

// DocumentUseCase arma los documentos PDF de la tienda.
type DocumentUseCase struct {
	reports  *ReportUseCase
	products *ProductUseCase
	renderer DocumentRenderer
	now      func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(reports *ReportUseCase, products *ProductUseCase, renderer DocumentRenderer) *DocumentUseCase {
	return &DocumentUseCase{reports: reports, products: products, renderer: renderer, now: time.Now}
}

// SalesReportPDF genera el PDF del reporte de ventas del rango. Devuelve bytes y nombre de archivo.
func (uc *DocumentUseCase) SalesReportPDF(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]byte, string, error) {
	r, err := uc.reports.buildSalesReport(ctx, scope, from, to)
	if err != nil {
		return nil, "", err
	}
	rangeLabel := fmt.Sprintf("%s – %s", r.from.Format("2006-01-02"), r.to.Add(-time.Nanosecond).Format("2006-01-02"))
	doc := SalesReportDocument{
		Header: uc.header(r.store, "Reporte de ventas", rangeLabel),
		Totals: []LabelValue{
			{Label: "Ventas", Value: strconv.Itoa(r.totals.SalesCount)},
			{Label: "Unidades vendidas", Value: strconv.FormatInt(r.totals.UnitsSold, 10)},
			{Label: "Ingresos", Value: formatRevenueLine(r.totals.Revenue)},
		},
	}
	for _, d := range r.daily {
		doc.Daily = append(doc.Daily, DailyLine{
			Date:    d.Date,
			Sales:   strconv.Itoa(d.SalesCount),
			Units:   strconv.FormatInt(d.UnitsSold, 10),
			Revenue: formatRevenueLine(d.Revenue),
		})
	}
	for i, t := range r.top {
		line := TopProductLine{
			Rank:    strconv.Itoa(i + 1),
			SKU:     "—",
			Name:    t.ProductID,
			Units:   strconv.FormatInt(t.UnitsSold, 10),
			Revenue: formatRevenueLine(t.Revenue),
		}
		if p, ok := r.products[t.ProductID]; ok {
			line.SKU, line.Name = p.SKU, p.Name
		}
		doc.TopProducts = append(doc.TopProducts, line)
	}

	pdf, err := uc.renderer.RenderSalesReport(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("documentos: reporte de ventas: %w", err)
	}
	filename := fmt.Sprintf("ventas_%s_%s.pdf", r.from.Format("20060102"), r.to.Format("20060102"))
	return pdf, filename, nil
}

// ProductSheetPDF genera la ficha del producto con su historial de stock.
// Producto ajeno o ausente → domain.ErrNotFound.
func (uc *DocumentUseCase) ProductSheetPDF(ctx context.Context, scope tenancy.Scope, productID string) ([]byte, string, error) {
	d, err := uc.products.loadDetail(ctx, scope, productID)
	if err != nil {
		return nil, "", err
	}
	p, store := d.product, d.store
	lowStock := "No"
	if p.IsLowStock(store.LowStockThreshold) {
		lowStock = "Sí"
	}

	doc := ProductSheetDocument{
		Header: uc.header(store, "Ficha de producto", p.SKU+" · "+p.Name),
		Fields: []LabelValue{
			{Label: "SKU", Value: p.SKU},
			{Label: "Nombre", Value: p.Name},
			{Label: "Categoría", Value: nonEmpty(p.Category, "—")},
			{Label: "Precio", Value: aggregate.FormatMoney(p.Price, store.Currency, displayLocale)},
			{Label: "Costo", Value: aggregate.FormatMoney(p.Cost, store.Currency, displayLocale)},
			{Label: "Punto de reorden", Value: strconv.FormatInt(p.ReorderPoint, 10)},
		},
		KPIs: []LabelValue{
			{Label: "Stock actual", Value: strconv.FormatInt(p.Stock, 10)},
			{Label: "Stock bajo", Value: lowStock},
			{Label: "Unidades vendidas", Value: strconv.FormatInt(d.totals.UnitsSold, 10)},
			{Label: "Ingresos", Value: formatRevenueLine(d.totals.Revenue)},
		},
	}
	for _, h := range d.history {
		doc.History = append(doc.History, StockLine{
			Date:    h.At.UTC().Format("2006-01-02 15:04"),
			Reason:  h.Reason,
			Delta:   fmt.Sprintf("%+d", h.Delta),
			Balance: strconv.FormatInt(h.Balance, 10),
		})
	}

	pdf, err := uc.renderer.RenderProductSheet(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("documentos: ficha de producto: %w", err)
	}
	return pdf, "producto_" + p.SKU + ".pdf", nil
}

func (uc *DocumentUseCase) header(store *entity.Store, title, subtitle string) DocumentHeader {
	return DocumentHeader{
		StoreName:    store.Name,
		StoreContact: fmt.Sprintf("%s | %s | %s", nonEmpty(store.Address, "—"), nonEmpty(store.Phone, "—"), nonEmpty(store.Email, "—")),
		PrimaryColor: store.PrimaryColor,
		Title:        title,
		Subtitle:     subtitle,
		GeneratedAt:  uc.now().UTC().Format("2006-01-02 15:04 MST"),
	}
}

// formatRevenueLine une los importes por moneda: "USD 10.00 / EUR 5.00". Sin ventas: "—".
func formatRevenueLine(r aggregate.Revenue) string {
	if len(r) == 0 {
		return "—"
	}
	line := ""
	for i, c := range r.Currencies() {
		if i > 0 {
			line += " / "
		}
		line += aggregate.FormatMoney(r[c], c, displayLocale)
	}
	return line
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
