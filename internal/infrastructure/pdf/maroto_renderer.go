// Package pdf genera los documentos PDF de la tienda con Maroto v2.
//
// Layout común (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda  │  Título + subtítulo          │
//	│  Contacto de la tienda                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BLOQUES etiqueta/valor                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLAS con cabecera en el color de la tienda               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: fecha de generación                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 240, Blue: 240}
)

var _ usecase.DocumentRenderer = (*MarotoRenderer)(nil)

// MarotoRenderer implementa usecase.DocumentRenderer usando Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el generador.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// column describe una columna de tabla (ancho en la grilla de 12).
type column struct {
	label string
	size  int
	align align.Type
}

// RenderSalesReport genera el reporte de ventas: totales, detalle diario y ranking.
func (g *MarotoRenderer) RenderSalesReport(_ context.Context, doc usecase.SalesReportDocument) ([]byte, error) {
	m, primary := newDocument(doc.Header)

	m.AddRows(labelValueRows("RESUMEN", doc.Totals, primary)...)
	m.AddRows(line.NewRow(4))

	daily := []column{
		{"Fecha", 3, align.Left},
		{"Ventas", 2, align.Right},
		{"Unidades", 2, align.Right},
		{"Ingresos", 5, align.Right},
	}
	cells := make([][]string, 0, len(doc.Daily))
	for _, d := range doc.Daily {
		cells = append(cells, []string{d.Date, d.Sales, d.Units, d.Revenue})
	}
	m.AddRows(tableRows("VENTAS POR DÍA", daily, cells, primary)...)
	m.AddRows(line.NewRow(4))

	top := []column{
		{"#", 1, align.Center},
		{"SKU", 2, align.Left},
		{"Producto", 4, align.Left},
		{"Unidades", 2, align.Right},
		{"Ingresos", 3, align.Right},
	}
	cells = make([][]string, 0, len(doc.TopProducts))
	for _, t := range doc.TopProducts {
		cells = append(cells, []string{t.Rank, t.SKU, t.Name, t.Units, t.Revenue})
	}
	m.AddRows(tableRows("PRODUCTOS MÁS VENDIDOS", top, cells, primary)...)

	m.AddRows(footerRows(doc.Header)...)
	return generate(m)
}

// RenderProductSheet genera la ficha de producto con su historial de stock.
func (g *MarotoRenderer) RenderProductSheet(_ context.Context, doc usecase.ProductSheetDocument) ([]byte, error) {
	m, primary := newDocument(doc.Header)

	m.AddRows(labelValueRows("DATOS DEL PRODUCTO", doc.Fields, primary)...)
	m.AddRows(line.NewRow(4))
	m.AddRows(labelValueRows("INDICADORES", doc.KPIs, primary)...)
	m.AddRows(line.NewRow(4))

	history := []column{
		{"Fecha", 4, align.Left},
		{"Motivo", 3, align.Left},
		{"Cambio", 2, align.Right},
		{"Saldo", 3, align.Right},
	}
	cells := make([][]string, 0, len(doc.History))
	for _, h := range doc.History {
		cells = append(cells, []string{h.Date, h.Reason, h.Delta, h.Balance})
	}
	m.AddRows(tableRows("HISTORIAL DE STOCK", history, cells, primary)...)

	m.AddRows(footerRows(doc.Header)...)
	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func newDocument(h usecase.DocumentHeader) (core.Maroto, *props.Color) {
	primary := colorPrimary
	if c, ok := parseHexColor(h.PrimaryColor); ok {
		primary = c
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(h.Title, true).
		WithAuthor(h.StoreName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(h, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.5}))
	m.AddRows(line.NewRow(3))
	return m, primary
}

// headerRow: nombre y contacto de la tienda (izq), título y subtítulo (der).
func headerRow(h usecase.DocumentHeader, primary *props.Color) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(h.StoreName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: primary, Top: 1,
			}),
			text.New(h.StoreContact, props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(h.Title), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: primary, Top: 1,
			}),
			text.New(h.Subtitle, props.Text{
				Size: 9, Align: align.Right, Top: 9,
			}),
		),
	)
}

func sectionTitleRow(title string, primary *props.Color) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: primary, Top: 1}),
	))
}

// labelValueRows: una fila por par etiqueta/valor.
func labelValueRows(title string, pairs []usecase.LabelValue, primary *props.Color) []core.Row {
	rows := []core.Row{sectionTitleRow(title, primary)}
	for _, p := range pairs {
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(p.Label+":", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
			col.New(8).Add(text.New(p.Value, props.Text{Size: 9, Top: 1})),
		))
	}
	return rows
}

// tableRows: cabecera con el color de la tienda y filas alternadas. Sin datos: una fila "Sin registros".
func tableRows(title string, cols []column, cells [][]string, primary *props.Color) []core.Row {
	header := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		header = append(header, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	rows := []core.Row{
		sectionTitleRow(title, primary),
		row.New(8).Add(header...).WithStyle(&props.Cell{BackgroundColor: primary}),
	}

	if len(cells) == 0 {
		return append(rows, row.New(7).Add(col.New(12).Add(
			text.New("Sin registros", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		)))
	}
	for i, values := range cells {
		rowCols := make([]core.Col, 0, len(cols))
		for j, c := range cols {
			v := ""
			if j < len(values) {
				v = values[j]
			}
			rowCols = append(rowCols, col.New(c.size).Add(text.New(v, props.Text{
				Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
			})))
		}
		r := row.New(7).Add(rowCols...)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		rows = append(rows, r)
	}
	return rows
}

func footerRows(h usecase.DocumentHeader) []core.Row {
	return []core.Row{
		line.NewRow(3),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}),
		row.New(6).Add(col.New(12).Add(
			text.New("Generado el "+h.GeneratedAt, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Right}),
		)),
	}
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// parseHexColor acepta "#RRGGBB" o "#RGB".
func parseHexColor(s string) (*props.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, false
	}
	return &props.Color{Red: int(v >> 16 & 0xff), Green: int(v >> 8 & 0xff), Blue: int(v & 0xff)}, true
}
