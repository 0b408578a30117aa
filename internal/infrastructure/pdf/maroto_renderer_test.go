package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/jhoicas/tiendapp-api/internal/application/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header() usecase.DocumentHeader {
	return usecase.DocumentHeader{
		StoreName:    "Tienda Norte",
		StoreContact: "Calle 1 | 555-0101 | norte@example.com",
		PrimaryColor: "#1A7F37",
		Title:        "Reporte de ventas",
		Subtitle:     "2026-03-01 – 2026-03-31",
		GeneratedAt:  "2026-04-01 10:00 UTC",
	}
}

func TestRenderSalesReport(t *testing.T) {
	doc := usecase.SalesReportDocument{
		Header: header(),
		Totals: []usecase.LabelValue{{Label: "Ventas", Value: "2"}, {Label: "Ingresos", Value: "$30.00"}},
		Daily: []usecase.DailyLine{
			{Date: "2026-03-01", Sales: "1", Units: "2", Revenue: "$10.00"},
			{Date: "2026-03-02", Sales: "1", Units: "1", Revenue: "$20.00"},
		},
		TopProducts: []usecase.TopProductLine{{Rank: "1", SKU: "A-1", Name: "Café", Units: "3", Revenue: "$30.00"}},
	}

	out, err := NewMarotoRenderer().RenderSalesReport(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderProductSheet_SinHistorial(t *testing.T) {
	h := header()
	h.PrimaryColor = "no-es-color"
	doc := usecase.ProductSheetDocument{
		Header: h,
		Fields: []usecase.LabelValue{{Label: "SKU", Value: "A-1"}},
		KPIs:   []usecase.LabelValue{{Label: "Stock actual", Value: "0"}},
	}

	out, err := NewMarotoRenderer().RenderProductSheet(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestParseHexColor(t *testing.T) {
	c, ok := parseHexColor("#00467F")
	require.True(t, ok)
	assert.Equal(t, 0, c.Red)
	assert.Equal(t, 70, c.Green)
	assert.Equal(t, 127, c.Blue)

	c, ok = parseHexColor("#fff")
	require.True(t, ok)
	assert.Equal(t, 255, c.Red)

	for _, bad := range []string{"", "#12", "#GGGGGG", "1234567"} {
		_, ok := parseHexColor(bad)
		assert.False(t, ok, bad)
	}
}
