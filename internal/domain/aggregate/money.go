package aggregate

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RoundForCurrency redondea al número de decimales estándar de la moneda (USD 2, JPY 0, ...).
// Moneda desconocida: 2 decimales.
func RoundForCurrency(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Round(int32(currencyScale(code)))
}

func currencyScale(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// FormatMoney formatea un monto para presentación, con código ISO y separador de miles
// del idioma indicado (ej: "USD 1,234.50"). Es el único punto donde se redondea.
func FormatMoney(amount decimal.Decimal, code string, tag language.Tag) string {
	rounded := RoundForCurrency(amount, code)
	p := message.NewPrinter(tag)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return p.Sprintf("%s %v", code, rounded.StringFixed(2))
	}
	f, _ := rounded.Float64()
	return p.Sprint(currency.ISO(unit.Amount(f)))
}

// FormatRevenue formatea cada moneda de un acumulado.
func FormatRevenue(r Revenue, tag language.Tag) map[string]string {
	out := make(map[string]string, len(r))
	for c, v := range r {
		out[c] = FormatMoney(v, c, tag)
	}
	return out
}
