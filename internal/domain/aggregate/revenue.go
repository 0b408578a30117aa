// Package aggregate contiene las rutinas de agregación puras sobre resultados de consultas:
// totales de venta, proyección del historial de stock y formato de moneda.
// Ninguna función tiene efectos secundarios; misma entrada produce misma salida.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Revenue ingresos acumulados por moneda (ISO 4217). Sin redondeo.
type Revenue map[string]decimal.Decimal

// Add suma amount a la moneda indicada.
func (r Revenue) Add(currency string, amount decimal.Decimal) {
	if cur, ok := r[currency]; ok {
		r[currency] = cur.Add(amount)
		return
	}
	r[currency] = amount
}

// Get devuelve el acumulado de una moneda (cero si no hay ventas en ella).
func (r Revenue) Get(currency string) decimal.Decimal {
	if v, ok := r[currency]; ok {
		return v
	}
	return decimal.Zero
}

// Currencies devuelve las monedas presentes, ordenadas.
func (r Revenue) Currencies() []string {
	out := make([]string, 0, len(r))
	for c := range r {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Equal compara dos acumulados moneda a moneda.
func (r Revenue) Equal(other Revenue) bool {
	if len(r) != len(other) {
		return false
	}
	for c, v := range r {
		o, ok := other[c]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}
