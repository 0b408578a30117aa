package aggregate

import (
	"sort"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
)

// SalesTotals resumen de un conjunto de ventas.
type SalesTotals struct {
	SalesCount int
	UnitsSold  int64
	Revenue    Revenue
}

// SaleTotals suma unidades e ingresos de todas las líneas. La suma es conmutativa:
// el orden de las ventas no altera el resultado.
func SaleTotals(sales []entity.Sale) SalesTotals {
	out := SalesTotals{Revenue: Revenue{}}
	for _, s := range sales {
		out.SalesCount++
		for _, it := range s.Items {
			out.UnitsSold += it.Quantity
			out.Revenue.Add(s.Currency, it.Amount)
		}
	}
	return out
}

// ProductSaleTotals igual que SaleTotals pero solo con las líneas del producto indicado.
// SalesCount cuenta las ventas que incluyen al producto al menos una vez.
func ProductSaleTotals(sales []entity.Sale, productID string) SalesTotals {
	out := SalesTotals{Revenue: Revenue{}}
	for _, s := range sales {
		included := false
		for _, it := range s.Items {
			if it.ProductID != productID {
				continue
			}
			included = true
			out.UnitsSold += it.Quantity
			out.Revenue.Add(s.Currency, it.Amount)
		}
		if included {
			out.SalesCount++
		}
	}
	return out
}

// DayTotals totales de un día calendario.
type DayTotals struct {
	Date       string // 2006-01-02 en la zona loc
	SalesCount int
	UnitsSold  int64
	Revenue    Revenue
}

// DailyRevenue agrupa las ventas por día calendario en loc, ordenado ascendente por fecha.
func DailyRevenue(sales []entity.Sale, loc *time.Location) []DayTotals {
	if loc == nil {
		loc = time.UTC
	}
	byDay := make(map[string]*DayTotals)
	for _, s := range sales {
		day := s.SoldAt.In(loc).Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &DayTotals{Date: day, Revenue: Revenue{}}
			byDay[day] = d
		}
		d.SalesCount++
		for _, it := range s.Items {
			d.UnitsSold += it.Quantity
			d.Revenue.Add(s.Currency, it.Amount)
		}
	}
	out := make([]DayTotals, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ProductRank posición de un producto en el ranking de ventas.
type ProductRank struct {
	ProductID string
	UnitsSold int64
	Revenue   Revenue
}

// TopProducts devuelve los n productos con más unidades vendidas.
// Empates se resuelven por product ID ascendente. n <= 0 devuelve todos.
func TopProducts(sales []entity.Sale, n int) []ProductRank {
	byProduct := make(map[string]*ProductRank)
	for _, s := range sales {
		for _, it := range s.Items {
			r, ok := byProduct[it.ProductID]
			if !ok {
				r = &ProductRank{ProductID: it.ProductID, Revenue: Revenue{}}
				byProduct[it.ProductID] = r
			}
			r.UnitsSold += it.Quantity
			r.Revenue.Add(s.Currency, it.Amount)
		}
	}
	out := make([]ProductRank, 0, len(byProduct))
	for _, r := range byProduct {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		return out[i].ProductID < out[j].ProductID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
