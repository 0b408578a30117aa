package inventory

import (
	"fmt"

	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxStock tope de existencias de un producto; acota también cada movimiento.
const MaxStock int64 = 1_000_000_000_000

// WeightedAverageCost calcula el costo promedio ponderado tras una entrada de stock.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Con stock previo negativo o cero el costo de la entrada reemplaza al actual.
func WeightedAverageCost(currentStock int64, currentCost decimal.Decimal, inQty int64, inCost decimal.Decimal) decimal.Decimal {
	if inQty <= 0 {
		return currentCost
	}
	if currentStock <= 0 {
		return inCost
	}
	stock := decimal.NewFromInt(currentStock)
	qty := decimal.NewFromInt(inQty)
	num := stock.Mul(currentCost).Add(qty.Mul(inCost))
	return num.Div(stock.Add(qty))
}

// ApplyDelta devuelve el stock resultante de aplicar delta.
// ErrInsufficientStock si quedaría negativo; ErrInvalidInput si el movimiento o el
// resultado superan MaxStock.
func ApplyDelta(currentStock, delta int64) (int64, error) {
	if delta > MaxStock || delta < -MaxStock {
		return currentStock, fmt.Errorf("%w: movimiento %d fuera de rango", domain.ErrInvalidInput, delta)
	}
	if delta > 0 && currentStock > MaxStock-delta {
		return currentStock, fmt.Errorf("%w: el stock superaría %d", domain.ErrInvalidInput, MaxStock)
	}
	next := currentStock + delta
	if next < 0 {
		return currentStock, domain.ErrInsufficientStock
	}
	return next, nil
}
