package aggregate

import (
	"sort"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
)

// StockPoint un punto del historial de stock: el ajuste aplicado y el saldo resultante.
type StockPoint struct {
	At           time.Time
	AdjustmentID string
	Delta        int64
	Reason       string
	Balance      int64
}

// StockHistory proyecta el historial de stock como suma acumulada de los deltas,
// ordenados por fecha ascendente y, en empate, por ID. El saldo parte de cero.
// No modifica el slice de entrada.
func StockHistory(adjustments []entity.InventoryAdjustment) []StockPoint {
	sorted := make([]entity.InventoryAdjustment, len(adjustments))
	copy(sorted, adjustments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]StockPoint, 0, len(sorted))
	var balance int64
	for _, a := range sorted {
		balance += a.Delta
		out = append(out, StockPoint{
			At:           a.CreatedAt,
			AdjustmentID: a.ID,
			Delta:        a.Delta,
			Reason:       a.Reason,
			Balance:      balance,
		})
	}
	return out
}
