package entity

import "time"

// Motivos de ajuste de inventario.
const (
	AdjustmentInitial    = "initial"
	AdjustmentRestock    = "restock"
	AdjustmentSale       = "sale"
	AdjustmentCorrection = "correction"
	AdjustmentDamage     = "damage"
	AdjustmentReturn     = "return"
)

// InventoryAdjustment representa un cambio de stock (positivo entrada, negativo salida).
type InventoryAdjustment struct {
	ID        string
	StoreID   string
	ProductID string
	Delta     int64
	Reason    string
	Reference string // ej: ID de la venta
	CreatedAt time.Time
	CreatedBy string
}

// OwnerStoreID implementa tenancy.Owned.
func (a *InventoryAdjustment) OwnerStoreID() string { return a.StoreID }

// IsValidAdjustmentReason valida el motivo. AdjustmentSale solo lo genera el registro de ventas.
func IsValidAdjustmentReason(reason string) bool {
	switch reason {
	case AdjustmentInitial, AdjustmentRestock, AdjustmentCorrection, AdjustmentDamage, AdjustmentReturn:
		return true
	}
	return false
}
