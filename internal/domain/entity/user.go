package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// Estados de suscripción.
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// User representa una cuenta del sistema. ID coincide con el subject del proveedor de identidad.
// StoreID vacío significa que la cuenta aún no fue aprovisionada a una tienda.
type User struct {
	ID                    string
	StoreID               string
	Email                 string
	PasswordHash          string // solo con el proveedor JWT propio
	DisplayName           string
	Role                  string     // admin, manager, user
	SubscriptionStatus    string     // active, expired
	SubscriptionExpiresAt *time.Time // nil = sin vencimiento
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// HasActiveSubscription informa si la suscripción está activa en el instante now.
func (u *User) HasActiveSubscription(now time.Time) bool {
	if u.SubscriptionStatus != SubscriptionActive {
		return false
	}
	return u.SubscriptionExpiresAt == nil || u.SubscriptionExpiresAt.After(now)
}

// IsValidRole verifica que el rol pertenezca al conjunto cerrado de roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// OwnerStoreID implementa tenancy.Owned.
func (u *User) OwnerStoreID() string { return u.StoreID }
