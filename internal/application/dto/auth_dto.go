package dto

// RegisterRequest entrada para registro con el proveedor JWT propio.
// La cuenta queda sin tienda hasta el onboarding.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"omitempty,max=200"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT más el usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MeResponse identidad resuelta del llamador más el perfil de su tienda.
type MeResponse struct {
	User               UserResponse  `json:"user"`
	Store              StoreResponse `json:"store"`
	ActiveSubscription bool          `json:"active_subscription"`
}

// ProtectedDataResponse payload de /api/protected-data.
type ProtectedDataResponse struct {
	UserID                string `json:"user_id"`
	StoreID               string `json:"store_id"`
	SubscriptionExpiresAt string `json:"subscription_expires_at,omitempty"`
	Message               string `json:"message"`
}
