package dto

import "time"

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                    string     `json:"id"`
	StoreID               string     `json:"store_id,omitempty"`
	Email                 string     `json:"email"`
	DisplayName           string     `json:"display_name"`
	Role                  string     `json:"role"`
	SubscriptionStatus    string     `json:"subscription_status"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios de la tienda.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// UpdateRoleRequest body de PUT /api/users/:id/role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager user"`
}

// UpdateSubscriptionRequest body de PUT /api/users/:id/subscription.
type UpdateSubscriptionRequest struct {
	Status    string     `json:"status" validate:"required,oneof=active expired"`
	ExpiresAt *time.Time `json:"expires_at"`
}
