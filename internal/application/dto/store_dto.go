package dto

import "time"

// CreateStoreRequest body de POST /api/onboarding/store.
type CreateStoreRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=200"`
	Address           string `json:"address" validate:"omitempty,max=300"`
	Phone             string `json:"phone" validate:"omitempty,max=50"`
	Email             string `json:"email" validate:"omitempty,email"`
	Currency          string `json:"currency" validate:"omitempty,len=3"`
	LowStockThreshold *int   `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// UpdateStoreRequest body de PUT /api/store. Campos nil no se modifican.
type UpdateStoreRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address           *string `json:"address" validate:"omitempty,max=300"`
	Phone             *string `json:"phone" validate:"omitempty,max=50"`
	Email             *string `json:"email" validate:"omitempty,email"`
	Currency          *string `json:"currency" validate:"omitempty,len=3"`
	LogoURL           *string `json:"logo_url" validate:"omitempty,url"`
	PrimaryColor      *string `json:"primary_color" validate:"omitempty,hexcolor"`
	LowStockThreshold *int    `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// StoreResponse perfil de la tienda.
type StoreResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	Currency          string    `json:"currency"`
	LogoURL           string    `json:"logo_url"`
	PrimaryColor      string    `json:"primary_color"`
	PlanID            string    `json:"plan_id"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
