package usecase

import (
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain/aggregate"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"golang.org/x/text/language"
)

// displayLocale idioma de formato de montos en respuestas y documentos.
var displayLocale = language.AmericanEnglish

func entityToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                    u.ID,
		StoreID:               u.StoreID,
		Email:                 u.Email,
		DisplayName:           u.DisplayName,
		Role:                  u.Role,
		SubscriptionStatus:    u.SubscriptionStatus,
		SubscriptionExpiresAt: u.SubscriptionExpiresAt,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func entityToStoreResponse(s *entity.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:                s.ID,
		Name:              s.Name,
		Address:           s.Address,
		Phone:             s.Phone,
		Email:             s.Email,
		Currency:          s.Currency,
		LogoURL:           s.LogoURL,
		PrimaryColor:      s.PrimaryColor,
		PlanID:            s.PlanID,
		LowStockThreshold: s.LowStockThreshold,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func toProductResponse(p *entity.Product, storeThreshold int) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		StoreID:      p.StoreID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		Cost:         p.Cost,
		Stock:        p.Stock,
		ReorderPoint: p.ReorderPoint,
		LowStock:     p.IsLowStock(storeThreshold),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductResponses(list []*entity.Product, storeThreshold int) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p, storeThreshold))
	}
	return out
}

func toSaleResponse(s entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Amount:    it.Amount,
		})
	}
	return dto.SaleResponse{
		ID:        s.ID,
		Currency:  s.Currency,
		Items:     items,
		Total:     s.Total,
		SoldAt:    s.SoldAt,
		CreatedBy: s.CreatedBy,
	}
}

func toSaleResponses(list []entity.Sale) []dto.SaleResponse {
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return out
}

// revenueStrings importes exactos por moneda, sin redondear.
func revenueStrings(r aggregate.Revenue) map[string]string {
	out := make(map[string]string, len(r))
	for c, v := range r {
		out[c] = v.String()
	}
	return out
}

func toSalesTotalsResponse(t aggregate.SalesTotals) dto.SalesTotalsResponse {
	return dto.SalesTotalsResponse{
		SalesCount:       t.SalesCount,
		UnitsSold:        t.UnitsSold,
		Revenue:          revenueStrings(t.Revenue),
		RevenueFormatted: aggregate.FormatRevenue(t.Revenue, displayLocale),
	}
}
