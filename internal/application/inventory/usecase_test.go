package inventory_test

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/application/inventory"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/mocks"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

var scopeA = tenancy.MustScope("store-a")

func seed() *mocks.DB {
	db := mocks.NewDB()
	db.Stores["store-a"] = &entity.Store{ID: "store-a", Currency: "USD", LowStockThreshold: 5}
	db.Products["p1"] = &entity.Product{ID: "p1", StoreID: "store-a", SKU: "P-1", Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(4), Stock: 10}
	db.Products["p2"] = &entity.Product{ID: "p2", StoreID: "store-a", SKU: "P-2", Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(9), Stock: 2, ReorderPoint: 8}
	db.Products["foreign"] = &entity.Product{ID: "foreign", StoreID: "store-b", SKU: "F-1", Stock: 10}
	return db
}

func TestAdjust_RestockRecalculatesCost(t *testing.T) {
	db := seed()
	uc := inventory.NewAdjustStockUseCase(db.TxRunner(), db.AdjustmentRepo())
	cost := decimal.NewFromInt(10)

	out, err := uc.Adjust(context.Background(), scopeA, "u1", dto.CreateAdjustmentRequest{
		ProductID: "p1", Delta: 10, Reason: entity.AdjustmentRestock, UnitCost: &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), out.Stock)
	assert.True(t, decimal.NewFromInt(7).Equal(out.Cost), "(10*4 + 10*10) / 20 = 7")
	assert.Equal(t, "u1", out.Adjustment.CreatedBy)
	require.Len(t, db.Adjustments, 1)
}

func TestAdjust_CannotGoNegative(t *testing.T) {
	db := seed()
	uc := inventory.NewAdjustStockUseCase(db.TxRunner(), db.AdjustmentRepo())

	_, err := uc.Adjust(context.Background(), scopeA, "u1", dto.CreateAdjustmentRequest{
		ProductID: "p1", Delta: -11, Reason: entity.AdjustmentDamage,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), db.Products["p1"].Stock)
	assert.Empty(t, db.Adjustments)
}

func TestAdjust_Validation(t *testing.T) {
	db := seed()
	uc := inventory.NewAdjustStockUseCase(db.TxRunner(), db.AdjustmentRepo())
	cost := decimal.NewFromInt(1)

	cases := map[string]dto.CreateAdjustmentRequest{
		"delta cero":             {ProductID: "p1", Delta: 0, Reason: entity.AdjustmentCorrection},
		"motivo sale":            {ProductID: "p1", Delta: -1, Reason: entity.AdjustmentSale},
		"motivo desconocido":     {ProductID: "p1", Delta: 1, Reason: "gift"},
		"costo fuera de restock": {ProductID: "p1", Delta: 1, Reason: entity.AdjustmentReturn, UnitCost: &cost},
		"delta desbordado":       {ProductID: "p1", Delta: math.MaxInt64, Reason: entity.AdjustmentCorrection},
		"delta mínimo int64":     {ProductID: "p1", Delta: math.MinInt64, Reason: entity.AdjustmentDamage},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Adjust(context.Background(), scopeA, "u1", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Zero(t, db.Writes)
	assert.Equal(t, int64(10), db.Products["p1"].Stock)
}

func TestAdjust_ForeignProductIsNotFound(t *testing.T) {
	db := seed()
	uc := inventory.NewAdjustStockUseCase(db.TxRunner(), db.AdjustmentRepo())

	_, err := uc.Adjust(context.Background(), scopeA, "u1", dto.CreateAdjustmentRequest{
		ProductID: "foreign", Delta: 5, Reason: entity.AdjustmentCorrection,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), db.Products["foreign"].Stock)
}

func TestList_ByProduct(t *testing.T) {
	db := seed()
	uc := inventory.NewAdjustStockUseCase(db.TxRunner(), db.AdjustmentRepo())
	ctx := context.Background()
	for _, pid := range []string{"p1", "p2", "p1"} {
		_, err := uc.Adjust(ctx, scopeA, "u1", dto.CreateAdjustmentRequest{ProductID: pid, Delta: 1, Reason: entity.AdjustmentCorrection})
		require.NoError(t, err)
	}

	byProduct, err := uc.List(ctx, scopeA, "p1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, byProduct.Items, 2)

	all, err := uc.List(ctx, scopeA, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, 3, all.Page.Count)

	last, err := uc.List(ctx, scopeA, "", dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.Equal(t, 1, last.Page.Count)
	assert.Equal(t, 2, last.Page.Limit)
}

func TestReplenishment(t *testing.T) {
	db := seed()
	uc := inventory.NewReplenishmentUseCase(db.StoreRepo(), db.ProductRepo(), db.SaleRepo())

	list, err := uc.GenerateReplenishmentList(context.Background(), scopeA)
	require.NoError(t, err)
	require.Len(t, list, 1, "solo p2 está bajo su punto de reorden")
	s := list[0]
	assert.Equal(t, "p2", s.ProductID)
	assert.Equal(t, int64(12), s.IdealStock)
	assert.Equal(t, int64(10), s.SuggestedOrderQty)
	assert.True(t, decimal.NewFromInt(90).Equal(s.EstimatedOrderCost))
	assert.Equal(t, 1, s.Priority)
}
