package report

import (
	"testing"

	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cost(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func TestValuationZeroCostHasZeroMargin(t *testing.T) {
	r := Valuation([]model.ProductSnapshot{
		{ID: "p1", Name: "Sticker", Price: dec("20"), Cost: cost("0"), Stock: 5},
	})

	require.Len(t, r.Products, 1)
	item := r.Products[0]
	assert.True(t, item.CostValue.IsZero())
	assert.True(t, item.SaleValue.Equal(dec("100")))
	assert.True(t, item.Margin.IsZero())
	assert.True(t, r.Totals.AverageMargin.IsZero())
}

func TestValuationMissingCost(t *testing.T) {
	r := Valuation([]model.ProductSnapshot{{ID: "p1", Price: dec("20"), Stock: 5}})

	assert.True(t, r.Products[0].UnitCost.IsZero())
	assert.True(t, r.Products[0].Margin.IsZero())
}

func TestValuationMarginRounding(t *testing.T) {
	r := Valuation([]model.ProductSnapshot{
		{ID: "p1", Price: dec("10"), Cost: cost("3"), Stock: 1},
		{ID: "p2", Price: dec("15"), Cost: cost("10"), Stock: 2},
	})

	// (10-3)/3*100 = 233.333...
	assert.Equal(t, "233.33", r.Products[0].Margin.StringFixed(2))
	assert.Equal(t, "50.00", r.Products[1].Margin.StringFixed(2))

	assert.True(t, r.Totals.TotalCostValue.Equal(dec("23")))
	assert.True(t, r.Totals.TotalSaleValue.Equal(dec("40")))
	assert.True(t, r.Totals.TotalPotentialProfit.Equal(dec("17")))
	// 17/23*100 = 73.913...
	assert.Equal(t, "73.91", r.Totals.AverageMargin.StringFixed(2))
}

func TestLowStock(t *testing.T) {
	r := LowStock([]model.ProductSnapshot{
		{ID: "empty", TrackStock: true, Stock: 0, MinStock: 5, CategoryName: "Cables"},
		{ID: "low", TrackStock: true, Stock: 5, MinStock: 5},
		{ID: "ok", TrackStock: true, Stock: 6, MinStock: 5},
		{ID: "untracked", TrackStock: false, Stock: 0, MinStock: 5},
	})

	require.Equal(t, 2, r.Total)
	assert.Equal(t, "empty", r.Products[0].ID)
	assert.Equal(t, StatusOutOfStock, r.Products[0].Status)
	assert.Equal(t, "Cables", r.Products[0].Category)
	assert.Equal(t, "low", r.Products[1].ID)
	assert.Equal(t, StatusLowStock, r.Products[1].Status)
}

func TestLowStockEmptyIsNotNil(t *testing.T) {
	r := LowStock(nil)
	assert.NotNil(t, r.Products)
	assert.Equal(t, 0, r.Total)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.ProductSnapshot{
		{Price: dec("10"), Cost: cost("4"), Stock: 3, MinStock: 5, TrackStock: true, IsActive: true},
		{Price: dec("20"), Stock: 0, MinStock: 1, TrackStock: true, IsActive: false},
		{Price: dec("5"), Cost: cost("1"), Stock: 2, MinStock: 10, TrackStock: false, IsActive: true},
	})

	assert.Equal(t, 3, s.TotalProducts)
	assert.Equal(t, 2, s.ActiveProducts)
	assert.Equal(t, 2, s.TrackedProducts)
	assert.Equal(t, 5, s.TotalUnits)
	assert.True(t, s.TotalValue.Equal(dec("40")))
	assert.True(t, s.TotalCost.Equal(dec("14")))
	assert.True(t, s.PotentialProfit.Equal(dec("26")))
	assert.Equal(t, 2, s.LowStockCount)
	assert.Equal(t, 1, s.OutOfStockCount)
	assert.True(t, s.AveragePrice.Equal(dec("8")))
}

func TestSummarizeNoUnits(t *testing.T) {
	s := Summarize([]model.ProductSnapshot{{Price: dec("10"), Stock: 0}})
	assert.True(t, s.AveragePrice.IsZero())
}
