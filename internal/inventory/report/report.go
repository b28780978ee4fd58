// Package report derives read-only inventory reports from a product snapshot.
package report

import (
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/shopspring/decimal"
)

const (
	StatusOutOfStock = "OUT_OF_STOCK"
	StatusLowStock   = "LOW_STOCK"
)

var hundred = decimal.NewFromInt(100)

type LowStockItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	SKU      *string `json:"sku"`
	Stock    int     `json:"stock"`
	MinStock int     `json:"min_stock"`
	Category string  `json:"category"`
	Status   string  `json:"status"`
}

type LowStockReport struct {
	Total    int            `json:"total"`
	Products []LowStockItem `json:"products"`
}

type ValuationItem struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	SKU             *string         `json:"sku"`
	Stock           int             `json:"stock"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	CostValue       decimal.Decimal `json:"cost_value"`
	SaleValue       decimal.Decimal `json:"sale_value"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
	Margin          decimal.Decimal `json:"margin"`
	Category        string          `json:"category"`
}

type ValuationTotals struct {
	TotalCostValue       decimal.Decimal `json:"total_cost_value"`
	TotalSaleValue       decimal.Decimal `json:"total_sale_value"`
	TotalPotentialProfit decimal.Decimal `json:"total_potential_profit"`
	AverageMargin        decimal.Decimal `json:"average_margin"`
}

type ValuationReport struct {
	Products []ValuationItem `json:"products"`
	Totals   ValuationTotals `json:"totals"`
}

type Summary struct {
	TotalProducts   int             `json:"total_products"`
	ActiveProducts  int             `json:"active_products"`
	TrackedProducts int             `json:"tracked_products"`
	TotalUnits      int             `json:"total_units"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	AveragePrice    decimal.Decimal `json:"average_price"`
}

func isLowStock(p model.ProductSnapshot) bool {
	return p.TrackStock && p.Stock <= p.MinStock
}

func isOutOfStock(p model.ProductSnapshot) bool {
	return p.TrackStock && p.Stock == 0
}

// Margin is profit over cost as a percentage with two decimals, or zero when
// there is no cost to compare against.
func Margin(profit, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(cost).Mul(hundred).Round(2)
}

func LowStock(products []model.ProductSnapshot) *LowStockReport {
	r := &LowStockReport{Products: []LowStockItem{}}
	for _, p := range products {
		if !isLowStock(p) {
			continue
		}
		status := StatusLowStock
		if p.Stock == 0 {
			status = StatusOutOfStock
		}
		r.Products = append(r.Products, LowStockItem{
			ID:       p.ID,
			Name:     p.Name,
			SKU:      p.SKU,
			Stock:    p.Stock,
			MinStock: p.MinStock,
			Category: p.CategoryName,
			Status:   status,
		})
	}
	r.Total = len(r.Products)
	return r
}

func Valuation(products []model.ProductSnapshot) *ValuationReport {
	r := &ValuationReport{Products: make([]ValuationItem, 0, len(products))}
	totals := ValuationTotals{
		TotalCostValue:       decimal.Zero,
		TotalSaleValue:       decimal.Zero,
		TotalPotentialProfit: decimal.Zero,
	}

	for _, p := range products {
		units := decimal.NewFromInt(int64(p.Stock))
		unitCost := decimal.Zero
		if p.Cost.Valid {
			unitCost = p.Cost.Decimal
		}
		costValue := unitCost.Mul(units)
		saleValue := p.Price.Mul(units)
		profit := saleValue.Sub(costValue)

		r.Products = append(r.Products, ValuationItem{
			ID:              p.ID,
			Name:            p.Name,
			SKU:             p.SKU,
			Stock:           p.Stock,
			UnitCost:        unitCost,
			UnitPrice:       p.Price,
			CostValue:       costValue,
			SaleValue:       saleValue,
			PotentialProfit: profit,
			Margin:          Margin(profit, costValue),
			Category:        p.CategoryName,
		})

		totals.TotalCostValue = totals.TotalCostValue.Add(costValue)
		totals.TotalSaleValue = totals.TotalSaleValue.Add(saleValue)
		totals.TotalPotentialProfit = totals.TotalPotentialProfit.Add(profit)
	}

	totals.AverageMargin = Margin(totals.TotalPotentialProfit, totals.TotalCostValue)
	r.Totals = totals
	return r
}

func Summarize(products []model.ProductSnapshot) *Summary {
	s := &Summary{
		TotalProducts: len(products),
		TotalValue:    decimal.Zero,
		TotalCost:     decimal.Zero,
		AveragePrice:  decimal.Zero,
	}
	for _, p := range products {
		if p.IsActive {
			s.ActiveProducts++
		}
		if p.TrackStock {
			s.TrackedProducts++
		}
		if isLowStock(p) {
			s.LowStockCount++
		}
		if isOutOfStock(p) {
			s.OutOfStockCount++
		}

		units := decimal.NewFromInt(int64(p.Stock))
		s.TotalUnits += p.Stock
		s.TotalValue = s.TotalValue.Add(p.Price.Mul(units))
		if p.Cost.Valid {
			s.TotalCost = s.TotalCost.Add(p.Cost.Decimal.Mul(units))
		}
	}

	s.PotentialProfit = s.TotalValue.Sub(s.TotalCost)
	if s.TotalUnits > 0 {
		s.AveragePrice = s.TotalValue.Div(decimal.NewFromInt(int64(s.TotalUnits))).Round(2)
	}
	return s
}
