package dto

import "github.com/shopspring/decimal"

type SaleLine struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal // Price at selection; nil uses the current product price
}

type CommitSaleInput struct {
	Lines            []SaleLine
	PaymentMethod    string
	PaymentReference *string
	CustomerName     *string
	CustomerEmail    *string
	CustomerPhone    *string
	Notes            *string
}
