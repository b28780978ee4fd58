package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID  string
	Name        string
	Description *string
	SKU         *string
	Price       decimal.Decimal
	Cost        *decimal.Decimal
	Stock       int   // Opening balance, recorded in the ledger
	MinStock    *int  // Defaults to 5
	TrackStock  *bool // Defaults to true
	IsActive    *bool // Defaults to true
	ImageURL    *string
}

// UpdateProductInput enumerates the fields an update may change. Nil keeps
// the stored value. Stock is not among them: it only moves through sales
// and adjustments.
type UpdateProductInput struct {
	ID          string
	CategoryID  *string
	Name        *string
	Description *string
	SKU         *string
	Price       *decimal.Decimal
	Cost        *decimal.Decimal
	MinStock    *int
	TrackStock  *bool
	IsActive    *bool
	ImageURL    *string
}
