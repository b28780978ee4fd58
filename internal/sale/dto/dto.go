package dto

import "github.com/fekuna/omnipos-backoffice/internal/model"

type SaleFilters struct {
	StoreID       string
	PaymentMethod model.PaymentMethod
	Limit         int
}
