package dto

type CategoryFilters struct {
	StoreID  string
	Search   string
	Page     int
	PageSize int
}
