package dto

type ProductFilters struct {
	StoreID    string `json:"store_id"`
	CategoryID string `json:"category_id,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
	Search     string `json:"search,omitempty"` // Name or SKU
	SortBy     string `json:"sort_by,omitempty"`    // name, price, stock, created_at
	SortOrder  string `json:"sort_order,omitempty"` // asc, desc
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}
