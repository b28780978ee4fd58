package model

type Category struct {
	BaseModel
	StoreID      string  `db:"store_id" json:"store_id"`
	Name         string  `db:"name" json:"name"`
	Slug         string  `db:"slug" json:"slug"`
	Description  *string `db:"description" json:"description"`
	ImageURL     *string `db:"image_url" json:"image_url"`
	ProductCount int     `db:"product_count" json:"product_count"` // Only filled by list queries
}
