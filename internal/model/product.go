package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	StoreID     string              `db:"store_id" json:"store_id"`
	CategoryID  string              `db:"category_id" json:"category_id"`
	Name        string              `db:"name" json:"name"`
	Slug        string              `db:"slug" json:"slug"`
	Description *string             `db:"description" json:"description"`
	SKU         *string             `db:"sku" json:"sku"` // Unique per store when set
	Price       decimal.Decimal     `db:"price" json:"price"`
	Cost        decimal.NullDecimal `db:"cost" json:"cost"`
	Stock       int                 `db:"stock" json:"stock"`
	MinStock    int                 `db:"min_stock" json:"min_stock"`
	TrackStock  bool                `db:"track_stock" json:"track_stock"`
	IsActive    bool                `db:"is_active" json:"is_active"`
	ImageURL    *string             `db:"image_url" json:"image_url"`
	Category    *Category           `db:"-" json:"category,omitempty"` // Joined data
}

// ProductSnapshot is the read model reports are computed from.
type ProductSnapshot struct {
	ID           string              `db:"id" json:"id"`
	Name         string              `db:"name" json:"name"`
	SKU          *string             `db:"sku" json:"sku"`
	CategoryName string              `db:"category_name" json:"category_name"`
	Price        decimal.Decimal     `db:"price" json:"price"`
	Cost         decimal.NullDecimal `db:"cost" json:"cost"`
	Stock        int                 `db:"stock" json:"stock"`
	MinStock     int                 `db:"min_stock" json:"min_stock"`
	TrackStock   bool                `db:"track_stock" json:"track_stock"`
	IsActive     bool                `db:"is_active" json:"is_active"`
}
