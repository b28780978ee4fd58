package product

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/product/dto"
)

// Tx adds product creation to the inventory unit of work so a new product
// and its opening balance commit together.
type Tx interface {
	inventory.Tx
	InsertProduct(ctx context.Context, p *model.Product) error
}

type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	FindByID(ctx context.Context, storeID, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, storeID string, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, storeID, id string) error

	CategoryExists(ctx context.Context, storeID, categoryID string) (bool, error)
	// HasHistory reports whether any movement or sale item references the product.
	HasHistory(ctx context.Context, storeID, id string) (bool, error)
}

// Indexer keeps the search index in step with the catalog.
type Indexer interface {
	IndexProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// SearchProducts returns matching product ids, best match first, and the total hit count.
	SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]string, int, error)
}
