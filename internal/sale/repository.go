package sale

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale/dto"
)

// Tx extends the stock unit of work with the sale rows, so the sale, its
// items, the counters and the ledger commit or roll back together.
type Tx interface {
	inventory.Tx
	InsertSale(ctx context.Context, sale *model.Sale) error
	InsertSaleItems(ctx context.Context, items []model.SaleItem) error
}

type Repository interface {
	Begin(ctx context.Context) (Tx, error)
	GetSale(ctx context.Context, storeID, id string) (*model.Sale, error)
	ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, error)
}
