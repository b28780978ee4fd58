package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
)

// Tx is a unit of work over the stock counter and the ledger. Rows returned
// by LockProducts stay locked until Commit or Rollback. Rollback after
// Commit is a no-op, so callers always defer it.
type Tx interface {
	LockProducts(ctx context.Context, storeID string, productIDs []string) (map[string]*model.Product, error)
	SetStock(ctx context.Context, productID string, stock int, at time.Time) error
	InsertMovement(ctx context.Context, m *model.StockMovement) error
	Commit() error
	Rollback() error
}

type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	// Reads
	GetProduct(ctx context.Context, storeID, productID string) (*model.Product, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, error)
	ProductMovements(ctx context.Context, storeID, productID string) ([]model.StockMovement, error)
	ListProductSnapshots(ctx context.Context, storeID string) ([]model.ProductSnapshot, error)
}

// ProductListKeyPrefix prefixes the cached product list pages of a store.
// Stock changes drop them along with the reports.
func ProductListKeyPrefix(storeID string) string {
	return fmt.Sprintf("products:list:%s:", storeID)
}
