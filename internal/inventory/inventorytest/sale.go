package inventorytest

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale"
	"github.com/fekuna/omnipos-backoffice/internal/sale/dto"
)

type saleRepo struct {
	*Store
}

// SaleRepository exposes the store as a sale.Repository sharing the same
// products, ledger and locks.
func (s *Store) SaleRepository() sale.Repository {
	return saleRepo{s}
}

func (r saleRepo) Begin(ctx context.Context) (sale.Tx, error) {
	return r.BeginTx(), nil
}

func (r saleRepo) GetSale(ctx context.Context, storeID, id string) (*model.Sale, error) {
	for _, s := range r.Sales() {
		if s.ID == id && s.StoreID == storeID {
			return &s, nil
		}
	}
	return nil, apperr.SaleNotFound(id)
}

func (r saleRepo) ListSales(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, error) {
	all := r.Sales()
	out := []model.Sale{}
	for i := len(all) - 1; i >= 0; i-- {
		s := all[i]
		if s.StoreID != f.StoreID {
			continue
		}
		if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
			continue
		}
		out = append(out, s)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
