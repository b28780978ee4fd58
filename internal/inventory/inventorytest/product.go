package inventorytest

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/product"
	"github.com/fekuna/omnipos-backoffice/internal/product/dto"
)

type productRepo struct {
	*Store
}

// ProductRepository exposes the store as a product.Repository.
func (s *Store) ProductRepository() product.Repository {
	return productRepo{s}
}

func (r productRepo) Begin(ctx context.Context) (product.Tx, error) {
	return r.BeginTx(), nil
}

func (r productRepo) FindByID(ctx context.Context, storeID, id string) (*model.Product, error) {
	return r.GetProduct(ctx, storeID, id)
}

func (r productRepo) FindByIDs(ctx context.Context, storeID string, ids []string) ([]model.Product, error) {
	out := []model.Product{}
	for _, id := range ids {
		if p, err := r.GetProduct(ctx, storeID, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r productRepo) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	r.mu.Lock()
	var all []model.Product
	for _, p := range r.products {
		if p.StoreID != f.StoreID {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		all = append(all, p)
	}
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := len(all)
	if f.PageSize > 0 {
		start := (f.Page - 1) * f.PageSize
		if start > total {
			start = total
		}
		end := start + f.PageSize
		if end > total {
			end = total
		}
		all = all[start:end]
	}
	return append([]model.Product{}, all...), total, nil
}

func (r productRepo) Update(ctx context.Context, p *model.Product) error {
	if err := r.checkUnique(p); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.products[p.ID]
	if !ok || cur.StoreID != p.StoreID {
		return apperr.ProductNotFound(p.ID)
	}
	p.Stock = cur.Stock
	r.products[p.ID] = *p
	return nil
}

func (r productRepo) Delete(ctx context.Context, storeID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.StoreID != storeID {
		return apperr.ProductNotFound(id)
	}
	delete(r.products, id)
	return nil
}

func (r productRepo) CategoryExists(ctx context.Context, storeID, categoryID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.categories[categoryID] == storeID, nil
}

func (r productRepo) HasHistory(ctx context.Context, storeID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ProductID == id {
			return true, nil
		}
	}
	for _, s := range r.sales {
		for _, it := range s.Items {
			if it.ProductID == id {
				return true, nil
			}
		}
	}
	return false, nil
}
