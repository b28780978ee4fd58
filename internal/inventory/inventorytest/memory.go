// Package inventorytest provides an in-memory unit of work for tests. It
// serializes writers per product the same way the Postgres row locks do.
package inventorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
)

type Store struct {
	mu         sync.Mutex
	locks      map[string]*sync.Mutex
	products   map[string]model.Product
	categories map[string]string // id to store id
	movements  []model.StockMovement
	sales      []model.Sale
	seq        int64

	// FailInsertMovement, when set, is returned by every InsertMovement call.
	FailInsertMovement error
}

func NewStore() *Store {
	return &Store{
		locks:      map[string]*sync.Mutex{},
		products:   map[string]model.Product{},
		categories: map[string]string{},
	}
}

// AddProduct seeds a product. When it has stock, an opening balance movement
// is recorded so the ledger replays to the counter.
func (s *Store) AddProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	if p.Stock > 0 {
		s.seq++
		reason := "opening balance"
		s.movements = append(s.movements, model.StockMovement{
			ID:            p.ID + "-opening",
			Seq:           s.seq,
			StoreID:       p.StoreID,
			ProductID:     p.ID,
			Type:          model.MovementAdjustment,
			Quantity:      p.Stock,
			PreviousStock: 0,
			NewStock:      p.Stock,
			Reason:        &reason,
			CreatedAt:     time.Now(),
		})
	}
}

func (s *Store) AddCategory(id, storeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = storeID
}

func (s *Store) Product(id string) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

// Movements returns the movements of productID in commit order.
func (s *Store) Movements(productID string) []model.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) Sales() []model.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Sale(nil), s.sales...)
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) Begin(ctx context.Context) (inventory.Tx, error) {
	return s.BeginTx(), nil
}

func (s *Store) BeginTx() *Tx {
	return &Tx{
		store:    s,
		held:     map[string]*sync.Mutex{},
		products: map[string]*model.Product{},
	}
}

func (s *Store) GetProduct(ctx context.Context, storeID, productID string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok || p.StoreID != storeID {
		return nil, apperr.ProductNotFound(productID)
	}
	return &p, nil
}

func (s *Store) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StockMovement
	for i := len(s.movements) - 1; i >= 0; i-- {
		m := s.movements[i]
		if m.StoreID != f.StoreID {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		out = append(out, m)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ProductMovements(ctx context.Context, storeID, productID string) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range s.Movements(productID) {
		if m.StoreID == storeID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) ListProductSnapshots(ctx context.Context, storeID string) ([]model.ProductSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ProductSnapshot
	for _, p := range s.products {
		if p.StoreID != storeID {
			continue
		}
		out = append(out, model.ProductSnapshot{
			ID: p.ID, Name: p.Name, SKU: p.SKU, Price: p.Price, Cost: p.Cost,
			Stock: p.Stock, MinStock: p.MinStock, TrackStock: p.TrackStock, IsActive: p.IsActive,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Tx stages writes and applies them on Commit. Product locks are taken in
// ascending id order and held until Commit or Rollback.
type Tx struct {
	store     *Store
	held      map[string]*sync.Mutex
	products  map[string]*model.Product
	movements []model.StockMovement
	sales     []model.Sale
	items     []model.SaleItem
	done      bool
}

func (t *Tx) LockProducts(ctx context.Context, storeID string, productIDs []string) (map[string]*model.Product, error) {
	ids := append([]string(nil), productIDs...)
	sort.Strings(ids)

	out := make(map[string]*model.Product, len(ids))
	for _, id := range ids {
		if p, ok := t.products[id]; ok {
			out[id] = p
			continue
		}
		if _, ok := t.held[id]; !ok {
			l := t.store.lockFor(id)
			l.Lock()
			t.held[id] = l
		}

		t.store.mu.Lock()
		p, ok := t.store.products[id]
		t.store.mu.Unlock()
		if !ok || p.StoreID != storeID {
			continue
		}
		t.products[id] = &p
		out[id] = &p
	}
	return out, nil
}

func (t *Tx) SetStock(ctx context.Context, productID string, stock int, at time.Time) error {
	if p, ok := t.products[productID]; ok {
		p.Stock = stock
		p.UpdatedAt = at
	}
	return nil
}

func (t *Tx) InsertMovement(ctx context.Context, m *model.StockMovement) error {
	if t.store.FailInsertMovement != nil {
		return t.store.FailInsertMovement
	}
	t.movements = append(t.movements, *m)
	return nil
}

func (t *Tx) InsertProduct(ctx context.Context, p *model.Product) error {
	if err := t.store.checkUnique(p); err != nil {
		return err
	}
	cp := *p
	t.products[p.ID] = &cp
	return nil
}

func (t *Tx) InsertSale(ctx context.Context, sale *model.Sale) error {
	cp := *sale
	cp.Items = nil
	t.sales = append(t.sales, cp)
	return nil
}

func (t *Tx) InsertSaleItems(ctx context.Context, items []model.SaleItem) error {
	t.items = append(t.items, items...)
	return nil
}

func (t *Tx) Commit() error {
	if t.done {
		return nil
	}
	s := t.store
	s.mu.Lock()
	for id, p := range t.products {
		s.products[id] = *p
	}
	for _, m := range t.movements {
		s.seq++
		m.Seq = s.seq
		s.movements = append(s.movements, m)
	}
	for _, sale := range t.sales {
		for _, it := range t.items {
			if it.SaleID == sale.ID {
				sale.Items = append(sale.Items, it)
			}
		}
		s.sales = append(s.sales, sale)
	}
	s.mu.Unlock()
	t.release()
	return nil
}

func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *Tx) release() {
	t.done = true
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

// checkUnique mirrors the per-store slug and sku constraints.
func (s *Store) checkUnique(p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.products {
		if other.ID == p.ID || other.StoreID != p.StoreID {
			continue
		}
		if p.SKU != nil && other.SKU != nil && *p.SKU == *other.SKU {
			return apperr.DuplicateSKU(*p.SKU)
		}
		if other.Slug == p.Slug {
			return apperr.DuplicateSlug(p.Slug)
		}
	}
	return nil
}
