package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/inventorytest"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invalidations struct {
	mu     sync.Mutex
	stores []string
}

func (i *invalidations) InvalidateReports(_ context.Context, storeID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stores = append(i.stores, storeID)
}

type recordingPublisher struct {
	mu        sync.Mutex
	sales     []string
	movements []model.StockMovement
}

func (p *recordingPublisher) MovementsRecorded(_ context.Context, ms []model.StockMovement) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.movements = append(p.movements, ms...)
	return nil
}

func (p *recordingPublisher) SaleCommitted(_ context.Context, s *model.Sale) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sales = append(p.sales, s.ID)
	return errors.New("broker unavailable")
}

var rc = auth.RequestContext{StoreID: "s1", UserID: "cashier", Role: "CASHIER"}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func seedProduct(store *inventorytest.Store, id, name, p string, stock int, track bool) {
	sku := "SKU-" + id
	prod := model.Product{
		StoreID:    "s1",
		Name:       name,
		SKU:        &sku,
		Price:      decimal.RequireFromString(p),
		Stock:      stock,
		TrackStock: track,
		IsActive:   true,
	}
	prod.ID = id
	store.AddProduct(prod)
}

func newUseCase(store *inventorytest.Store) (*saleUseCase, *invalidations, *recordingPublisher) {
	inv := &invalidations{}
	pub := &recordingPublisher{}
	uc := NewSaleUseCase(store.SaleRepository(), inv, pub, Options{}, logger.NewNop()).(*saleUseCase)
	return uc, inv, pub
}

func TestCommitSaleSnapshotsAndLedger(t *testing.T) {
	store := inventorytest.NewStore()
	seedProduct(store, "a", "Keyboard", "10", 5, true)
	seedProduct(store, "b", "Mouse", "5", 3, true)
	uc, inv, pub := newUseCase(store)

	s, err := uc.CommitSale(context.Background(), rc, &dto.CommitSaleInput{
		PaymentMethod: "cash",
		Lines: []dto.SaleLine{
			{ProductID: "a", Quantity: 2, UnitPrice: price("10")},
			{ProductID: "b", Quantity: 3, UnitPrice: price("5")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentCash, s.PaymentMethod)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(35)))
	require.Len(t, s.Items, 2)
	assert.Equal(t, "Keyboard", s.Items[0].ProductName)
	assert.Equal(t, "SKU-a", *s.Items[0].ProductSKU)
	assert.Equal(t, 1, s.Items[0].Position)
	assert.True(t, s.Items[0].Subtotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, s.Items[1].Subtotal.Equal(decimal.NewFromInt(15)))

	ms := store.Movements("a")
	require.Len(t, ms, 2)
	assert.Equal(t, model.MovementSale, ms[1].Type)
	assert.Equal(t, -2, ms[1].Quantity)
	assert.Equal(t, s.ID, *ms[1].SaleID)
	assert.Equal(t, "cashier", ms[1].UserID)
	assert.NoError(t, inventory.VerifyChain(ms))

	assert.Equal(t, []string{"s1"}, inv.stores)
	assert.Equal(t, []string{s.ID}, pub.sales)
	assert.Len(t, pub.movements, 2)
}

func TestCommitSaleDefaultsToCatalogPrice(t *testing.T) {
	store := inventorytest.NewStore()
	seedProduct(store, "a", "Keyboard", "12.50", 5, true)
	uc, _, _ := newUseCase(store)

	s, err := uc.CommitSale(context.Background(), rc, &dto.CommitSaleInput{
		PaymentMethod: "DEBIT",
		Lines:         []dto.SaleLine{{ProductID: "a", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "25", s.Total.String())
}

func TestCommitSaleKeepsCallerPrice(t *testing.T) {
	store := inventorytest.NewStore()
	seedProduct(store, "a", "Keyboard", "10", 5, true)
	uc, _, _ := newUseCase(store)

	s, err := uc.CommitSale(context.Background(), rc, &dto.CommitSaleInput{
		PaymentMethod: "CREDIT",
		Lines:         []dto.SaleLine{{ProductID: "a", Quantity: 1, UnitPrice: price("8")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "8", s.Total.String())
	assert.Equal(t, "8", s.Items[0].Price.String())
}

func TestCommitSaleDuplicateLinesShareStock(t *testing.T) {
	store := inventorytest.NewStore()
	seedProduct(store, "a", "Keyboard", "10", 3, true)
	uc, _, _ := newUseCase(store)

	_, err := uc.CommitSale(context.Background(), rc, &dto.CommitSaleInput{
		PaymentMethod: "CASH",
		Lines: []dto.SaleLine{
			{ProductID: "a", Quantity: 2},
			{ProductID: "a", Quantity: 2},
		},
	})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInsufficientStock, e.Code)
	assert.Equal(t, 3, e.Fields["Available"])
	assert.Equal(t, 4, e.Fields["Requested"])

	s, err := uc.CommitSale(context.Background(), rc, &dto.CommitSaleInput{
		PaymentMethod: "CASH",
		Lines: []dto.SaleLine{
			{ProductID: "a", Quantity: 1},
			{ProductID: "a", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Len(t, s.Items, 2)
	assert.Equal(t, 0, store.Product("a").Stock)
	assert.NoError(t, inventory.VerifyChain(store.Movements("a")))
}

func TestCommitSaleHugeQuantities(t *testing.T) {
	store := inventorytest.NewStore()
	seedProduct(store, "a", "Keyboard", "10", 5, true)
	uc, _, _ := newUseCase(store)

	_, err := uc.CommitSale(context.Background(), rc, &dto.CommitSaleInput{
		PaymentMethod: "CASH",
		Lines: []dto.SaleLine{
			{ProductID: "a", Quantity: math.MaxInt64/2 + 1},
			{ProductID: "a", Quantity: math.MaxInt64/2 + 1},
		},
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidQuantity), "got %v", err)

	// Lines within range still sum past the stock and fail the stock check.
	_, err = uc.CommitSale(context.Background(), rc, &dto.CommitSaleInput{
		PaymentMethod: "CASH",
		Lines: []dto.SaleLine{
			{ProductID: "a", Quantity: inventory.MaxQuantity},
			{ProductID: "a", Quantity: inventory.MaxQuantity},
		},
	})
	e, ok := apperr.As(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, apperr.CodeInsufficientStock, e.Code)
	assert.Equal(t, 2*inventory.MaxQuantity, e.Fields["Requested"])

	assert.Empty(t, store.Sales())
	assert.Equal(t, 5, store.Product("a").Stock)
}

func TestCommitSaleValidation(t *testing.T) {
	store := inventorytest.NewStore()
	seedProduct(store, "a", "Keyboard", "10", 5, true)
	other := model.Product{StoreID: "s2", Name: "Foreign", Price: decimal.NewFromInt(1), Stock: 9, TrackStock: true}
	other.ID = "x"
	store.AddProduct(other)
	uc, _, _ := newUseCase(store)

	line := []dto.SaleLine{{ProductID: "a", Quantity: 1}}
	cases := map[string]struct {
		rc    auth.RequestContext
		input dto.CommitSaleInput
		want  error
	}{
		"empty":           {rc, dto.CommitSaleInput{PaymentMethod: "CASH"}, apperr.ErrEmptyOrder},
		"no payment":      {rc, dto.CommitSaleInput{Lines: line, PaymentMethod: " "}, apperr.ErrMissingPaymentMethod},
		"bad payment":     {rc, dto.CommitSaleInput{Lines: line, PaymentMethod: "CHEQUE"}, apperr.ErrInvalidPaymentMethod},
		"zero quantity":   {rc, dto.CommitSaleInput{Lines: []dto.SaleLine{{ProductID: "a"}}, PaymentMethod: "CASH"}, apperr.ErrInvalidQuantity},
		"negative price":  {rc, dto.CommitSaleInput{Lines: []dto.SaleLine{{ProductID: "a", Quantity: 1, UnitPrice: price("-1")}}, PaymentMethod: "CASH"}, apperr.ErrInvalidPrice},
		"missing product": {rc, dto.CommitSaleInput{Lines: []dto.SaleLine{{ProductID: "zzz", Quantity: 1}}, PaymentMethod: "CASH"}, apperr.ErrProductNotFound},
		"other store":     {rc, dto.CommitSaleInput{Lines: []dto.SaleLine{{ProductID: "x", Quantity: 1}}, PaymentMethod: "CASH"}, apperr.ErrProductNotFound},
		"no store":        {auth.RequestContext{}, dto.CommitSaleInput{Lines: line, PaymentMethod: "CASH"}, apperr.ErrUnauthenticated},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			input := tc.input
			_, err := uc.CommitSale(context.Background(), tc.rc, &input)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	assert.Empty(t, store.Sales())
	assert.Equal(t, 5, store.Product("a").Stock)
	assert.Equal(t, 9, store.Product("x").Stock)
}

func TestCommitSaleLedgerFailureRollsBack(t *testing.T) {
	store := inventorytest.NewStore()
	seedProduct(store, "a", "Keyboard", "10", 5, true)
	store.FailInsertMovement = errors.New("connection reset")
	uc, inv, pub := newUseCase(store)

	_, err := uc.CommitSale(context.Background(), rc, &dto.CommitSaleInput{
		PaymentMethod: "CASH",
		Lines:         []dto.SaleLine{{ProductID: "a", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Empty(t, store.Sales())
	assert.Equal(t, 5, store.Product("a").Stock)
	assert.Empty(t, inv.stores)
	assert.Empty(t, pub.sales)
}

func TestConcurrentMultiProductSalesDoNotDeadlockOrOversell(t *testing.T) {
	store := inventorytest.NewStore()
	seedProduct(store, "a", "Keyboard", "10", 30, true)
	seedProduct(store, "b", "Mouse", "5", 30, true)
	uc, _, _ := newUseCase(store)

	var wg sync.WaitGroup
	var mu sync.Mutex
	committed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lines := []dto.SaleLine{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 1}}
			if i%2 == 1 {
				lines[0], lines[1] = lines[1], lines[0]
			}
			_, err := uc.CommitSale(context.Background(), rc, &dto.CommitSaleInput{PaymentMethod: "CASH", Lines: lines})
			if err == nil {
				mu.Lock()
				committed++
				mu.Unlock()
			} else {
				assert.True(t, errors.Is(err, apperr.ErrInsufficientStock))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 30, committed)
	for _, id := range []string{"a", "b"} {
		assert.Equal(t, 0, store.Product(id).Stock)
		ms := store.Movements(id)
		assert.NoError(t, inventory.VerifyChain(ms))
		assert.Equal(t, 0, inventory.Replay(ms))
	}
}

func TestListSales(t *testing.T) {
	store := inventorytest.NewStore()
	seedProduct(store, "a", "Keyboard", "10", 10, true)
	uc, _, _ := newUseCase(store)
	ctx := context.Background()

	for _, m := range []string{"CASH", "QR", "CASH"} {
		_, err := uc.CommitSale(ctx, rc, &dto.CommitSaleInput{PaymentMethod: m, Lines: []dto.SaleLine{{ProductID: "a", Quantity: 1}}})
		require.NoError(t, err)
	}

	all, err := uc.ListSales(ctx, rc, &dto.SaleFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cash, err := uc.ListSales(ctx, rc, &dto.SaleFilters{PaymentMethod: "cash", Limit: 1})
	require.NoError(t, err)
	require.Len(t, cash, 1)
	assert.Equal(t, all[0].ID, cash[0].ID)

	got, err := uc.GetSale(ctx, rc, cash[0].ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = uc.GetSale(ctx, auth.RequestContext{StoreID: "s2"}, cash[0].ID)
	assert.True(t, errors.Is(err, apperr.ErrSaleNotFound))
}
