package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/google/uuid"
)

// MaxQuantity bounds stock counters and single quantities; the columns are
// 32-bit INTEGER.
const MaxQuantity = math.MaxInt32

// Entry describes one stock change to append to the ledger.
type Entry struct {
	Type   model.MovementType
	Delta  int
	Reason *string
	Notes  *string
	SaleID *string // Set only for SALE entries
	UserID string
}

// Append writes one ledger row for p and moves its counter by e.Delta inside
// tx. p must have been returned by tx.LockProducts; its Stock is updated in
// place so several entries for the same product chain correctly.
func Append(ctx context.Context, tx Tx, p *model.Product, e Entry, now time.Time) (*model.StockMovement, error) {
	if e.Delta == 0 {
		return nil, apperr.ErrZeroQuantity
	}
	if e.Delta > MaxQuantity || e.Delta < -MaxQuantity {
		return nil, apperr.QuantityOutOfRange(p.ID, e.Delta)
	}
	next := p.Stock + e.Delta
	if next < 0 {
		return nil, apperr.InvalidStock(p.ID, p.Stock, e.Delta)
	}
	if next > MaxQuantity {
		return nil, apperr.QuantityOutOfRange(p.ID, e.Delta)
	}

	m := &model.StockMovement{
		ID:            uuid.New().String(),
		StoreID:       p.StoreID,
		ProductID:     p.ID,
		Type:          e.Type,
		Quantity:      e.Delta,
		PreviousStock: p.Stock,
		NewStock:      next,
		Reason:        e.Reason,
		Notes:         e.Notes,
		SaleID:        e.SaleID,
		UserID:        e.UserID,
		CreatedAt:     now,
		ProductName:   p.Name,
		ProductSKU:    p.SKU,
	}

	if err := tx.SetStock(ctx, p.ID, next, now); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	if err := tx.InsertMovement(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to insert stock movement: %w", err)
	}

	p.Stock = next
	p.UpdatedAt = now
	return m, nil
}

// Replay folds movements (in commit order) starting from zero stock.
func Replay(movements []model.StockMovement) int {
	stock := 0
	for _, m := range movements {
		stock += m.Quantity
	}
	return stock
}

type ChainError struct {
	Seq      int64
	Expected int
	Got      int
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("ledger chain broken at seq %d: previous stock %d, expected %d", e.Seq, e.Got, e.Expected)
}

// VerifyChain checks that movements, in commit order, start from zero, that
// each row satisfies new = previous + quantity, and that every previous
// stock equals the prior row's new stock.
func VerifyChain(movements []model.StockMovement) error {
	expected := 0
	for _, m := range movements {
		if m.PreviousStock != expected {
			return &ChainError{Seq: m.Seq, Expected: expected, Got: m.PreviousStock}
		}
		if m.NewStock != m.PreviousStock+m.Quantity || m.NewStock < 0 {
			return &ChainError{Seq: m.Seq, Expected: m.PreviousStock + m.Quantity, Got: m.NewStock}
		}
		expected = m.NewStock
	}
	return nil
}

// Check compares counter against the ledger for one product.
func Check(productID string, counter int, movements []model.StockMovement) *dto.LedgerCheck {
	c := &dto.LedgerCheck{
		ProductID: productID,
		Counter:   counter,
		Replayed:  Replay(movements),
		Movements: len(movements),
	}
	if err := VerifyChain(movements); err != nil {
		if ce, ok := err.(*ChainError); ok {
			seq := ce.Seq
			c.BrokenAt = &seq
		}
	}
	c.Consistent = c.BrokenAt == nil && c.Replayed == c.Counter
	return c
}
