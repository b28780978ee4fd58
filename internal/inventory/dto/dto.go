package dto

import "github.com/fekuna/omnipos-backoffice/internal/model"

type MovementFilters struct {
	StoreID   string
	ProductID string
	Type      model.MovementType
	Limit     int
}

// LedgerCheck compares a product counter with the replay of its ledger.
type LedgerCheck struct {
	ProductID  string `json:"product_id"`
	Counter    int    `json:"counter"`
	Replayed   int    `json:"replayed"`
	Movements  int    `json:"movements"`
	Consistent bool   `json:"consistent"`
	BrokenAt   *int64 `json:"broken_at,omitempty"` // Seq of the first movement that breaks the chain
}
