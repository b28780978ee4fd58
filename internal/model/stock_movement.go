package model

import (
	"fmt"
	"strings"
	"time"
)

type MovementType string

const (
	MovementSale       MovementType = "SALE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementPurchase   MovementType = "PURCHASE"
	MovementReturn     MovementType = "RETURN"
	MovementDamaged    MovementType = "DAMAGED"
	MovementTheft      MovementType = "THEFT"
)

func ParseMovementType(s string) (MovementType, error) {
	switch t := MovementType(strings.ToUpper(strings.TrimSpace(s))); t {
	case MovementSale, MovementAdjustment, MovementPurchase, MovementReturn, MovementDamaged, MovementTheft:
		return t, nil
	}
	return "", fmt.Errorf("unknown movement type %q", s)
}

// IsAdjustmentReason reports whether t may be used for a manual adjustment.
// SALE entries are only written by the sale commit.
func (t MovementType) IsAdjustmentReason() bool {
	switch t {
	case MovementAdjustment, MovementPurchase, MovementReturn, MovementDamaged, MovementTheft:
		return true
	}
	return false
}

// StockMovement is an append-only ledger row. Seq is the commit order.
type StockMovement struct {
	ID            string       `db:"id" json:"id"`
	Seq           int64        `db:"seq" json:"seq"`
	StoreID       string       `db:"store_id" json:"store_id"`
	ProductID     string       `db:"product_id" json:"product_id"`
	Type          MovementType `db:"type" json:"type"`
	Quantity      int          `db:"quantity" json:"quantity"`
	PreviousStock int          `db:"previous_stock" json:"previous_stock"`
	NewStock      int          `db:"new_stock" json:"new_stock"`
	Reason        *string      `db:"reason" json:"reason"`
	Notes         *string      `db:"notes" json:"notes"`
	SaleID        *string      `db:"sale_id" json:"sale_id"`
	UserID        string       `db:"user_id" json:"user_id"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`

	ProductName string  `db:"product_name" json:"product_name,omitempty"` // Joined data
	ProductSKU  *string `db:"product_sku" json:"product_sku,omitempty"`
}
