package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentDebit    PaymentMethod = "DEBIT"
	PaymentCredit   PaymentMethod = "CREDIT"
	PaymentQR       PaymentMethod = "QR"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case PaymentCash, PaymentTransfer, PaymentDebit, PaymentCredit, PaymentQR:
		return m, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

type Sale struct {
	BaseModel
	StoreID          string          `db:"store_id" json:"store_id"`
	UserID           string          `db:"user_id" json:"user_id"`
	Total            decimal.Decimal `db:"total" json:"total"`
	PaymentMethod    PaymentMethod   `db:"payment_method" json:"payment_method"`
	PaymentReference *string         `db:"payment_reference" json:"payment_reference"`
	CustomerName     *string         `db:"customer_name" json:"customer_name"`
	CustomerEmail    *string         `db:"customer_email" json:"customer_email"`
	CustomerPhone    *string         `db:"customer_phone" json:"customer_phone"`
	Notes            *string         `db:"notes" json:"notes"`
	Items            []SaleItem      `db:"-" json:"items"`
}

// SaleItem snapshots the product at the time of sale; rows are never updated.
type SaleItem struct {
	ID          string          `db:"id" json:"id"`
	SaleID      string          `db:"sale_id" json:"sale_id"`
	Position    int             `db:"position" json:"position"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	ProductSKU  *string         `db:"product_sku" json:"product_sku"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
