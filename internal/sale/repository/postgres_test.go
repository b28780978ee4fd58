package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale/dto"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	saleCols = []string{
		"id", "store_id", "user_id", "total", "payment_method", "payment_reference",
		"customer_name", "customer_email", "customer_phone", "notes", "created_at", "updated_at",
	}
	itemCols = []string{
		"id", "sale_id", "position", "product_id", "product_name", "product_sku",
		"price", "quantity", "subtotal", "created_at",
	}
)

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestGetSaleAttachesItemsInOrder(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM sales WHERE store_id = \$1 AND id = \$2`).
		WithArgs("s1", "sale-1").
		WillReturnRows(sqlmock.NewRows(saleCols).
			AddRow("sale-1", "s1", "u1", "35.00", "CASH", nil, nil, nil, nil, nil, now, now))
	mock.ExpectQuery(`SELECT .+ FROM sale_items\s+WHERE sale_id IN \(\$1\)\s+ORDER BY sale_id, position`).
		WithArgs("sale-1").
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow("i1", "sale-1", 1, "a", "Keyboard", nil, "10.00", 2, "20.00", now).
			AddRow("i2", "sale-1", 2, "b", "Mouse", "SKU-B", "5.00", 3, "15.00", now))

	s, err := repo.GetSale(context.Background(), "s1", "sale-1")
	require.NoError(t, err)

	assert.Equal(t, model.PaymentCash, s.PaymentMethod)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(35)))
	require.Len(t, s.Items, 2)
	assert.Equal(t, "Keyboard", s.Items[0].ProductName)
	assert.Equal(t, "SKU-B", *s.Items[1].ProductSKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSaleNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`SELECT .+ FROM sales`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSale(context.Background(), "s1", "missing")
	assert.True(t, errors.Is(err, apperr.ErrSaleNotFound))
}

func TestListSalesFiltersByMethod(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectPrepare(`SELECT .+ FROM sales WHERE store_id = \$1 AND payment_method = \$2 ORDER BY created_at DESC LIMIT 10`).
		ExpectQuery().
		WithArgs("s1", "QR").
		WillReturnRows(sqlmock.NewRows(saleCols))

	sales, err := repo.ListSales(context.Background(), &dto.SaleFilters{StoreID: "s1", PaymentMethod: model.PaymentQR, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSaleWithinTx(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO sales`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO sale_items`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	defer tx.Rollback()

	s := &model.Sale{StoreID: "s1", UserID: "u1", Total: decimal.NewFromInt(35), PaymentMethod: model.PaymentCash}
	s.ID = "sale-1"
	s.CreatedAt, s.UpdatedAt = now, now
	require.NoError(t, tx.InsertSale(context.Background(), s))
	require.NoError(t, tx.InsertSaleItems(context.Background(), []model.SaleItem{
		{ID: "i1", SaleID: "sale-1", Position: 1, ProductID: "a", ProductName: "Keyboard", Price: decimal.NewFromInt(10), Quantity: 2, Subtotal: decimal.NewFromInt(20), CreatedAt: now},
		{ID: "i2", SaleID: "sale-1", Position: 2, ProductID: "b", ProductName: "Mouse", Price: decimal.NewFromInt(5), Quantity: 3, Subtotal: decimal.NewFromInt(15), CreatedAt: now},
	}))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSaleMalformedID(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM sales WHERE store_id = \$1 AND id = \$2`).
		WithArgs("s1", "abc").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetSale(context.Background(), "s1", "abc")
	assert.True(t, errors.Is(err, apperr.ErrSaleNotFound))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
