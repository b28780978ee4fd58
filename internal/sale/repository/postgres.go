package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	invrepo "github.com/fekuna/omnipos-backoffice/internal/inventory/repository"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale"
	"github.com/fekuna/omnipos-backoffice/internal/sale/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const saleColumns = `id, store_id, user_id, total, payment_method, payment_reference,
	customer_name, customer_email, customer_phone, notes, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type pgTx struct {
	*invrepo.PGTx
}

func (r *PGRepository) Begin(ctx context.Context) (sale.Tx, error) {
	tx, err := invrepo.BeginPGTx(ctx, r.DB)
	if err != nil {
		return nil, err
	}
	return &pgTx{PGTx: tx}, nil
}

func (t *pgTx) InsertSale(ctx context.Context, s *model.Sale) error {
	query := `
        INSERT INTO sales (
            id, store_id, user_id, total, payment_method, payment_reference,
            customer_name, customer_email, customer_phone, notes, created_at, updated_at
        )
        VALUES (
            :id, :store_id, :user_id, :total, :payment_method, :payment_reference,
            :customer_name, :customer_email, :customer_phone, :notes, :created_at, :updated_at
        )
    `
	_, err := t.Tx.NamedExecContext(ctx, query, s)
	return err
}

func (t *pgTx) InsertSaleItems(ctx context.Context, items []model.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
        INSERT INTO sale_items (
            id, sale_id, position, product_id, product_name, product_sku,
            price, quantity, subtotal, created_at
        )
        VALUES (
            :id, :sale_id, :position, :product_id, :product_name, :product_sku,
            :price, :quantity, :subtotal, :created_at
        )
    `
	_, err := t.Tx.NamedExecContext(ctx, query, items)
	return err
}

func (r *PGRepository) GetSale(ctx context.Context, storeID, id string) (*model.Sale, error) {
	var s model.Sale
	query := `SELECT ` + saleColumns + ` FROM sales WHERE store_id = $1 AND id = $2`
	if err := r.DB.GetContext(ctx, &s, query, storeID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.InvalidInput(err) {
			return nil, apperr.SaleNotFound(id)
		}
		return nil, err
	}

	sales := []model.Sale{s}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return &sales[0], nil
}

func (r *PGRepository) ListSales(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, error) {
	sales := []model.Sale{}

	conditions := []string{"store_id = :store_id"}
	args := map[string]interface{}{"store_id": f.StoreID}
	if f.PaymentMethod != "" {
		conditions = append(conditions, "payment_method = :payment_method")
		args["payment_method"] = string(f.PaymentMethod)
	}

	query := "SELECT " + saleColumns + " FROM sales WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &sales, args); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// attachItems loads the items of all sales in one query.
func (r *PGRepository) attachItems(ctx context.Context, sales []model.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, len(sales))
	index := make(map[string]int, len(sales))
	for i := range sales {
		ids[i] = sales[i].ID
		index[sales[i].ID] = i
		sales[i].Items = []model.SaleItem{}
	}

	query, args, err := sqlx.In(`
        SELECT id, sale_id, position, product_id, product_name, product_sku,
               price, quantity, subtotal, created_at
        FROM sale_items
        WHERE sale_id IN (?)
        ORDER BY sale_id, position
    `, ids)
	if err != nil {
		return err
	}
	query = r.DB.Rebind(query)

	var items []model.SaleItem
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return fmt.Errorf("failed to load sale items: %w", err)
	}
	for _, it := range items {
		i := index[it.SaleID]
		sales[i].Items = append(sales[i].Items, it)
	}
	return nil
}
