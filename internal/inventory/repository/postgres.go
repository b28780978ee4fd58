package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const ProductColumns = `id, store_id, category_id, name, slug, description, sku, price, cost,
	stock, min_stock, track_stock, is_active, image_url, created_at, updated_at`

const movementColumns = `m.id, m.seq, m.store_id, m.product_id, m.type, m.quantity,
	m.previous_stock, m.new_stock, m.reason, m.notes, m.sale_id, m.user_id, m.created_at,
	p.name AS product_name, p.sku AS product_sku`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// PGTx is the Postgres unit of work. Other repositories embed it to add
// their own inserts to the same transaction.
type PGTx struct {
	Tx *sqlx.Tx
}

func (r *PGRepository) Begin(ctx context.Context) (inventory.Tx, error) {
	return BeginPGTx(ctx, r.DB)
}

func BeginPGTx(ctx context.Context, db *sqlx.DB) (*PGTx, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &PGTx{Tx: tx}, nil
}

// LockProducts selects the store's products FOR UPDATE. Rows are locked in
// ascending id order so concurrent multi-product sales cannot deadlock.
// Ids that do not exist in the store are absent from the result; an id that
// is not a UUID fails the whole lock with ProductNotFound.
func (t *PGTx) LockProducts(ctx context.Context, storeID string, productIDs []string) (map[string]*model.Product, error) {
	ids := uniqueSorted(productIDs)
	out := make(map[string]*model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
        SELECT `+ProductColumns+`
        FROM products
        WHERE store_id = ? AND id IN (?)
        ORDER BY id
        FOR UPDATE
    `, storeID, ids)
	if err != nil {
		return nil, err
	}
	query = t.Tx.Rebind(query)

	var rows []model.Product
	if err := t.Tx.SelectContext(ctx, &rows, query, args...); err != nil {
		if postgres.InvalidInput(err) {
			if id := postgres.MalformedID(ids...); id != "" {
				return nil, apperr.ProductNotFound(id)
			}
		}
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (t *PGTx) SetStock(ctx context.Context, productID string, stock int, at time.Time) error {
	_, err := t.Tx.ExecContext(ctx,
		`UPDATE products SET stock = $1, updated_at = $2 WHERE id = $3`,
		stock, at, productID)
	return err
}

// InsertMovement appends a ledger row and fills m.Seq with its commit order.
func (t *PGTx) InsertMovement(ctx context.Context, m *model.StockMovement) error {
	query := `
        INSERT INTO stock_movements (
            id, store_id, product_id, type, quantity, previous_stock, new_stock,
            reason, notes, sale_id, user_id, created_at
        )
        VALUES (
            :id, :store_id, :product_id, :type, :quantity, :previous_stock, :new_stock,
            :reason, :notes, :sale_id, :user_id, :created_at
        )
        RETURNING seq
    `
	rows, err := sqlx.NamedQueryContext(ctx, t.Tx, query, m)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&m.Seq); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (t *PGTx) Commit() error {
	return t.Tx.Commit()
}

func (t *PGTx) Rollback() error {
	if err := t.Tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (r *PGRepository) GetProduct(ctx context.Context, storeID, productID string) (*model.Product, error) {
	var p model.Product
	query := `SELECT ` + ProductColumns + ` FROM products WHERE store_id = $1 AND id = $2`
	if err := r.DB.GetContext(ctx, &p, query, storeID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.InvalidInput(err) {
			return nil, apperr.ProductNotFound(productID)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, error) {
	items := []model.StockMovement{}

	conditions := []string{"m.store_id = :store_id"}
	args := map[string]interface{}{"store_id": f.StoreID}

	if f.ProductID != "" {
		conditions = append(conditions, "m.product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Type != "" {
		conditions = append(conditions, "m.type = :type")
		args["type"] = string(f.Type)
	}

	query := "SELECT " + movementColumns +
		" FROM stock_movements m JOIN products p ON p.id = m.product_id" +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY m.created_at DESC, m.seq DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	if postgres.InvalidInput(err) {
		return []model.StockMovement{}, nil
	}
	return items, err
}

// ProductMovements returns every movement of a product in commit order.
func (r *PGRepository) ProductMovements(ctx context.Context, storeID, productID string) ([]model.StockMovement, error) {
	items := []model.StockMovement{}
	query := "SELECT " + movementColumns +
		" FROM stock_movements m JOIN products p ON p.id = m.product_id" +
		" WHERE m.store_id = $1 AND m.product_id = $2 ORDER BY m.seq ASC"
	err := r.DB.SelectContext(ctx, &items, query, storeID, productID)
	if postgres.InvalidInput(err) {
		return []model.StockMovement{}, nil
	}
	return items, err
}

func (r *PGRepository) ListProductSnapshots(ctx context.Context, storeID string) ([]model.ProductSnapshot, error) {
	items := []model.ProductSnapshot{}
	query := `
        SELECT p.id, p.name, p.sku, c.name AS category_name, p.price, p.cost,
               p.stock, p.min_stock, p.track_stock, p.is_active
        FROM products p
        JOIN categories c ON c.id = p.category_id
        WHERE p.store_id = $1
        ORDER BY p.name
    `
	err := r.DB.SelectContext(ctx, &items, query, storeID)
	return items, err
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
