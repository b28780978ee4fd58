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
	"github.com/fekuna/omnipos-backoffice/internal/product"
	"github.com/fekuna/omnipos-backoffice/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// mapWriteError turns the per-store unique constraints into business errors.
func mapWriteError(err error, p *model.Product) error {
	name, ok := postgres.UniqueViolation(err)
	if !ok {
		return err
	}
	switch name {
	case "products_store_id_sku_key":
		sku := ""
		if p.SKU != nil {
			sku = *p.SKU
		}
		return apperr.DuplicateSKU(sku)
	case "products_store_id_slug_key":
		return apperr.DuplicateSlug(p.Slug)
	}
	return err
}

type pgTx struct {
	*invrepo.PGTx
}

func (r *PGRepository) Begin(ctx context.Context) (product.Tx, error) {
	tx, err := invrepo.BeginPGTx(ctx, r.DB)
	if err != nil {
		return nil, err
	}
	return &pgTx{PGTx: tx}, nil
}

func (t *pgTx) InsertProduct(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, store_id, category_id, name, slug, description, sku, price, cost,
            stock, min_stock, track_stock, is_active, image_url, created_at, updated_at
        )
        VALUES (
            :id, :store_id, :category_id, :name, :slug, :description, :sku, :price, :cost,
            :stock, :min_stock, :track_stock, :is_active, :image_url, :created_at, :updated_at
        )
    `
	_, err := t.Tx.NamedExecContext(ctx, query, p)
	return mapWriteError(err, p)
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string) (*model.Product, error) {
	var p model.Product
	query := `SELECT ` + invrepo.ProductColumns + ` FROM products WHERE store_id = $1 AND id = $2 LIMIT 1`
	if err := r.DB.GetContext(ctx, &p, query, storeID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.InvalidInput(err) {
			return nil, apperr.ProductNotFound(id)
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDs loads ids in the given order, skipping ids that are gone.
func (r *PGRepository) FindByIDs(ctx context.Context, storeID string, ids []string) ([]model.Product, error) {
	out := []model.Product{}
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+invrepo.ProductColumns+` FROM products WHERE store_id = ? AND id IN (?)`, storeID, ids)
	if err != nil {
		return nil, err
	}
	var rows []model.Product
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}

	byID := make(map[string]model.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int

	conditions := []string{"store_id = :store_id"}
	args := map[string]interface{}{"store_id": f.StoreID}

	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		if postgres.InvalidInput(err) {
			// A category filter that is not a UUID matches nothing.
			return products, 0, nil
		}
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	// Whitelisted so the sort column never comes from the caller verbatim.
	orderBy := "created_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "price"
		case "stock":
			orderBy = "stock"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s", invrepo.ProductColumns, whereClause, orderBy)
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

// Update writes every catalog field except stock, then refreshes p.Stock
// with the counter as of the update.
func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET category_id = :category_id,
            name = :name,
            slug = :slug,
            description = :description,
            sku = :sku,
            price = :price,
            cost = :cost,
            min_stock = :min_stock,
            track_stock = :track_stock,
            is_active = :is_active,
            image_url = :image_url,
            updated_at = :updated_at
        WHERE id = :id AND store_id = :store_id
        RETURNING stock
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, p)
	if err != nil {
		if postgres.InvalidInput(err) {
			return apperr.ProductNotFound(p.ID)
		}
		return mapWriteError(err, p)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return mapWriteError(err, p)
		}
		return apperr.ProductNotFound(p.ID)
	}
	return rows.Scan(&p.Stock)
}

func (r *PGRepository) Delete(ctx context.Context, storeID, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE store_id = $1 AND id = $2", storeID, id)
	if err != nil {
		if postgres.InvalidInput(err) {
			return apperr.ProductNotFound(id)
		}
		// A sale or movement committed after the history check.
		if _, ok := postgres.ForeignKeyViolation(err); ok {
			return apperr.ProductHasHistory(id)
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.ProductNotFound(id)
	}
	return nil
}

func (r *PGRepository) CategoryExists(ctx context.Context, storeID, categoryID string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE store_id = $1 AND id = $2)`, storeID, categoryID)
	if postgres.InvalidInput(err) {
		return false, nil
	}
	return exists, err
}

func (r *PGRepository) HasHistory(ctx context.Context, storeID, id string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `
        SELECT EXISTS (SELECT 1 FROM stock_movements WHERE store_id = $1 AND product_id = $2)
            OR EXISTS (SELECT 1 FROM sale_items WHERE product_id = $2)
    `, storeID, id)
	if postgres.InvalidInput(err) {
		return false, nil
	}
	return exists, err
}
