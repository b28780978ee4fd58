package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const selectCategory = `
        SELECT c.id, c.store_id, c.name, c.slug, c.description, c.image_url, c.created_at, c.updated_at,
               (SELECT count(*) FROM products p WHERE p.category_id = c.id) AS product_count
        FROM categories c`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// mapWriteError turns the per-store slug constraint into DuplicateSlug.
func mapWriteError(err error, c *model.Category) error {
	if name, ok := postgres.UniqueViolation(err); ok && name == "categories_store_id_slug_key" {
		return apperr.DuplicateSlug(c.Slug)
	}
	return err
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, store_id, name, slug, description, image_url, created_at, updated_at)
        VALUES (:id, :store_id, :name, :slug, :description, :image_url, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return mapWriteError(err, c)
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string) (*model.Category, error) {
	var category model.Category
	query := selectCategory + ` WHERE c.store_id = $1 AND c.id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.InvalidInput(err) {
			return nil, apperr.CategoryNotFound(id)
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	categories := []model.Category{}
	var count int

	conditions := []string{"c.store_id = :store_id"}
	args := map[string]interface{}{"store_id": f.StoreID}

	if f.Search != "" {
		conditions = append(conditions, "c.name ILIKE :search")
		args["search"] = "%" + f.Search + "%"
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM categories c"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := selectCategory + whereClause + " ORDER BY c.created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &categories, args); err != nil {
		return nil, 0, err
	}
	return categories, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET name = :name,
            slug = :slug,
            description = :description,
            image_url = :image_url,
            updated_at = :updated_at
        WHERE id = :id AND store_id = :store_id
    `
	res, err := r.DB.NamedExecContext(ctx, query, c)
	if err != nil {
		if postgres.InvalidInput(err) {
			return apperr.CategoryNotFound(c.ID)
		}
		return mapWriteError(err, c)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.CategoryNotFound(c.ID)
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, storeID, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE store_id = $1 AND id = $2", storeID, id)
	if err != nil {
		if postgres.InvalidInput(err) {
			return apperr.CategoryNotFound(id)
		}
		// A product was assigned after the in-use check.
		if _, ok := postgres.ForeignKeyViolation(err); ok {
			n, _ := r.CountProducts(ctx, storeID, id)
			return apperr.CategoryInUse(id, n)
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.CategoryNotFound(id)
	}
	return nil
}

func (r *PGRepository) CountProducts(ctx context.Context, storeID, id string) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT count(*) FROM products WHERE store_id = $1 AND category_id = $2`, storeID, id)
	if postgres.InvalidInput(err) {
		return 0, nil
	}
	return n, err
}
