package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/events"
	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/product"
	"github.com/fekuna/omnipos-backoffice/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/cache"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/fekuna/omnipos-backoffice/pkg/slug"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultMinStock = 5
	openingReason   = "opening balance"
)

// ReportInvalidator drops the cached reports and list pages of a store.
type ReportInvalidator interface {
	InvalidateReports(ctx context.Context, storeID string)
}

type Options struct {
	ListTTL time.Duration
}

type productUseCase struct {
	repo      product.Repository
	cache     cache.Cache
	es        product.Indexer // nil when search is disabled
	reports   ReportInvalidator
	publisher events.Publisher
	opts      Options
	logger    logger.ZapLogger
	now       func() time.Time
	async     func(func())
}

func NewProductUseCase(repo product.Repository, c cache.Cache, es product.Indexer, reports ReportInvalidator, publisher events.Publisher, opts Options, log logger.ZapLogger) product.UseCase {
	if opts.ListTTL <= 0 {
		opts.ListTTL = 5 * time.Minute
	}
	return &productUseCase{
		repo:      repo,
		cache:     c,
		es:        es,
		reports:   reports,
		publisher: publisher,
		opts:      opts,
		logger:    log,
		now:       time.Now,
		async:     func(f func()) { go f() },
	}
}

func validatePrice(id string, price decimal.Decimal) error {
	if price.IsNegative() {
		return apperr.InvalidPrice(id)
	}
	return nil
}

func (uc *productUseCase) checkCategory(ctx context.Context, storeID, categoryID string) error {
	if strings.TrimSpace(categoryID) == "" {
		return apperr.ErrCategoryRequired
	}
	ok, err := uc.repo.CategoryExists(ctx, storeID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !ok {
		return apperr.CategoryNotFound(categoryID)
	}
	return nil
}

// wrap keeps business errors intact and adds context to storage failures.
func wrap(err error, msg string) error {
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (uc *productUseCase) CreateProduct(ctx context.Context, rc auth.RequestContext, input *dto.CreateProductInput) (*model.Product, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.ErrNameRequired
	}
	if err := validatePrice("", input.Price); err != nil {
		return nil, err
	}
	if input.Cost != nil {
		if err := validatePrice("", *input.Cost); err != nil {
			return nil, err
		}
	}
	if input.Stock < 0 {
		return nil, apperr.InvalidQuantity("", input.Stock)
	}
	if err := uc.checkCategory(ctx, rc.StoreID, input.CategoryID); err != nil {
		return nil, err
	}

	now := uc.now()
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		StoreID:     rc.StoreID,
		CategoryID:  input.CategoryID,
		Name:        name,
		Slug:        slug.Make(name),
		Description: input.Description,
		SKU:         normalizeSKU(input.SKU),
		Price:       input.Price,
		MinStock:    defaultMinStock,
		TrackStock:  true,
		IsActive:    true,
		ImageURL:    input.ImageURL,
	}
	if input.Cost != nil {
		p.Cost = decimal.NewNullDecimal(*input.Cost)
	}
	if input.MinStock != nil {
		p.MinStock = *input.MinStock
	}
	if input.TrackStock != nil {
		p.TrackStock = *input.TrackStock
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	tx, err := uc.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.InsertProduct(ctx, p); err != nil {
		return nil, wrap(err, "failed to create product")
	}

	// The opening balance goes through the ledger like any other change.
	var opening *model.StockMovement
	if input.Stock > 0 {
		reason := openingReason
		opening, err = inventory.Append(ctx, tx, p, inventory.Entry{
			Type:   model.MovementAdjustment,
			Delta:  input.Stock,
			Reason: &reason,
			UserID: rc.UserID,
		}, now)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product: %w", err)
	}

	uc.logger.Info("product created",
		zap.String("store_id", rc.StoreID),
		zap.String("product_id", p.ID),
		zap.Int("opening_stock", p.Stock),
	)

	uc.afterChange(ctx, rc.StoreID)
	uc.syncToElastic(p)
	if opening != nil {
		if err := uc.publisher.MovementsRecorded(ctx, []model.StockMovement{*opening}); err != nil {
			uc.logger.Warn("failed to publish opening balance", zap.String("product_id", p.ID), zap.Error(err))
		}
	}
	return p, nil
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	v := strings.TrimSpace(*sku)
	if v == "" {
		return nil
	}
	return &v
}

func (uc *productUseCase) GetProduct(ctx context.Context, rc auth.RequestContext, id string) (*model.Product, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.FindByID(ctx, rc.StoreID, id)
}

type listResult struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

func (uc *productUseCase) ListProducts(ctx context.Context, rc auth.RequestContext, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if err := rc.Validate(); err != nil {
		return nil, 0, err
	}
	f := *filters
	f.StoreID = rc.StoreID
	if f.Page < 1 {
		f.Page = 1
	}

	cacheKey, err := generateCacheKey(&f)
	if err == nil {
		var cached listResult
		hit, err := uc.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			uc.logger.Warn("product list cache read failed", zap.Error(err))
		}
		if hit {
			return cached.Products, cached.Count, nil
		}
	}

	products, count, err := uc.repo.FindAll(ctx, &f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, listResult{Products: products, Count: count}, uc.opts.ListTTL); err != nil {
			uc.logger.Warn("product list cache write failed", zap.Error(err))
		}
	}
	return products, count, nil
}

// SearchProducts asks the search index for matches and loads them from the
// database so stock is current. Without an index, or when it fails, it falls
// back to the database text match.
func (uc *productUseCase) SearchProducts(ctx context.Context, rc auth.RequestContext, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if err := rc.Validate(); err != nil {
		return nil, 0, err
	}
	f := *filters
	f.StoreID = rc.StoreID
	if f.Page < 1 {
		f.Page = 1
	}

	if f.Search != "" && uc.es != nil {
		ids, total, err := uc.es.SearchProducts(ctx, &f)
		if err == nil {
			products, err := uc.repo.FindByIDs(ctx, rc.StoreID, ids)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to load search hits: %w", err)
			}
			return products, total, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, &f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, rc auth.RequestContext, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	p, err := uc.repo.FindByID(ctx, rc.StoreID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.ErrNameRequired
		}
		p.Name = name
		p.Slug = slug.Make(name)
	}
	if input.CategoryID != nil && *input.CategoryID != p.CategoryID {
		if err := uc.checkCategory(ctx, rc.StoreID, *input.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *input.CategoryID
	}
	if input.Price != nil {
		if err := validatePrice(p.ID, *input.Price); err != nil {
			return nil, err
		}
		p.Price = *input.Price
	}
	if input.Cost != nil {
		if err := validatePrice(p.ID, *input.Cost); err != nil {
			return nil, err
		}
		p.Cost = decimal.NewNullDecimal(*input.Cost)
	}
	if input.SKU != nil {
		p.SKU = normalizeSKU(input.SKU)
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.MinStock != nil {
		p.MinStock = *input.MinStock
	}
	if input.TrackStock != nil {
		p.TrackStock = *input.TrackStock
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	if input.ImageURL != nil {
		p.ImageURL = input.ImageURL
	}
	p.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, wrap(err, "failed to update product")
	}

	uc.afterChange(ctx, rc.StoreID)
	uc.syncToElastic(p)
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, rc auth.RequestContext, id string) error {
	if err := rc.Validate(); err != nil {
		return err
	}
	if _, err := uc.repo.FindByID(ctx, rc.StoreID, id); err != nil {
		return err
	}

	history, err := uc.repo.HasHistory(ctx, rc.StoreID, id)
	if err != nil {
		return fmt.Errorf("failed to check product history: %w", err)
	}
	if history {
		return apperr.ProductHasHistory(id)
	}

	if err := uc.repo.Delete(ctx, rc.StoreID, id); err != nil {
		return wrap(err, "failed to delete product")
	}
	uc.logger.Info("product deleted", zap.String("store_id", rc.StoreID), zap.String("product_id", id))

	uc.afterChange(ctx, rc.StoreID)
	if uc.es != nil {
		uc.async(func() {
			if err := uc.es.DeleteProduct(context.Background(), id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		})
	}
	return nil
}

// afterChange drops the cached list pages and reports of the store.
func (uc *productUseCase) afterChange(ctx context.Context, storeID string) {
	uc.reports.InvalidateReports(ctx, storeID)
}

func (uc *productUseCase) syncToElastic(p *model.Product) {
	if uc.es == nil {
		return
	}
	doc := *p
	uc.async(func() {
		if err := uc.es.IndexProduct(context.Background(), &doc); err != nil {
			uc.logger.Error("failed to index product", zap.String("product_id", doc.ID), zap.Error(err))
		}
	})
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", inventory.ProductListKeyPrefix(filters.StoreID), md5.Sum(data)), nil
}
