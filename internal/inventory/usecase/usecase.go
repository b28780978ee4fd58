package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/events"
	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/report"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/cache"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"go.uber.org/zap"
)

const (
	reportLowStock  = "low-stock"
	reportValuation = "valuation"
	reportSummary   = "summary"
)

type Options struct {
	ReportTTL    time.Duration
	DefaultLimit int
	MaxLimit     int
}

type inventoryUseCase struct {
	repo      inventory.Repository
	cache     cache.Cache
	publisher events.Publisher
	opts      Options
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewInventoryUseCase(repo inventory.Repository, c cache.Cache, publisher events.Publisher, opts Options, log logger.ZapLogger) inventory.UseCase {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}
	return &inventoryUseCase{
		repo:      repo,
		cache:     c,
		publisher: publisher,
		opts:      opts,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, rc auth.RequestContext, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	reason, err := model.ParseMovementType(input.Reason)
	if err != nil || !reason.IsAdjustmentReason() {
		return nil, apperr.InvalidReason(input.Reason)
	}
	if input.Quantity == 0 {
		return nil, apperr.ErrZeroQuantity
	}
	if input.Quantity > inventory.MaxQuantity || input.Quantity < -inventory.MaxQuantity {
		return nil, apperr.QuantityOutOfRange(input.ProductID, input.Quantity)
	}

	tx, err := uc.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	locked, err := tx.LockProducts(ctx, rc.StoreID, []string{input.ProductID})
	if err != nil {
		return nil, err
	}
	product, ok := locked[input.ProductID]
	if !ok {
		return nil, apperr.ProductNotFound(input.ProductID)
	}

	reasonCode := string(reason)
	movement, err := inventory.Append(ctx, tx, product, inventory.Entry{
		Type:   reason,
		Delta:  input.Quantity,
		Reason: &reasonCode,
		Notes:  input.Notes,
		UserID: rc.UserID,
	}, uc.now())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit adjustment: %w", err)
	}

	uc.logger.Info("stock adjusted",
		zap.String("store_id", rc.StoreID),
		zap.String("product_id", product.ID),
		zap.String("type", string(reason)),
		zap.Int("quantity", movement.Quantity),
		zap.Int("new_stock", movement.NewStock),
	)

	uc.InvalidateReports(ctx, rc.StoreID)
	if err := uc.publisher.MovementsRecorded(ctx, []model.StockMovement{*movement}); err != nil {
		uc.logger.Warn("failed to publish stock movement", zap.String("movement_id", movement.ID), zap.Error(err))
	}
	return movement, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, rc auth.RequestContext, filters *dto.MovementFilters) ([]model.StockMovement, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	f := *filters
	f.StoreID = rc.StoreID
	if f.Type != "" {
		t, err := model.ParseMovementType(string(f.Type))
		if err != nil {
			return nil, apperr.InvalidReason(string(f.Type))
		}
		f.Type = t
	}
	switch {
	case f.Limit <= 0:
		f.Limit = uc.opts.DefaultLimit
	case f.Limit > uc.opts.MaxLimit:
		f.Limit = uc.opts.MaxLimit
	}
	return uc.repo.ListMovements(ctx, &f)
}

func (uc *inventoryUseCase) VerifyLedger(ctx context.Context, rc auth.RequestContext, productID string) (*dto.LedgerCheck, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetProduct(ctx, rc.StoreID, productID)
	if err != nil {
		return nil, err
	}
	movements, err := uc.repo.ProductMovements(ctx, rc.StoreID, productID)
	if err != nil {
		return nil, err
	}

	check := inventory.Check(product.ID, product.Stock, movements)
	if !check.Consistent {
		uc.logger.Error("ledger does not match stock counter",
			zap.String("store_id", rc.StoreID),
			zap.String("product_id", productID),
			zap.Int("counter", check.Counter),
			zap.Int("replayed", check.Replayed),
		)
	}
	return check, nil
}

func (uc *inventoryUseCase) LowStockReport(ctx context.Context, rc auth.RequestContext) (*report.LowStockReport, error) {
	return loadReport(ctx, uc, rc, reportLowStock, report.LowStock)
}

func (uc *inventoryUseCase) ValuationReport(ctx context.Context, rc auth.RequestContext) (*report.ValuationReport, error) {
	return loadReport(ctx, uc, rc, reportValuation, report.Valuation)
}

func (uc *inventoryUseCase) SummaryReport(ctx context.Context, rc auth.RequestContext) (*report.Summary, error) {
	return loadReport(ctx, uc, rc, reportSummary, report.Summarize)
}

// InvalidateReports drops every cached view that carries stock counts: the
// inventory reports and the product list pages.
func (uc *inventoryUseCase) InvalidateReports(ctx context.Context, storeID string) {
	for _, prefix := range []string{reportKeyPrefix(storeID), inventory.ProductListKeyPrefix(storeID)} {
		if err := uc.cache.DeletePattern(ctx, prefix+"*"); err != nil {
			uc.logger.Warn("failed to invalidate cache", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

func reportKeyPrefix(storeID string) string {
	return fmt.Sprintf("reports:inventory:%s:", storeID)
}

// loadReport serves a report from cache, building and caching it on a miss.
// Cache failures only cost a rebuild.
func loadReport[T any](ctx context.Context, uc *inventoryUseCase, rc auth.RequestContext, kind string, build func([]model.ProductSnapshot) *T) (*T, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	key := reportKeyPrefix(rc.StoreID) + kind

	var cached T
	hit, err := uc.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		uc.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	products, err := uc.repo.ListProductSnapshots(ctx, rc.StoreID)
	if err != nil {
		return nil, err
	}
	r := build(products)

	if err := uc.cache.SetJSON(ctx, key, r, uc.opts.ReportTTL); err != nil {
		uc.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
	return r, nil
}
