package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/events"
	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale"
	"github.com/fekuna/omnipos-backoffice/internal/sale/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportInvalidator drops cached inventory reports of a store.
type ReportInvalidator interface {
	InvalidateReports(ctx context.Context, storeID string)
}

type Options struct {
	DefaultLimit int
	MaxLimit     int
}

type saleUseCase struct {
	repo      sale.Repository
	reports   ReportInvalidator
	publisher events.Publisher
	opts      Options
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewSaleUseCase(repo sale.Repository, reports ReportInvalidator, publisher events.Publisher, opts Options, log logger.ZapLogger) sale.UseCase {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}
	return &saleUseCase{
		repo:      repo,
		reports:   reports,
		publisher: publisher,
		opts:      opts,
		logger:    log,
		now:       time.Now,
	}
}

// validate rejects malformed input before any storage access and returns
// the distinct product ids with their summed quantities.
func validate(input *dto.CommitSaleInput) (model.PaymentMethod, []string, map[string]int, error) {
	if len(input.Lines) == 0 {
		return "", nil, nil, apperr.ErrEmptyOrder
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return "", nil, nil, apperr.ErrMissingPaymentMethod
	}
	method, err := model.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return "", nil, nil, apperr.InvalidPaymentMethod(input.PaymentMethod)
	}

	var ids []string
	requested := make(map[string]int, len(input.Lines))
	for _, l := range input.Lines {
		if l.ProductID == "" {
			return "", nil, nil, apperr.ProductNotFound(l.ProductID)
		}
		if l.Quantity <= 0 {
			return "", nil, nil, apperr.InvalidQuantity(l.ProductID, l.Quantity)
		}
		// Bounded per line, so the per-product sum below cannot wrap.
		if l.Quantity > inventory.MaxQuantity {
			return "", nil, nil, apperr.QuantityOutOfRange(l.ProductID, l.Quantity)
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			return "", nil, nil, apperr.InvalidPrice(l.ProductID)
		}
		if _, ok := requested[l.ProductID]; !ok {
			ids = append(ids, l.ProductID)
		}
		requested[l.ProductID] += l.Quantity
	}
	return method, ids, requested, nil
}

func (uc *saleUseCase) CommitSale(ctx context.Context, rc auth.RequestContext, input *dto.CommitSaleInput) (*model.Sale, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	method, ids, requested, err := validate(input)
	if err != nil {
		return nil, err
	}

	tx, err := uc.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	locked, err := tx.LockProducts(ctx, rc.StoreID, ids)
	if err != nil {
		return nil, err
	}

	// Every line is checked before the first write.
	for _, id := range ids {
		p, ok := locked[id]
		if !ok {
			return nil, apperr.ProductNotFound(id)
		}
		if p.TrackStock && p.Stock < requested[id] {
			return nil, apperr.InsufficientStock(p.ID, p.Name, p.Stock, requested[id])
		}
	}

	now := uc.now()
	s := &model.Sale{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		StoreID:          rc.StoreID,
		UserID:           rc.UserID,
		PaymentMethod:    method,
		PaymentReference: input.PaymentReference,
		CustomerName:     input.CustomerName,
		CustomerEmail:    input.CustomerEmail,
		CustomerPhone:    input.CustomerPhone,
		Notes:            input.Notes,
	}

	total := decimal.Zero
	items := make([]model.SaleItem, 0, len(input.Lines))
	for i, l := range input.Lines {
		p := locked[l.ProductID]
		price := p.Price
		if l.UnitPrice != nil {
			price = *l.UnitPrice
			if !price.Equal(p.Price) {
				uc.logger.Warn("sale line price differs from catalog price",
					zap.String("store_id", rc.StoreID),
					zap.String("product_id", p.ID),
					zap.String("line_price", price.String()),
					zap.String("catalog_price", p.Price.String()),
				)
			}
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(subtotal)
		items = append(items, model.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      s.ID,
			Position:    i + 1,
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
			Price:       price,
			Quantity:    l.Quantity,
			Subtotal:    subtotal,
			CreatedAt:   now,
		})
	}
	s.Total = total
	s.Items = items

	if err := tx.InsertSale(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}
	if err := tx.InsertSaleItems(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to insert sale items: %w", err)
	}

	saleID := s.ID
	var movements []model.StockMovement
	for _, l := range input.Lines {
		p := locked[l.ProductID]
		if !p.TrackStock {
			continue
		}
		m, err := inventory.Append(ctx, tx, p, inventory.Entry{
			Type:   model.MovementSale,
			Delta:  -l.Quantity,
			SaleID: &saleID,
			UserID: rc.UserID,
		}, now)
		if err != nil {
			return nil, err
		}
		movements = append(movements, *m)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	uc.logger.Info("sale committed",
		zap.String("store_id", rc.StoreID),
		zap.String("sale_id", s.ID),
		zap.String("total", s.Total.String()),
		zap.Int("items", len(items)),
	)

	uc.reports.InvalidateReports(ctx, rc.StoreID)
	if err := uc.publisher.SaleCommitted(ctx, s); err != nil {
		uc.logger.Warn("failed to publish sale", zap.String("sale_id", s.ID), zap.Error(err))
	}
	if err := uc.publisher.MovementsRecorded(ctx, movements); err != nil {
		uc.logger.Warn("failed to publish sale movements", zap.String("sale_id", s.ID), zap.Error(err))
	}
	return s, nil
}

func (uc *saleUseCase) GetSale(ctx context.Context, rc auth.RequestContext, id string) (*model.Sale, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.GetSale(ctx, rc.StoreID, id)
}

func (uc *saleUseCase) ListSales(ctx context.Context, rc auth.RequestContext, filters *dto.SaleFilters) ([]model.Sale, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	f := *filters
	f.StoreID = rc.StoreID
	if f.PaymentMethod != "" {
		method, err := model.ParsePaymentMethod(string(f.PaymentMethod))
		if err != nil {
			return nil, apperr.InvalidPaymentMethod(string(f.PaymentMethod))
		}
		f.PaymentMethod = method
	}
	switch {
	case f.Limit <= 0:
		f.Limit = uc.opts.DefaultLimit
	case f.Limit > uc.opts.MaxLimit:
		f.Limit = uc.opts.MaxLimit
	}
	return uc.repo.ListSales(ctx, &f)
}
