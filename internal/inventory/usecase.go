package inventory

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/report"
	"github.com/fekuna/omnipos-backoffice/internal/model"
)

type UseCase interface {
	AdjustStock(ctx context.Context, rc auth.RequestContext, input *dto.AdjustStockInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, rc auth.RequestContext, filters *dto.MovementFilters) ([]model.StockMovement, error)
	VerifyLedger(ctx context.Context, rc auth.RequestContext, productID string) (*dto.LedgerCheck, error)

	LowStockReport(ctx context.Context, rc auth.RequestContext) (*report.LowStockReport, error)
	ValuationReport(ctx context.Context, rc auth.RequestContext) (*report.ValuationReport, error)
	SummaryReport(ctx context.Context, rc auth.RequestContext) (*report.Summary, error)

	// InvalidateReports drops cached reports after any stock or catalog change.
	InvalidateReports(ctx context.Context, storeID string)
}
