package handler

import (
	"context"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/inventory"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) fail(method string, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("inventory request failed", zap.String("method", method), zap.Error(err))
	}
	return apperr.ToGRPC(err)
}

func (h *InventoryHandler) AdjustStock(ctx context.Context, req *backofficev1.AdjustStockRequest) (*model.StockMovement, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	m, err := h.uc.AdjustStock(ctx, rc, &dto.AdjustStockInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, h.fail("AdjustStock", err)
	}
	return m, nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *backofficev1.ListMovementsRequest) (*backofficev1.ListMovementsResponse, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	mvs, err := h.uc.ListMovements(ctx, rc, &dto.MovementFilters{
		ProductID: req.ProductID,
		Type:      model.MovementType(req.Type),
		Limit:     req.Limit,
	})
	if err != nil {
		return nil, h.fail("ListMovements", err)
	}
	return &backofficev1.ListMovementsResponse{Movements: mvs}, nil
}

func (h *InventoryHandler) GetInventoryReport(ctx context.Context, req *backofficev1.InventoryReportRequest) (*backofficev1.InventoryReportResponse, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	resp, err := BuildReport(ctx, h.uc, rc, req.Type)
	if err != nil {
		return nil, h.fail("GetInventoryReport", err)
	}
	return resp, nil
}

func (h *InventoryHandler) VerifyLedger(ctx context.Context, req *backofficev1.VerifyLedgerRequest) (*dto.LedgerCheck, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	check, err := h.uc.VerifyLedger(ctx, rc, req.ProductID)
	if err != nil {
		return nil, h.fail("VerifyLedger", err)
	}
	return check, nil
}

// BuildReport dispatches on the report type. Unknown types get the summary.
func BuildReport(ctx context.Context, uc inventory.UseCase, rc auth.RequestContext, reportType string) (*backofficev1.InventoryReportResponse, error) {
	resp := &backofficev1.InventoryReportResponse{Type: reportType}
	var err error
	switch reportType {
	case "low-stock":
		resp.LowStock, err = uc.LowStockReport(ctx, rc)
	case "valuation":
		resp.Valuation, err = uc.ValuationReport(ctx, rc)
	default:
		resp.Type = "summary"
		resp.Summary, err = uc.SummaryReport(ctx, rc)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
