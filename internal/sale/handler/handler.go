package handler

import (
	"context"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale"
	"github.com/fekuna/omnipos-backoffice/internal/sale/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"go.uber.org/zap"
)

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SaleHandler) fail(method string, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("sale request failed", zap.String("method", method), zap.Error(err))
	}
	return apperr.ToGRPC(err)
}

// commitInput maps the wire request; shared by the gRPC and HTTP handlers.
func commitInput(req *backofficev1.CommitSaleRequest) *dto.CommitSaleInput {
	lines := make([]dto.SaleLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, dto.SaleLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return &dto.CommitSaleInput{
		Lines:            lines,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		Notes:            req.Notes,
	}
}

func (h *SaleHandler) CommitSale(ctx context.Context, req *backofficev1.CommitSaleRequest) (*model.Sale, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	s, err := h.uc.CommitSale(ctx, rc, commitInput(req))
	if err != nil {
		return nil, h.fail("CommitSale", err)
	}
	return s, nil
}

func (h *SaleHandler) GetSale(ctx context.Context, req *backofficev1.GetSaleRequest) (*model.Sale, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	s, err := h.uc.GetSale(ctx, rc, req.ID)
	if err != nil {
		return nil, h.fail("GetSale", err)
	}
	return s, nil
}

func (h *SaleHandler) ListSales(ctx context.Context, req *backofficev1.ListSalesRequest) (*backofficev1.ListSalesResponse, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	sales, err := h.uc.ListSales(ctx, rc, &dto.SaleFilters{
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Limit:         req.Limit,
	})
	if err != nil {
		return nil, h.fail("ListSales", err)
	}
	return &backofficev1.ListSalesResponse{Sales: sales}, nil
}
