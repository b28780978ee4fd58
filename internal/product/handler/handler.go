package handler

import (
	"context"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/product"
	"github.com/fekuna/omnipos-backoffice/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"go.uber.org/zap"
)

var _ backofficev1.ProductServiceServer = (*ProductHandler)(nil)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) fail(method string, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("product request failed", zap.String("method", method), zap.Error(err))
	}
	return apperr.ToGRPC(err)
}

func createInput(req *backofficev1.CreateProductRequest) *dto.CreateProductInput {
	return &dto.CreateProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Cost:        req.Cost,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		TrackStock:  req.TrackStock,
		IsActive:    req.IsActive,
		ImageURL:    req.ImageURL,
	}
}

func updateInput(id string, req *backofficev1.UpdateProductRequest) *dto.UpdateProductInput {
	return &dto.UpdateProductInput{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Cost:        req.Cost,
		MinStock:    req.MinStock,
		TrackStock:  req.TrackStock,
		IsActive:    req.IsActive,
		ImageURL:    req.ImageURL,
	}
}

func listFilters(req *backofficev1.ListProductsRequest) *dto.ProductFilters {
	return &dto.ProductFilters{
		CategoryID: req.CategoryID,
		IsActive:   req.IsActive,
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *backofficev1.CreateProductRequest) (*model.Product, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	p, err := h.uc.CreateProduct(ctx, rc, createInput(req))
	if err != nil {
		return nil, h.fail("CreateProduct", err)
	}
	return p, nil
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *backofficev1.GetProductRequest) (*model.Product, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	p, err := h.uc.GetProduct(ctx, rc, req.ID)
	if err != nil {
		return nil, h.fail("GetProduct", err)
	}
	return p, nil
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *backofficev1.ListProductsRequest) (*backofficev1.ListProductsResponse, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	products, total, err := h.uc.ListProducts(ctx, rc, listFilters(req))
	if err != nil {
		return nil, h.fail("ListProducts", err)
	}
	return &backofficev1.ListProductsResponse{Products: products, Total: total}, nil
}

func (h *ProductHandler) SearchProducts(ctx context.Context, req *backofficev1.ListProductsRequest) (*backofficev1.ListProductsResponse, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	products, total, err := h.uc.SearchProducts(ctx, rc, listFilters(req))
	if err != nil {
		return nil, h.fail("SearchProducts", err)
	}
	return &backofficev1.ListProductsResponse{Products: products, Total: total}, nil
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *backofficev1.UpdateProductRequest) (*model.Product, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	p, err := h.uc.UpdateProduct(ctx, rc, updateInput(req.ID, req))
	if err != nil {
		return nil, h.fail("UpdateProduct", err)
	}
	return p, nil
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *backofficev1.DeleteProductRequest) (*backofficev1.Empty, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	if err := h.uc.DeleteProduct(ctx, rc, req.ID); err != nil {
		return nil, h.fail("DeleteProduct", err)
	}
	return &backofficev1.Empty{}, nil
}
