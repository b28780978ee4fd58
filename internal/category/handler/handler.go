package handler

import (
	"context"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/category"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"go.uber.org/zap"
)

var _ backofficev1.CategoryServiceServer = (*CategoryHandler)(nil)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) fail(method string, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("category request failed", zap.String("method", method), zap.Error(err))
	}
	return apperr.ToGRPC(err)
}

func (h *CategoryHandler) CreateCategory(ctx context.Context, req *backofficev1.CreateCategoryRequest) (*model.Category, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	cat, err := h.uc.CreateCategory(ctx, rc, &dto.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return nil, h.fail("CreateCategory", err)
	}
	return cat, nil
}

func (h *CategoryHandler) GetCategory(ctx context.Context, req *backofficev1.GetCategoryRequest) (*model.Category, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	cat, err := h.uc.GetCategory(ctx, rc, req.ID)
	if err != nil {
		return nil, h.fail("GetCategory", err)
	}
	return cat, nil
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *backofficev1.ListCategoriesRequest) (*backofficev1.ListCategoriesResponse, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	cats, count, err := h.uc.ListCategories(ctx, rc, &dto.CategoryFilters{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, h.fail("ListCategories", err)
	}
	return &backofficev1.ListCategoriesResponse{Categories: cats, Total: count}, nil
}

func (h *CategoryHandler) UpdateCategory(ctx context.Context, req *backofficev1.UpdateCategoryRequest) (*model.Category, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	cat, err := h.uc.UpdateCategory(ctx, rc, &dto.UpdateCategoryInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return nil, h.fail("UpdateCategory", err)
	}
	return cat, nil
}

func (h *CategoryHandler) DeleteCategory(ctx context.Context, req *backofficev1.DeleteCategoryRequest) (*backofficev1.Empty, error) {
	rc, err := auth.FromContext(ctx)
	if err != nil {
		return nil, apperr.ToGRPC(err)
	}

	if err := h.uc.DeleteCategory(ctx, rc, req.ID); err != nil {
		return nil, h.fail("DeleteCategory", err)
	}
	return &backofficev1.Empty{}, nil
}
