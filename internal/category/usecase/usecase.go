package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/category"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/fekuna/omnipos-backoffice/pkg/slug"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportInvalidator drops cached inventory reports; valuation rows carry the
// category name.
type ReportInvalidator interface {
	InvalidateReports(ctx context.Context, storeID string)
}

type categoryUseCase struct {
	repo    category.Repository
	reports ReportInvalidator
	logger  logger.ZapLogger
	now     func() time.Time
}

func NewCategoryUseCase(repo category.Repository, reports ReportInvalidator, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:    repo,
		reports: reports,
		logger:  log,
		now:     time.Now,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, rc auth.RequestContext, input *dto.CreateCategoryInput) (*model.Category, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.ErrNameRequired
	}

	now := uc.now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		StoreID:     rc.StoreID,
		Name:        name,
		Slug:        slug.Make(name),
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	uc.logger.Info("category created", zap.String("store_id", rc.StoreID), zap.String("category_id", cat.ID))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, rc auth.RequestContext, id string) (*model.Category, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.FindByID(ctx, rc.StoreID, id)
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, rc auth.RequestContext, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	if err := rc.Validate(); err != nil {
		return nil, 0, err
	}
	f := *filters
	f.StoreID = rc.StoreID
	if f.Page < 1 {
		f.Page = 1
	}
	return uc.repo.FindAll(ctx, &f)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, rc auth.RequestContext, input *dto.UpdateCategoryInput) (*model.Category, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	cat, err := uc.repo.FindByID(ctx, rc.StoreID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.ErrNameRequired
		}
		cat.Name = name
		cat.Slug = slug.Make(name)
	}
	if input.Description != nil {
		cat.Description = input.Description
	}
	if input.ImageURL != nil {
		cat.ImageURL = input.ImageURL
	}
	cat.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	uc.reports.InvalidateReports(ctx, rc.StoreID)
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, rc auth.RequestContext, id string) error {
	if err := rc.Validate(); err != nil {
		return err
	}
	if _, err := uc.repo.FindByID(ctx, rc.StoreID, id); err != nil {
		return err
	}

	n, err := uc.repo.CountProducts(ctx, rc.StoreID, id)
	if err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if n > 0 {
		return apperr.CategoryInUse(id, n)
	}

	if err := uc.repo.Delete(ctx, rc.StoreID, id); err != nil {
		return err
	}
	uc.logger.Info("category deleted", zap.String("store_id", rc.StoreID), zap.String("category_id", id))
	return nil
}
