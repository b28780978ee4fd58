package category

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, rc auth.RequestContext, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, rc auth.RequestContext, id string) (*model.Category, error)
	ListCategories(ctx context.Context, rc auth.RequestContext, filters *dto.CategoryFilters) ([]model.Category, int, error)
	UpdateCategory(ctx context.Context, rc auth.RequestContext, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, rc auth.RequestContext, id string) error
}
