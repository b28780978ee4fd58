package product

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, rc auth.RequestContext, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, rc auth.RequestContext, id string) (*model.Product, error)
	ListProducts(ctx context.Context, rc auth.RequestContext, filters *dto.ProductFilters) ([]model.Product, int, error)
	SearchProducts(ctx context.Context, rc auth.RequestContext, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, rc auth.RequestContext, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, rc auth.RequestContext, id string) error
}
