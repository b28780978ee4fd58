package sale

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale/dto"
)

type UseCase interface {
	CommitSale(ctx context.Context, rc auth.RequestContext, input *dto.CommitSaleInput) (*model.Sale, error)
	GetSale(ctx context.Context, rc auth.RequestContext, id string) (*model.Sale, error)
	ListSales(ctx context.Context, rc auth.RequestContext, filters *dto.SaleFilters) ([]model.Sale, error)
}
