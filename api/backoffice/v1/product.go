package backofficev1

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

const ProductServiceName = "backoffice.v1.ProductService"

type CreateProductRequest struct {
	CategoryID  string           `json:"category_id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Stock       int              `json:"stock"`
	MinStock    *int             `json:"min_stock,omitempty"`
	TrackStock  *bool            `json:"track_stock,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
}

type GetProductRequest struct {
	ID string `json:"id"`
}

type ListProductsRequest struct {
	CategoryID string `json:"category_id,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
	Search     string `json:"search,omitempty"`
	SortBy     string `json:"sort_by,omitempty"`
	SortOrder  string `json:"sort_order,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"page_size,omitempty"`
}

type ListProductsResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

// UpdateProductRequest carries no stock: stock only moves through sales and
// adjustments.
type UpdateProductRequest struct {
	ID          string           `json:"id"`
	CategoryID  *string          `json:"category_id,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	MinStock    *int             `json:"min_stock,omitempty"`
	TrackStock  *bool            `json:"track_stock,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
}

type DeleteProductRequest struct {
	ID string `json:"id"`
}

type ProductServiceServer interface {
	CreateProduct(context.Context, *CreateProductRequest) (*model.Product, error)
	GetProduct(context.Context, *GetProductRequest) (*model.Product, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	SearchProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(context.Context, *DeleteProductRequest) (*Empty, error)
}

var ProductServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ProductServiceName, "CreateProduct", ProductServiceServer.CreateProduct),
		unary(ProductServiceName, "GetProduct", ProductServiceServer.GetProduct),
		unary(ProductServiceName, "ListProducts", ProductServiceServer.ListProducts),
		unary(ProductServiceName, "SearchProducts", ProductServiceServer.SearchProducts),
		unary(ProductServiceName, "UpdateProduct", ProductServiceServer.UpdateProduct),
		unary(ProductServiceName, "DeleteProduct", ProductServiceServer.DeleteProduct),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "backoffice/v1/product",
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductServiceDesc, srv)
}
