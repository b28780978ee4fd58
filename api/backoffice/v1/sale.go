package backofficev1

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

const SaleServiceName = "backoffice.v1.SaleService"

type SaleLine struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // Defaults to the current product price
}

type CommitSaleRequest struct {
	Items            []SaleLine `json:"items"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentReference *string    `json:"payment_reference,omitempty"`
	CustomerName     *string    `json:"customer_name,omitempty"`
	CustomerEmail    *string    `json:"customer_email,omitempty"`
	CustomerPhone    *string    `json:"customer_phone,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
}

type GetSaleRequest struct {
	ID string `json:"id"`
}

type ListSalesRequest struct {
	PaymentMethod string `json:"payment_method,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

type ListSalesResponse struct {
	Sales []model.Sale `json:"sales"`
}

type SaleServiceServer interface {
	CommitSale(context.Context, *CommitSaleRequest) (*model.Sale, error)
	GetSale(context.Context, *GetSaleRequest) (*model.Sale, error)
	ListSales(context.Context, *ListSalesRequest) (*ListSalesResponse, error)
}

var SaleServiceDesc = grpc.ServiceDesc{
	ServiceName: SaleServiceName,
	HandlerType: (*SaleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(SaleServiceName, "CommitSale", SaleServiceServer.CommitSale),
		unary(SaleServiceName, "GetSale", SaleServiceServer.GetSale),
		unary(SaleServiceName, "ListSales", SaleServiceServer.ListSales),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "backoffice/v1/sale",
}

func RegisterSaleServiceServer(s grpc.ServiceRegistrar, srv SaleServiceServer) {
	s.RegisterService(&SaleServiceDesc, srv)
}
