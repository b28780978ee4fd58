package backofficev1

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/inventory/dto"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/report"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"google.golang.org/grpc"
)

const InventoryServiceName = "backoffice.v1.InventoryService"

type AdjustStockRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Reason    string  `json:"reason"`
	Notes     *string `json:"notes,omitempty"`
}

type ListMovementsRequest struct {
	ProductID string `json:"product_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type ListMovementsResponse struct {
	Movements []model.StockMovement `json:"movements"`
}

type InventoryReportRequest struct {
	Type string `json:"type"` // summary (default), low-stock or valuation
}

type InventoryReportResponse struct {
	Type      string                  `json:"type"`
	Summary   *report.Summary         `json:"summary,omitempty"`
	LowStock  *report.LowStockReport  `json:"low_stock,omitempty"`
	Valuation *report.ValuationReport `json:"valuation,omitempty"`
}

type VerifyLedgerRequest struct {
	ProductID string `json:"product_id"`
}

type InventoryServiceServer interface {
	AdjustStock(context.Context, *AdjustStockRequest) (*model.StockMovement, error)
	ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error)
	GetInventoryReport(context.Context, *InventoryReportRequest) (*InventoryReportResponse, error)
	VerifyLedger(context.Context, *VerifyLedgerRequest) (*dto.LedgerCheck, error)
}

var InventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(InventoryServiceName, "AdjustStock", InventoryServiceServer.AdjustStock),
		unary(InventoryServiceName, "ListMovements", InventoryServiceServer.ListMovements),
		unary(InventoryServiceName, "GetInventoryReport", InventoryServiceServer.GetInventoryReport),
		unary(InventoryServiceName, "VerifyLedger", InventoryServiceServer.VerifyLedger),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "backoffice/v1/inventory",
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryServiceDesc, srv)
}
