package handler

import (
	"context"
	"net"
	"testing"
	"time"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/events"
	"github.com/fekuna/omnipos-backoffice/internal/inventory/inventorytest"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/sale/usecase"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/fekuna/omnipos-backoffice/pkg/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func dialSaleService(t *testing.T, store *inventorytest.Store, verifier *auth.JWTVerifier) *grpc.ClientConn {
	t.Helper()
	log := logger.NewNop()
	uc := usecase.NewSaleUseCase(store.SaleRepository(), noReports{}, events.NoopPublisher{}, usecase.Options{}, log)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware.RecoveryInterceptor(log),
		verifier.UnaryServerInterceptor(),
	))
	backofficev1.RegisterSaleServiceServer(srv, NewSaleHandler(uc, log))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(backofficev1.CodecName)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestCommitSaleGRPC(t *testing.T) {
	store := inventorytest.NewStore()
	p := model.Product{StoreID: "s1", Name: "Mouse", Price: decimal.NewFromInt(8), Stock: 3, TrackStock: true, IsActive: true}
	p.ID = "m"
	store.AddProduct(p)

	verifier := auth.NewJWTVerifier("test-secret")
	token, err := verifier.Issue(auth.RequestContext{StoreID: "s1", UserID: "u1", Role: "CASHIER"}, time.Hour)
	require.NoError(t, err)
	conn := dialSaleService(t, store, verifier)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
	commit := "/" + backofficev1.SaleServiceName + "/CommitSale"

	var sale model.Sale
	err = conn.Invoke(ctx, commit, &backofficev1.CommitSaleRequest{
		Items:         []backofficev1.SaleLine{{ProductID: "m", Quantity: 2}},
		PaymentMethod: "cash",
	}, &sale)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCash, sale.PaymentMethod)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(16)))
	require.Len(t, sale.Items, 1)

	t.Run("oversell is a failed precondition", func(t *testing.T) {
		err := conn.Invoke(ctx, commit, &backofficev1.CommitSaleRequest{
			Items:         []backofficev1.SaleLine{{ProductID: "m", Quantity: 2}},
			PaymentMethod: "cash",
		}, &model.Sale{})
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
		assert.Equal(t, 1, store.Product("m").Stock)
	})

	t.Run("missing token", func(t *testing.T) {
		err := conn.Invoke(context.Background(), commit, &backofficev1.CommitSaleRequest{}, &model.Sale{})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("get from another store is not found", func(t *testing.T) {
		other, err := verifier.Issue(auth.RequestContext{StoreID: "s2", UserID: "u2"}, time.Hour)
		require.NoError(t, err)
		octx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+other)
		err = conn.Invoke(octx, "/"+backofficev1.SaleServiceName+"/GetSale", &backofficev1.GetSaleRequest{ID: sale.ID}, &model.Sale{})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}
