package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomfleet/api/orderv1"
	"ecomfleet/pkg/idgen"
	"ecomfleet/services/order-svc/internal/repository"
	"ecomfleet/services/order-svc/internal/service"
)

func newTestGRPC() *GRPC {
	gen, _ := idgen.New(1)
	store := newFakeStore()
	order := service.New(store, &fakeInventory{}, gen)
	return NewGRPC(order)
}

func TestGRPC_AddOrder_Success(t *testing.T) {
	g := newTestGRPC()

	resp, err := g.AddOrder(context.Background(), &orderv1.AddOrderRequest{
		UserID: "user-1", ItemsID: 10, Price: 100, Count: 2, Currency: "CNY",
	})

	require.NoError(t, err)
	assert.Equal(t, orderv1.ResultSuccess, resp.Result)
}

func TestGRPC_AddOrder_RejectsInvalidCount(t *testing.T) {
	g := newTestGRPC()

	_, err := g.AddOrder(context.Background(), &orderv1.AddOrderRequest{
		UserID: "user-1", ItemsID: 10, Price: 100, Count: 0, Currency: "CNY",
	})

	assert.Error(t, err)
}

func TestGRPC_GetOrders_Success(t *testing.T) {
	g := newTestGRPC()
	_, err := g.AddOrder(context.Background(), &orderv1.AddOrderRequest{
		UserID: "user-1", ItemsID: 10, Price: 100, Count: 2, Currency: "CNY",
	})
	require.NoError(t, err)

	resp, err := g.GetOrders(context.Background(), &orderv1.GetOrdersRequest{UserID: "user-1", PageSize: 20})

	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "user-1", resp.Orders[0].UserID)
}
