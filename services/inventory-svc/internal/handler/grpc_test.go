package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecomfleet/api/inventoryv1"
	"ecomfleet/pkg/apperror"
	"ecomfleet/services/inventory-svc/internal/repository"
	"ecomfleet/services/inventory-svc/internal/service"
)

type deductErrStore struct {
	*fakeStore
	err error
}

func (d *deductErrStore) Deduct(ctx context.Context, inventoryID, count, orderID int32, description string) error {
	return d.err
}

func TestGRPC_DeductionInventory_Success(t *testing.T) {
	store := &fakeStore{inv: map[int32]*repository.Inventory{1: {ID: 1, Count: 40}}}
	g := NewGRPC(service.New(store))

	resp, err := g.DeductionInventory(context.Background(), &inventoryv1.DeductionInventoryRequest{
		InventoryID: 1, DeductionCount: 5, OrdersID: 42,
	})

	require.NoError(t, err)
	assert.Equal(t, inventoryv1.ResultSuccess, resp.Result)
}

func TestGRPC_DeductionInventory_NotFound(t *testing.T) {
	base := &fakeStore{inv: map[int32]*repository.Inventory{}}
	store := &deductErrStore{fakeStore: base, err: apperror.ErrNotFound}
	g := NewGRPC(service.New(store))

	_, err := g.DeductionInventory(context.Background(), &inventoryv1.DeductionInventoryRequest{
		InventoryID: 99, DeductionCount: 5, OrdersID: 1,
	})

	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
