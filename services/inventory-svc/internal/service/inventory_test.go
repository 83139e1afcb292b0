package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomfleet/pkg/apperror"
	"ecomfleet/services/inventory-svc/internal/repository"
)

type fakeStore struct {
	inv       map[int32]*repository.Inventory
	changes   map[int32][]repository.Change
	deducted  map[int32]bool // by orderID
	deductErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		inv:      map[int32]*repository.Inventory{1: {ID: 1, Count: 40, Description: "widgets"}},
		changes:  map[int32][]repository.Change{},
		deducted: map[int32]bool{},
	}
}

func (f *fakeStore) Query(ctx context.Context, inventoryID int32) (*repository.Inventory, error) {
	inv, ok := f.inv[inventoryID]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return inv, nil
}

func (f *fakeStore) History(ctx context.Context, inventoryID int32) ([]repository.Change, error) {
	return f.changes[inventoryID], nil
}

func (f *fakeStore) Add(ctx context.Context, inventoryID, count int32, description string) error {
	if count <= 0 {
		return apperror.New(apperror.CodeBadRequest, "count must be > 0")
	}
	inv, ok := f.inv[inventoryID]
	if !ok {
		return apperror.ErrNotFound
	}
	inv.Count += count
	f.changes[inventoryID] = append(f.changes[inventoryID], repository.Change{
		InventoryID: inventoryID, Count: count, Description: description,
	})
	return nil
}

func (f *fakeStore) Deduct(ctx context.Context, inventoryID, count, orderID int32, description string) error {
	if f.deductErr != nil {
		return f.deductErr
	}
	if count <= 0 {
		return apperror.New(apperror.CodeBadRequest, "count must be > 0")
	}
	if f.deducted[orderID] {
		return nil
	}
	inv, ok := f.inv[inventoryID]
	if !ok {
		return apperror.ErrNotFound
	}
	inv.Count -= count
	f.deducted[orderID] = true
	return nil
}

func TestInventory_Query(t *testing.T) {
	store := newFakeStore()
	engine := New(store)

	inv, err := engine.Query(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int32(40), inv.Count)
}

func TestInventory_Add(t *testing.T) {
	store := newFakeStore()
	engine := New(store)

	err := engine.Add(context.Background(), 1, 10, "restock")

	require.NoError(t, err)
	assert.Equal(t, int32(50), store.inv[1].Count)
}

func TestInventory_Deduct_DecreasesOnce(t *testing.T) {
	store := newFakeStore()
	engine := New(store)

	require.NoError(t, engine.Deduct(context.Background(), 1, 5, 42, "from grpc."))
	assert.Equal(t, int32(35), store.inv[1].Count)

	// repeating the same order is idempotent: count does not move again
	require.NoError(t, engine.Deduct(context.Background(), 1, 5, 42, "from grpc."))
	assert.Equal(t, int32(35), store.inv[1].Count)
}

func TestInventory_Deduct_UnknownInventory(t *testing.T) {
	store := newFakeStore()
	engine := New(store)

	err := engine.Deduct(context.Background(), 99, 5, 1, "from grpc.")

	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}
