package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomfleet/services/order-svc/internal/repository"
)

type fakeStore struct {
	outbox      []repository.OutboxRow
	orders      map[int32]*repository.Order
	completeErr error
	completed   []int32
}

func (f *fakeStore) ListOutbox(ctx context.Context) ([]repository.OutboxRow, error) {
	return f.outbox, nil
}

func (f *fakeStore) GetForReconcile(ctx context.Context, orderID int32) (*repository.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, assert.AnError
	}
	return o, nil
}

func (f *fakeStore) CompleteDeduction(ctx context.Context, orderID int32, success bool, payTimeMillis int64) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed = append(f.completed, orderID)
	f.outbox = removeOutbox(f.outbox, orderID)
	return nil
}

func removeOutbox(rows []repository.OutboxRow, orderID int32) []repository.OutboxRow {
	var out []repository.OutboxRow
	for _, r := range rows {
		if r.OrderID != orderID {
			out = append(out, r)
		}
	}
	return out
}

type fakeInventory struct {
	success bool
	err     error
	calls   int
}

func (f *fakeInventory) Deduct(ctx context.Context, inventoryID, count, orderID int32) (bool, error) {
	f.calls++
	return f.success, f.err
}

func TestReconciler_Tick_DrainsOutboxOnSuccess(t *testing.T) {
	store := &fakeStore{
		outbox: []repository.OutboxRow{{ID: 1, UserID: "user-1", OrderID: 7}},
		orders: map[int32]*repository.Order{7: {ID: 7, ItemID: 10, Count: 2}},
	}
	inv := &fakeInventory{success: true}
	r := New(store, inv, time.Second)

	r.tick(context.Background())

	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, []int32{7}, store.completed)
	assert.Empty(t, store.outbox)
}

func TestReconciler_Tick_LeavesRowOnDeductFailure(t *testing.T) {
	store := &fakeStore{
		outbox: []repository.OutboxRow{{ID: 1, UserID: "user-1", OrderID: 7}},
		orders: map[int32]*repository.Order{7: {ID: 7, ItemID: 10, Count: 2}},
	}
	inv := &fakeInventory{err: assert.AnError}
	r := New(store, inv, time.Second)

	r.tick(context.Background())

	assert.Equal(t, 1, inv.calls)
	assert.Empty(t, store.completed)
	require.Len(t, store.outbox, 1)
}

func TestReconciler_Tick_LeavesRowOnCompletionWriteFailure(t *testing.T) {
	store := &fakeStore{
		outbox:      []repository.OutboxRow{{ID: 1, UserID: "user-1", OrderID: 7}},
		orders:      map[int32]*repository.Order{7: {ID: 7, ItemID: 10, Count: 2}},
		completeErr: assert.AnError,
	}
	inv := &fakeInventory{success: true}
	r := New(store, inv, time.Second)

	r.tick(context.Background())

	assert.Equal(t, 1, inv.calls)
	assert.Empty(t, store.completed)
	require.Len(t, store.outbox, 1)
}

func TestReconciler_Tick_MultipleRows(t *testing.T) {
	store := &fakeStore{
		outbox: []repository.OutboxRow{
			{ID: 1, UserID: "user-1", OrderID: 7},
			{ID: 2, UserID: "user-2", OrderID: 8},
		},
		orders: map[int32]*repository.Order{
			7: {ID: 7, ItemID: 10, Count: 2},
			8: {ID: 8, ItemID: 11, Count: 1},
		},
	}
	inv := &fakeInventory{success: true}
	r := New(store, inv, time.Second)

	r.tick(context.Background())

	assert.Equal(t, 2, inv.calls)
	assert.ElementsMatch(t, []int32{7, 8}, store.completed)
}

func TestReconciler_New_DefaultsInterval(t *testing.T) {
	r := New(&fakeStore{}, &fakeInventory{}, 0)
	assert.Equal(t, 10*time.Second, r.interval)
}
