package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomfleet/pkg/database"
)

type pgxMockAdapter struct {
	mock pgxmock.PgxPoolIface
}

func (a *pgxMockAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return a.mock.Exec(ctx, sql, args...)
}

func (a *pgxMockAdapter) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return a.mock.Query(ctx, sql, args...)
}

func (a *pgxMockAdapter) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return a.mock.QueryRow(ctx, sql, args...)
}

func (a *pgxMockAdapter) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return a.mock.BeginTx(ctx, txOptions)
}

func (a *pgxMockAdapter) Close() {
	a.mock.Close()
}

func (a *pgxMockAdapter) Ping(ctx context.Context) error {
	return a.mock.Ping(ctx)
}

func setupMockStore(t *testing.T) (pgxmock.PgxPoolIface, pgxmock.PgxPoolIface, *Store) {
	primary, err := pgxmock.NewPool()
	require.NoError(t, err)
	local, err := pgxmock.NewPool()
	require.NoError(t, err)

	var db database.DB = &pgxMockAdapter{mock: primary}
	var localDB database.DB = &pgxMockAdapter{mock: local}
	return primary, local, NewStore(db, localDB)
}

func TestStore_CreatePending_Success(t *testing.T) {
	primary, local, store := setupMockStore(t)
	defer primary.Close()
	defer local.Close()

	primary.ExpectBegin()
	primary.ExpectQuery(`INSERT INTO orders`).
		WithArgs("user-1", int32(10), int32(100), int32(2), "CNY", int64(1000), "", StateDoing).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int32(7)))
	primary.ExpectExec(`INSERT INTO orders_de_inventory_msg`).
		WithArgs("user-1", int32(7)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	primary.ExpectCommit()

	orderID, err := store.CreatePending(context.Background(), "user-1", 10, 100, 2, "CNY", "", 1000)

	require.NoError(t, err)
	assert.Equal(t, int32(7), orderID)
	assert.NoError(t, primary.ExpectationsWereMet())
}

func TestStore_CompleteDeduction_Success(t *testing.T) {
	primary, local, store := setupMockStore(t)
	defer primary.Close()
	defer local.Close()

	local.ExpectBegin()
	local.ExpectExec(`DELETE FROM orders_de_inventory_msg`).
		WithArgs(int32(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	local.ExpectExec(`UPDATE orders SET inventory_state`).
		WithArgs(StateSuccess, int64(2000), int32(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	local.ExpectCommit()

	err := store.CompleteDeduction(context.Background(), 7, true, 2000)

	require.NoError(t, err)
	assert.NoError(t, local.ExpectationsWereMet())
}

func TestStore_ListOutbox(t *testing.T) {
	_, local, store := setupMockStore(t)
	defer local.Close()

	local.ExpectQuery(`SELECT id, user_id, order_id FROM orders_de_inventory_msg`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "order_id"}).
			AddRow(int32(1), "user-1", int32(7)))

	rows, err := store.ListOutbox(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(7), rows[0].OrderID)
	assert.NoError(t, local.ExpectationsWereMet())
}

func TestStore_List(t *testing.T) {
	primary, _, store := setupMockStore(t)
	defer primary.Close()

	primary.ExpectQuery(`SELECT id, user_id, item_id, price, count, currency, sub_time, pay_time, description, inventory_state`).
		WithArgs("user-1", int64(20), int64(0)).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "user_id", "item_id", "price", "count", "currency", "sub_time", "pay_time", "description", "inventory_state"}).
			AddRow(int32(7), "user-1", int32(10), int32(100), int32(2), "CNY", int64(1000), int64(0), "", StateDoing))

	orders, err := store.List(context.Background(), "user-1", 0, 20)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int32(7), orders[0].ID)
	assert.NoError(t, primary.ExpectationsWereMet())
}

func TestStore_Get_NotFound(t *testing.T) {
	primary, _, store := setupMockStore(t)
	defer primary.Close()

	primary.ExpectQuery(`SELECT id, user_id, item_id, price, count, currency, sub_time, pay_time, description, inventory_state`).
		WithArgs(int32(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Get(context.Background(), 99)

	assert.Error(t, err)
	assert.NoError(t, primary.ExpectationsWereMet())
}
