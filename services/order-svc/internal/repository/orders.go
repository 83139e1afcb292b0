// Package repository implements the order engine's Postgres access (C5,
// spec.md §4.5), grounded on order_server's db_access/db.rs. Phase A
// (order + outbox insert) and Phase B completion (outbox delete + state
// update) are each a single local transaction, per spec.md's outbox
// pattern; the two phases intentionally run against separate pools (see
// Store's doc comment).
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"ecomfleet/pkg/apperror"
	"ecomfleet/pkg/database"
)

// Order is a single order row.
type Order struct {
	ID             int32
	UserID         string
	ItemID         int32
	Price          int32
	Count          int32
	Currency       string
	SubTime        int64
	PayTime        int64
	Description    string
	InventoryState int32
}

// OutboxRow is a durable intent row: its existence means the inventory
// deduction for OrderID may not yet be reflected downstream.
type OutboxRow struct {
	ID      int32
	UserID  string
	OrderID int32
}

// Inventory state values (spec.md §3).
const (
	StateDoing   int32 = 0
	StateSuccess int32 = 1
	StateFail    int32 = 2
)

// Store implements the order engine's persistence surface over two
// pools: db backs the synchronous request path (order reads, Phase A),
// localDB backs Phase B completion and the reconciler. Both may point at
// the same database (spec.md §6: DATABASE_URL_LOCAL "may be identical");
// splitting them lets the reconciler's polling load run on a pool the
// request path never contends with.
type Store struct {
	db      database.DB
	localDB database.DB
}

// NewStore builds a Store.
func NewStore(db, localDB database.DB) *Store {
	return &Store{db: db, localDB: localDB}
}

// List returns one page of userID's orders, ordered by insertion.
func (s *Store) List(ctx context.Context, userID string, page, pageSize int64) ([]Order, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := pageSize * page

	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, item_id, price, count, currency, sub_time, pay_time, description, inventory_state
		 FROM orders WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		userID, pageSize, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to query orders")
	}
	defer rows.Close()

	return scanOrders(rows)
}

// Get returns order orderID via the primary pool, for request-path reads.
func (s *Store) Get(ctx context.Context, orderID int32) (*Order, error) {
	return s.get(ctx, s.db, orderID)
}

// getLocal returns order orderID via the local pool, for the reconciler.
func (s *Store) getLocal(ctx context.Context, orderID int32) (*Order, error) {
	return s.get(ctx, s.localDB, orderID)
}

func (s *Store) get(ctx context.Context, db database.DB, orderID int32) (*Order, error) {
	row := db.QueryRow(ctx,
		`SELECT id, user_id, item_id, price, count, currency, sub_time, pay_time, description, inventory_state
		 FROM orders WHERE id = $1`, orderID)

	var o Order
	if err := row.Scan(&o.ID, &o.UserID, &o.ItemID, &o.Price, &o.Count, &o.Currency,
		&o.SubTime, &o.PayTime, &o.Description, &o.InventoryState); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to query order")
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ItemID, &o.Price, &o.Count, &o.Currency,
			&o.SubTime, &o.PayTime, &o.Description, &o.InventoryState); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to scan order row")
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed reading order rows")
	}
	return out, nil
}

// CreatePending is Phase A: insert the order in state DOING and its
// outbox row, atomically, on the primary pool. subTimeMillis is the
// caller-supplied submission timestamp (epoch milliseconds).
func (s *Store) CreatePending(ctx context.Context, userID string, itemID, price, count int32, currency, description string, subTimeMillis int64) (int32, error) {
	var orderID int32
	err := database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO orders (user_id, item_id, price, count, currency, sub_time, pay_time, description, inventory_state)
			 VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8) RETURNING id`,
			userID, itemID, price, count, currency, subTimeMillis, description, StateDoing,
		).Scan(&orderID)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to insert order")
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO orders_de_inventory_msg (user_id, order_id) VALUES ($1, $2)`,
			userID, orderID,
		); err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to insert outbox row")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// CompleteDeduction is Phase B's completion step: delete the outbox row
// for orderID and set the order's definitive inventory_state, atomically,
// on the local pool. Both statements commit together; if either fails the
// reconciler will see the outbox row again and retry — deduction at the
// inventory side is idempotent, so a retry is always safe.
func (s *Store) CompleteDeduction(ctx context.Context, orderID int32, success bool, payTimeMillis int64) error {
	state := StateFail
	if success {
		state = StateSuccess
	}

	return database.WithTransaction(ctx, s.localDB, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM orders_de_inventory_msg WHERE order_id = $1`, orderID,
		); err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to delete outbox row")
		}

		if _, err := tx.Exec(ctx,
			`UPDATE orders SET inventory_state = $1, pay_time = $2 WHERE id = $3`,
			state, payTimeMillis, orderID,
		); err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to update order state")
		}
		return nil
	})
}

// ListOutbox returns every undelivered outbox row, via the local pool.
func (s *Store) ListOutbox(ctx context.Context) ([]OutboxRow, error) {
	rows, err := s.localDB.Query(ctx, `SELECT id, user_id, order_id FROM orders_de_inventory_msg ORDER BY id`)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to query outbox")
	}
	defer rows.Close()

	var out []OutboxRow
	for rows.Next() {
		var o OutboxRow
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderID); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to scan outbox row")
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed reading outbox rows")
	}
	return out, nil
}

// GetForReconcile returns the order behind an outbox row, via the local
// pool the reconciler runs against.
func (s *Store) GetForReconcile(ctx context.Context, orderID int32) (*Order, error) {
	return s.getLocal(ctx, orderID)
}
