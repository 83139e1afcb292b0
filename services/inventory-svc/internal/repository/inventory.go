// Package repository implements the inventory engine's Postgres access
// (C4, spec.md §4.4), grounded on the original inventory_server's
// db_access/db.rs. Deduct fixes that source's idempotency-guard bug:
// "any prior ledger row for this order_id" is a non-empty check
// (len(rows) > 0), not the original's always-true `>= 0`.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"ecomfleet/pkg/apperror"
	"ecomfleet/pkg/database"
	"ecomfleet/pkg/metrics"
	"ecomfleet/pkg/telemetry"
)

// Inventory is a single stock row.
type Inventory struct {
	ID          int32
	Count       int32
	Description string
}

// Change is a ledger row recording one add/deduct operation.
type Change struct {
	ID               int32
	InventoryID      int32
	Count            int32
	DeductionOrderID *int32
	Description      string
}

// Store implements the inventory engine's persistence surface.
type Store struct {
	db database.DB
}

// NewStore builds a Store over db.
func NewStore(db database.DB) *Store {
	return &Store{db: db}
}

// Query returns the current row for inventoryID.
func (s *Store) Query(ctx context.Context, inventoryID int32) (*Inventory, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, count, description FROM inventory WHERE id = $1`, inventoryID)

	var inv Inventory
	if err := row.Scan(&inv.ID, &inv.Count, &inv.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to query inventory")
	}
	return &inv, nil
}

// History returns every ledger row touching inventoryID.
func (s *Store) History(ctx context.Context, inventoryID int32) ([]Change, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, inventory_id, count, deduction_order_id, description
		 FROM inventory_change WHERE inventory_id = $1 ORDER BY id`, inventoryID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to query inventory history")
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var c Change
		if err := rows.Scan(&c.ID, &c.InventoryID, &c.Count, &c.DeductionOrderID, &c.Description); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to scan inventory change row")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed reading inventory change rows")
	}
	return out, nil
}

// Add increases inventoryID's count by count, which must be strictly
// positive, and records the change in one transaction.
func (s *Store) Add(ctx context.Context, inventoryID, count int32, description string) error {
	if count <= 0 {
		return apperror.New(apperror.CodeBadRequest, "count must be > 0")
	}

	return database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE inventory SET count = count + $1 WHERE id = $2`, count, inventoryID)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to update inventory")
		}
		if tag.RowsAffected() == 0 {
			return apperror.New(apperror.CodeNotFound, "no such inventory")
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO inventory_change (count, inventory_id, description) VALUES ($1, $2, $3)`,
			count, inventoryID, description,
		); err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to record inventory change")
		}
		return nil
	})
}

// Deduct decreases inventoryID's count by count (> 0) for orderID,
// recording the ledger row keyed on orderID. A prior ledger row for the
// same orderID makes this call idempotent: it commits and returns nil
// without touching the count a second time.
//
// The ledger INSERT runs before the UPDATE and uses ON CONFLICT DO
// NOTHING against the unique index on deduction_order_id, rather than
// a preceding SELECT: Postgres aborts the whole transaction on a raw
// unique-violation error, so checking afterward would make the "loser"
// of a concurrent pair unable to commit its idempotent no-op. Ordering
// the insert first also guarantees the inventory count is only ever
// touched by whichever transaction actually wins the ledger row.
func (s *Store) Deduct(ctx context.Context, inventoryID, count, orderID int32, description string) error {
	ctx, span := telemetry.StartSpan(ctx, "inventory.Deduct",
		telemetry.WithAttributes(telemetry.InventoryAttributes(inventoryID, count)...))
	defer span.End()

	if count <= 0 {
		err := apperror.New(apperror.CodeBadRequest, "count must be > 0")
		telemetry.SetError(ctx, err)
		return err
	}
	delta := -count

	err := database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		var ledgerID int32
		err := tx.QueryRow(ctx,
			`INSERT INTO inventory_change (count, inventory_id, deduction_order_id, description)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (deduction_order_id) WHERE deduction_order_id IS NOT NULL DO NOTHING
			 RETURNING id`,
			delta, inventoryID, orderID, description,
		).Scan(&ledgerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// A ledger row for this order_id already exists: this
				// deduction was already applied. Idempotent success.
				metrics.Get().DeductionIdempotentHit.WithLabelValues("hit").Inc()
				telemetry.SetAttributes(ctx, telemetry.DeductionAttributes(orderID, inventoryID, true, true)...)
				return nil
			}
			return apperror.Wrap(err, apperror.CodeInternal, "failed to record deduction")
		}

		tag, err := tx.Exec(ctx, `UPDATE inventory SET count = count + $1 WHERE id = $2`, delta, inventoryID)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to update inventory")
		}
		if tag.RowsAffected() == 0 {
			return apperror.New(apperror.CodeNotFound, "no such inventory")
		}
		metrics.Get().DeductionIdempotentHit.WithLabelValues("applied").Inc()
		telemetry.SetAttributes(ctx, telemetry.DeductionAttributes(orderID, inventoryID, true, false)...)
		return nil
	})
	if err != nil {
		telemetry.SetError(ctx, err)
	}
	return err
}
