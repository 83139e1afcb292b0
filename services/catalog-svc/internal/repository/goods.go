// Package repository implements the catalog service's read-only Postgres
// access, grounded on the original goods_server's db_access/db.rs.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"ecomfleet/pkg/apperror"
	"ecomfleet/pkg/database"
)

// Summary is the listing projection of a goods row.
type Summary struct {
	ID    int32
	Name  string
	Image string
}

// Detail is the full goods row returned by goods_detail. InventoryCount
// is always 0: the catalog service has no inventory dependency, matching
// the original goods_server (which hard-codes the same field).
type Detail struct {
	ID             int32
	Name           string
	Image          string
	UnitPrice      int32
	Description    string
	InventoryCount int32
}

// Goods is the catalog service's read-only goods store.
type Goods struct {
	db database.DB
}

// NewGoods builds a Goods repository over db.
func NewGoods(db database.DB) *Goods {
	return &Goods{db: db}
}

// ListSummaries returns a page of goods ordered by id.
func (r *Goods) ListSummaries(ctx context.Context, page, pageSize int64) ([]Summary, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := pageSize * page

	rows, err := r.db.Query(ctx,
		`SELECT id, name, image FROM goods ORDER BY id LIMIT $1 OFFSET $2`,
		pageSize, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to query goods")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Image); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to scan goods row")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed reading goods rows")
	}
	return out, nil
}

// GetDetail returns a single goods row by id.
func (r *Goods) GetDetail(ctx context.Context, goodsID int32) (*Detail, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, image, unit_price, description FROM goods WHERE id = $1`, goodsID)

	var d Detail
	if err := row.Scan(&d.ID, &d.Name, &d.Image, &d.UnitPrice, &d.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to query goods detail")
	}
	return &d, nil
}
