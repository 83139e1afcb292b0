// Package service implements the inventory engine's public contract
// (C4, spec.md §4.4): deduct, add, query, history.
package service

import (
	"context"

	"ecomfleet/services/inventory-svc/internal/repository"
)

// Store is the persistence surface the inventory engine needs.
type Store interface {
	Query(ctx context.Context, inventoryID int32) (*repository.Inventory, error)
	History(ctx context.Context, inventoryID int32) ([]repository.Change, error)
	Add(ctx context.Context, inventoryID, count int32, description string) error
	Deduct(ctx context.Context, inventoryID, count, orderID int32, description string) error
}

// Inventory implements the inventory engine over a Store.
type Inventory struct {
	store Store
}

// New builds an Inventory engine.
func New(store Store) *Inventory {
	return &Inventory{store: store}
}

// Query returns the current inventory row.
func (i *Inventory) Query(ctx context.Context, inventoryID int32) (*repository.Inventory, error) {
	return i.store.Query(ctx, inventoryID)
}

// History returns every ledger row for inventoryID.
func (i *Inventory) History(ctx context.Context, inventoryID int32) ([]repository.Change, error) {
	return i.store.History(ctx, inventoryID)
}

// Add increases stock. count must be strictly positive.
func (i *Inventory) Add(ctx context.Context, inventoryID, count int32, description string) error {
	return i.store.Add(ctx, inventoryID, count, description)
}

// Deduct reserves stock for orderID. Idempotent: repeating the same
// orderID is a no-op success, never a distinct status.
func (i *Inventory) Deduct(ctx context.Context, inventoryID, count, orderID int32, description string) error {
	return i.store.Deduct(ctx, inventoryID, count, orderID, description)
}
