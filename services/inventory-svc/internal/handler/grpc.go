// Package handler implements inventory-svc's REST and gRPC surfaces
// (spec.md §6), grounded on inventory_server's handlers/{rest,grpc}.rs.
package handler

import (
	"context"

	"ecomfleet/api/inventoryv1"
	"ecomfleet/pkg/apperror"
	"ecomfleet/services/inventory-svc/internal/service"
)

// GRPC implements inventoryv1.InventoryServiceServer.
type GRPC struct {
	inventory *service.Inventory
}

// NewGRPC builds a gRPC handler set.
func NewGRPC(inventory *service.Inventory) *GRPC {
	return &GRPC{inventory: inventory}
}

// DeductionInventory is the gRPC entry point used by order-svc's Phase B
// RPC and its reconciler.
func (g *GRPC) DeductionInventory(ctx context.Context, req *inventoryv1.DeductionInventoryRequest) (*inventoryv1.DeductionInventoryResponse, error) {
	err := g.inventory.Deduct(ctx, req.InventoryID, req.DeductionCount, req.OrdersID, "from grpc.")
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &inventoryv1.DeductionInventoryResponse{Result: inventoryv1.ResultSuccess}, nil
}
