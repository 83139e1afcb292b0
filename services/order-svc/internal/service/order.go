// Package service implements the order engine's public contract (C5,
// spec.md §4.5): order creation inside a local transaction that also
// writes an outbox row, a synchronous best-effort inventory RPC, and the
// token primitive used for idempotency tags. Grounded on order_server's
// handlers/{rest,grpc}.rs, with the discovery/RPC plumbing replaced by
// this fleet's shared pkg/registry + pkg/rpc stack.
package service

import (
	"context"
	"time"

	"ecomfleet/api/orderv1"
	"ecomfleet/pkg/apperror"
	"ecomfleet/pkg/idgen"
	"ecomfleet/pkg/logger"
	"ecomfleet/pkg/telemetry"
	"ecomfleet/services/order-svc/internal/repository"
)

// Store is the persistence surface the order engine needs.
type Store interface {
	List(ctx context.Context, userID string, page, pageSize int64) ([]repository.Order, error)
	Get(ctx context.Context, orderID int32) (*repository.Order, error)
	CreatePending(ctx context.Context, userID string, itemID, price, count int32, currency, description string, subTimeMillis int64) (int32, error)
	CompleteDeduction(ctx context.Context, orderID int32, success bool, payTimeMillis int64) error
}

// InventoryClient is the downstream RPC surface for Phase B.
type InventoryClient interface {
	Deduct(ctx context.Context, inventoryID, count, orderID int32) (success bool, err error)
}

// AddOrderResult is the REST response body for a successful placement.
type AddOrderResult struct {
	Description string `json:"description"`
}

// Order implements the order engine.
type Order struct {
	store     Store
	inventory InventoryClient
	idgen     *idgen.Generator
}

// New builds an Order engine.
func New(store Store, inventory InventoryClient, idgen *idgen.Generator) *Order {
	return &Order{store: store, inventory: inventory, idgen: idgen}
}

// List returns one page of userID's orders as the wire Order shape.
func (o *Order) List(ctx context.Context, userID string, page, pageSize int64) ([]*orderv1.Order, error) {
	rows, err := o.store.List(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]*orderv1.Order, len(rows))
	for i, r := range rows {
		out[i] = toWireOrder(r)
	}
	return out, nil
}

// RequestToken issues a fresh idempotency tag. The order placement
// algorithm does not itself validate or consume this token (spec.md
// §4.5/§9 notes the source never wired its validation either); it exists
// for clients that want to pre-reserve one before submitting.
func (o *Order) RequestToken() int64 {
	return o.idgen.Next()
}

// PlaceOrder runs Phase A (insert order + outbox row, atomically) and
// then attempts Phase B synchronously (spec.md §4.5): a downstream RPC
// failure here is never surfaced to the caller — the order is accepted
// in DOING state and the reconciler drives it to a terminal state.
func (o *Order) PlaceOrder(ctx context.Context, userID string, req *orderv1.AddOrderRequest) (*AddOrderResult, error) {
	if req.Count <= 0 {
		return nil, apperror.New(apperror.CodeBadRequest, "count must be > 0")
	}
	if req.Currency == "" {
		return nil, apperror.New(apperror.CodeBadRequest, "currency is required")
	}

	orderID, err := o.store.CreatePending(ctx, userID, req.ItemsID, req.Price, req.Count, req.Currency, req.Description, time.Now().UnixMilli())
	if err != nil {
		return nil, err
	}

	o.tryDeduct(ctx, orderID, req.ItemsID, req.Count)

	return &AddOrderResult{Description: "add successed."}, nil
}

// tryDeduct is Phase B. It never returns an error to its caller: a
// downstream failure here just leaves the outbox row for the reconciler.
func (o *Order) tryDeduct(ctx context.Context, orderID, itemID, count int32) {
	ctx, span := telemetry.StartSpan(ctx, "order.tryDeduct",
		telemetry.WithAttributes(telemetry.OrderAttributes(int64(orderID), itemID, count, repository.StateDoing)...))
	defer span.End()

	success, err := o.inventory.Deduct(ctx, itemID, count, orderID)
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.Log.Warn("phase B deduction RPC did not complete, leaving outbox row for reconciler",
			"order_id", orderID, "error", err)
		return
	}
	telemetry.SetAttributes(ctx, telemetry.DeductionAttributes(orderID, itemID, success, false)...)

	if err := o.store.CompleteDeduction(ctx, orderID, success, time.Now().UnixMilli()); err != nil {
		telemetry.SetError(ctx, err)
		logger.Log.Warn("phase B completion write failed, reconciler will retry",
			"order_id", orderID, "error", err)
	}
}

func toWireOrder(r repository.Order) *orderv1.Order {
	return &orderv1.Order{
		ID:             int64(r.ID),
		UserID:         r.UserID,
		ItemID:         r.ItemID,
		Price:          r.Price,
		Count:          r.Count,
		Currency:       r.Currency,
		SubTime:        r.SubTime,
		PayTime:        r.PayTime,
		Description:    r.Description,
		InventoryState: r.InventoryState,
	}
}
