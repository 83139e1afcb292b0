// Package client implements order-svc's outbound RPC to the inventory
// engine (C4): discovery-resolve the inventory service's address, then
// invoke DeductionInventory over the hand-written JSON gRPC codec.
// Grounded on order_server's db_access/repo.rs (deduction_inventory_call)
// and consul_api/consul.rs's address-resolution step, re-targeted at the
// shared pkg/registry client instead of a bespoke Consul wrapper.
package client

import (
	"context"
	"fmt"
	"time"

	grpc_retry "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"

	"ecomfleet/api/inventoryv1"
	"ecomfleet/pkg/registry"
	"ecomfleet/pkg/rpc"
)

// Resolver is the subset of registry.Client the inventory client needs.
type Resolver interface {
	Resolve(ctx context.Context, kind registry.FilterKind, value string) (*registry.Service, error)
}

// Inventory resolves the inventory service via discovery on every call —
// no connection caching, matching the discovery client's stateless
// contract (spec.md §4.2): service instances may move between calls.
type Inventory struct {
	resolver    Resolver
	serviceID   string
	callTimeout time.Duration
}

// New builds an Inventory client. serviceID is the discovery-agent
// service id to resolve (the inventory service's registration id).
func New(resolver Resolver, serviceID string, callTimeout time.Duration) *Inventory {
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}
	return &Inventory{resolver: resolver, serviceID: serviceID, callTimeout: callTimeout}
}

// Deduct resolves the inventory service and invokes DeductionInventory.
// A non-nil error means no definitive result was obtained — discovery
// failure, dial failure, or RPC failure/timeout — and the caller MUST
// treat the order as still pending (spec.md §4.5 Phase B: "on failure or
// unknown: leave outbox row for the reconciler"). A nil error with
// success=false means the inventory side returned a definitive non-200
// result.
func (c *Inventory) Deduct(ctx context.Context, inventoryID, count, orderID int32) (success bool, err error) {
	resolveCtx, cancel := context.WithTimeout(ctx, time.Second)
	svc, err := c.resolver.Resolve(resolveCtx, registry.FilterByID, c.serviceID)
	cancel()
	if err != nil {
		return false, fmt.Errorf("resolve inventory service: %w", err)
	}
	if svc == nil {
		return false, fmt.Errorf("inventory service %q not found in discovery", c.serviceID)
	}

	addr := fmt.Sprintf("%s:%d", svc.Address, svc.Port)

	retryOpts := []grpc_retry.CallOption{
		grpc_retry.WithBackoff(grpc_retry.BackoffLinear(100 * time.Millisecond)),
		grpc_retry.WithCodes(codes.Unavailable, codes.DeadlineExceeded),
		grpc_retry.WithMax(2),
	}

	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		rpc.WithJSONCodec(),
		grpc.WithChainUnaryInterceptor(grpc_retry.UnaryClientInterceptor(retryOpts...)),
	)
	if err != nil {
		return false, fmt.Errorf("dial inventory service at %s: %w", addr, err)
	}
	defer conn.Close()

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	resp, err := inventoryv1.NewInventoryServiceClient(conn).DeductionInventory(callCtx, &inventoryv1.DeductionInventoryRequest{
		InventoryID:    inventoryID,
		DeductionCount: count,
		OrdersID:       orderID,
	})
	if err != nil {
		return false, fmt.Errorf("deduction inventory rpc: %w", err)
	}

	return resp.Result == inventoryv1.ResultSuccess, nil
}
