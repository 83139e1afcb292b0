package handler

import (
	"context"

	"ecomfleet/api/orderv1"
	"ecomfleet/pkg/apperror"
	"ecomfleet/services/order-svc/internal/service"
)

// GRPC implements orderv1.OrderServiceServer.
type GRPC struct {
	order *service.Order
}

// NewGRPC builds a gRPC handler set.
func NewGRPC(order *service.Order) *GRPC {
	return &GRPC{order: order}
}

// GetOrders mirrors the REST list_orders endpoint.
func (g *GRPC) GetOrders(ctx context.Context, req *orderv1.GetOrdersRequest) (*orderv1.GetOrdersResponse, error) {
	orders, err := g.order.List(ctx, req.UserID, req.Page, req.PageSize)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &orderv1.GetOrdersResponse{Orders: orders}, nil
}

// AddOrder mirrors the REST add_order endpoint. The gRPC surface carries
// user_id directly on the request rather than via a bearer token: the
// auth boundary (C6) is REST-middleware-only per spec.md §4.6, so a gRPC
// caller is trusted to supply an already-authenticated user id.
func (g *GRPC) AddOrder(ctx context.Context, req *orderv1.AddOrderRequest) (*orderv1.AddOrderResponse, error) {
	_, err := g.order.PlaceOrder(ctx, req.UserID, req)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &orderv1.AddOrderResponse{Result: orderv1.ResultSuccess}, nil
}
