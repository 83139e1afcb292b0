// Package orderv1 holds the plain Go request/response types and gRPC
// wiring for the order service's gRPC surface (spec.md §6).
package orderv1

import (
	"context"

	"google.golang.org/grpc"
)

// Order mirrors the order data model (spec.md §3).
type Order struct {
	ID             int64  `json:"id"`
	UserID         string `json:"user_id"`
	ItemID         int32  `json:"item_id"`
	Price          int32  `json:"price"`
	Count          int32  `json:"count"`
	Currency       string `json:"currency"`
	SubTime        int64  `json:"sub_time"`
	PayTime        int64  `json:"pay_time"`
	Description    string `json:"description"`
	InventoryState int32  `json:"inventory_state"`
}

// Inventory state values (spec.md §3).
const (
	InventoryStateDoing   int32 = 0
	InventoryStateSuccess int32 = 1
	InventoryStateFail    int32 = 2
)

// GetOrdersRequest paginates a user's orders.
type GetOrdersRequest struct {
	UserID   string `json:"user_id"`
	Page     int64  `json:"page"`
	PageSize int64  `json:"page_size"`
}

// GetOrdersResponse wraps the page of orders.
type GetOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

// AddOrderRequest mirrors the REST /add_order body plus the caller
// identity the auth boundary attaches.
type AddOrderRequest struct {
	UserID      string `json:"user_id"`
	ItemsID     int32  `json:"items_id"`
	Price       int32  `json:"price"`
	Count       int32  `json:"count"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	OrderToken  int64  `json:"token"`
}

// AddOrderResponse carries the result code; 0 means success.
type AddOrderResponse struct {
	Result int32 `json:"result"`
}

const (
	// ResultSuccess is the definitive-success result code for AddOrder.
	ResultSuccess int32 = 0
)

// OrderServiceServer is implemented by the order service.
type OrderServiceServer interface {
	GetOrders(context.Context, *GetOrdersRequest) (*GetOrdersResponse, error)
	AddOrder(context.Context, *AddOrderRequest) (*AddOrderResponse, error)
}

// OrderServiceClient is the thin client for calling the order service.
type OrderServiceClient interface {
	GetOrders(ctx context.Context, req *GetOrdersRequest, opts ...grpc.CallOption) (*GetOrdersResponse, error)
	AddOrder(ctx context.Context, req *AddOrderRequest, opts ...grpc.CallOption) (*AddOrderResponse, error)
}

type orderServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOrderServiceClient builds a client bound to cc.
func NewOrderServiceClient(cc grpc.ClientConnInterface) OrderServiceClient {
	return &orderServiceClient{cc: cc}
}

func (c *orderServiceClient) GetOrders(ctx context.Context, req *GetOrdersRequest, opts ...grpc.CallOption) (*GetOrdersResponse, error) {
	resp := &GetOrdersResponse{}
	if err := c.cc.Invoke(ctx, "/orderv1.OrderService/GetOrders", req, resp, opts...); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *orderServiceClient) AddOrder(ctx context.Context, req *AddOrderRequest, opts ...grpc.CallOption) (*AddOrderResponse, error) {
	resp := &AddOrderResponse{}
	if err := c.cc.Invoke(ctx, "/orderv1.OrderService/AddOrder", req, resp, opts...); err != nil {
		return nil, err
	}
	return resp, nil
}

func getOrdersHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetOrdersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).GetOrders(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/orderv1.OrderService/GetOrders"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).GetOrders(ctx, req.(*GetOrdersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func addOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).AddOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/orderv1.OrderService/AddOrder"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).AddOrder(ctx, req.(*AddOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the hand-written equivalent of what protoc-gen-go-grpc
// would emit for OrderService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "orderv1.OrderService",
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetOrders", Handler: getOrdersHandler},
		{MethodName: "AddOrder", Handler: addOrderHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orderv1/order.proto",
}

// RegisterOrderServiceServer registers srv with s.
func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
