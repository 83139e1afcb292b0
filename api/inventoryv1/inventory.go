// Package inventoryv1 holds the plain Go request/response types and gRPC
// wiring for the inventory service's gRPC surface (spec.md §6), in place
// of protoc-generated stubs (see pkg/rpc for the JSON codec binding).
package inventoryv1

import (
	"context"

	"google.golang.org/grpc"
)

// DeductionInventoryRequest mirrors InventoryService.DeductionInventory's
// three fields.
type DeductionInventoryRequest struct {
	InventoryID    int32 `json:"inventory_id"`
	DeductionCount int32 `json:"deduction_count"`
	OrdersID       int32 `json:"orders_id"`
}

// DeductionInventoryResponse carries the result code; 200 means success.
type DeductionInventoryResponse struct {
	Result int32 `json:"result"`
}

const (
	// ResultSuccess is the definitive-success result code.
	ResultSuccess int32 = 200
)

// InventoryServiceServer is implemented by the inventory service.
type InventoryServiceServer interface {
	DeductionInventory(context.Context, *DeductionInventoryRequest) (*DeductionInventoryResponse, error)
}

// InventoryServiceClient is the thin client used by the order service's
// Phase B RPC and its reconciler.
type InventoryServiceClient interface {
	DeductionInventory(ctx context.Context, req *DeductionInventoryRequest, opts ...grpc.CallOption) (*DeductionInventoryResponse, error)
}

type inventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewInventoryServiceClient builds a client bound to cc.
func NewInventoryServiceClient(cc grpc.ClientConnInterface) InventoryServiceClient {
	return &inventoryServiceClient{cc: cc}
}

func (c *inventoryServiceClient) DeductionInventory(ctx context.Context, req *DeductionInventoryRequest, opts ...grpc.CallOption) (*DeductionInventoryResponse, error) {
	resp := &DeductionInventoryResponse{}
	if err := c.cc.Invoke(ctx, "/inventoryv1.InventoryService/DeductionInventory", req, resp, opts...); err != nil {
		return nil, err
	}
	return resp, nil
}

func deductionInventoryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeductionInventoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServiceServer).DeductionInventory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/inventoryv1.InventoryService/DeductionInventory",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryServiceServer).DeductionInventory(ctx, req.(*DeductionInventoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the hand-written equivalent of what protoc-gen-go-grpc
// would emit for InventoryService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "inventoryv1.InventoryService",
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "DeductionInventory",
			Handler:    deductionInventoryHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventoryv1/inventory.proto",
}

// RegisterInventoryServiceServer registers srv with s.
func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
