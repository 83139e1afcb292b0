package rpc

import "google.golang.org/grpc"

// WithJSONCodec returns the dial option that makes every unary call on a
// ClientConn negotiate the "application/grpc+json" content subtype
// instead of protobuf.
func WithJSONCodec() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName))
}
