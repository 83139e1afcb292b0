// Package rpc provides the gRPC wire binding used in place of protoc-
// generated stubs: a JSON encoding.Codec registered under subtype "json",
// paired with hand-written grpc.ServiceDescs in api/inventoryv1 and
// api/orderv1. This keeps the real google.golang.org/grpc transport,
// interceptor chain, health service, and keepalive machinery; only the
// wire codec differs from a production protobuf setup.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the subtype registered in the Content-Type header, e.g.
// "application/grpc+json".
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
