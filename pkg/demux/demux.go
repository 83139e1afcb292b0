// Package demux implements the protocol demultiplexer (C3): one listening
// socket, two protocol handlers, dispatched purely on the Content-Type
// header so a request is never buffered in full before classification.
package demux

import (
	"net/http"
	"strings"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
)

const grpcContentTypePrefix = "application/grpc"

// Handler multiplexes REST and gRPC traffic on a single http.Handler.
// Wrap it with h2c.NewHandler (via New) to accept plaintext HTTP/2, which
// gRPC requires and REST clients may also use.
type Handler struct {
	grpcServer *grpc.Server
	restMux    http.Handler
}

// New builds the combined h2c handler. grpcServer handles any request
// whose Content-Type begins "application/grpc"; every other request goes
// to restMux.
func New(grpcServer *grpc.Server, restMux http.Handler) http.Handler {
	h := &Handler{grpcServer: grpcServer, restMux: restMux}
	return h2c.NewHandler(h, &http2.Server{})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if isGRPCRequest(r) {
		h.grpcServer.ServeHTTP(w, r)
		return
	}
	h.restMux.ServeHTTP(w, r)
}

func isGRPCRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), grpcContentTypePrefix)
}
