// Package handler implements order-svc's REST and gRPC surfaces
// (spec.md §6), grounded on order_server's handlers/{rest,grpc}.rs.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ecomfleet/api/orderv1"
	"ecomfleet/pkg/apperror"
	"ecomfleet/pkg/middleware"
	"ecomfleet/services/order-svc/internal/service"
)

// REST wires the order engine to net/http.
type REST struct {
	order *service.Order
}

// New builds a REST handler set.
func New(order *service.Order) *REST {
	return &REST{order: order}
}

// Mount registers every route on mux. requireAuth gates create_order and
// request_order_token, per spec.md §4.6 — list_orders and health_check
// are unprotected.
func (h *REST) Mount(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /health_check", h.healthCheck)
	mux.HandleFunc("GET /orders", h.listOrders)
	mux.Handle("POST /add_order", requireAuth(http.HandlerFunc(h.addOrder)))
	mux.Handle("GET /request_order_token", requireAuth(http.HandlerFunc(h.requestOrderToken)))
}

func (h *REST) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte("<h1>Order server health ok.</h1>"))
}

func (h *REST) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	if userID == "" {
		writeError(w, apperror.New(apperror.CodeBadRequest, "user_id is required"))
		return
	}

	page, err := parseInt64(q.Get("page"), 0)
	if err != nil {
		writeError(w, apperror.New(apperror.CodeBadRequest, "invalid page"))
		return
	}
	pageSize, err := parseInt64(q.Get("page_size"), 20)
	if err != nil {
		writeError(w, apperror.New(apperror.CodeBadRequest, "invalid page_size"))
		return
	}

	orders, err := h.order.List(r.Context(), userID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *REST) addOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.ErrUnauthorized)
		return
	}

	var req orderv1.AddOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.order.PlaceOrder(r.Context(), claims.UserID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *REST) requestOrderToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{"token": h.order.RequestToken()})
}

func parseInt64(raw string, def int64) (int64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := apperror.Code(err)
	status := apperror.HTTPStatus(code)

	message := err.Error()
	if ae, ok := err.(*apperror.Error); ok {
		message = ae.Message
	}
	writeJSON(w, status, map[string]string{"error": message})
}
