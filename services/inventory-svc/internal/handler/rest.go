package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ecomfleet/pkg/apperror"
	"ecomfleet/services/inventory-svc/internal/service"
)

// REST wires the inventory engine to net/http.
type REST struct {
	inventory *service.Inventory
}

// NewREST builds a REST handler set.
func NewREST(inventory *service.Inventory) *REST {
	return &REST{inventory: inventory}
}

// Mount registers every route on mux.
func (h *REST) Mount(mux *http.ServeMux) {
	mux.HandleFunc("GET /health_check", h.healthCheck)
	mux.HandleFunc("GET /query_inventory", h.queryInventory)
	mux.HandleFunc("GET /query_inventory_change", h.queryInventoryChange)
}

func (h *REST) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte("<h1>Inventory server health ok.</h1>"))
}

func (h *REST) queryInventory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	inv, err := h.inventory.Query(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *REST) queryInventoryChange(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	changes, err := h.inventory.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func parseID(r *http.Request) (int32, error) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, apperror.New(apperror.CodeBadRequest, "invalid id")
	}
	return int32(id), nil
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
