// Package handler implements the catalog service's REST surface
// (spec.md §6, port 3004), grounded on goods_server's handlers/rest.rs.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ecomfleet/pkg/apperror"
	"ecomfleet/services/catalog-svc/internal/service"
)

// REST wires the catalog engine to net/http.
type REST struct {
	catalog *service.Catalog
}

// New builds a REST handler set.
func New(catalog *service.Catalog) *REST {
	return &REST{catalog: catalog}
}

// Mount registers every route on mux. Every route here is unauthenticated
// per spec.md §4.6 ("Unprotected: ... catalog reads").
func (h *REST) Mount(mux *http.ServeMux) {
	mux.HandleFunc("/health_check", h.healthCheck)
	mux.HandleFunc("/goods_list", h.goodsList)
	mux.HandleFunc("/goods_detail", h.goodsDetail)
}

func (h *REST) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte("<h1>Goods server health ok.</h1>"))
}

func (h *REST) goodsList(w http.ResponseWriter, r *http.Request) {
	page, err := parseInt64(r.URL.Query().Get("page"), 0)
	if err != nil {
		writeError(w, apperror.New(apperror.CodeBadRequest, "invalid page"))
		return
	}
	pageSize, err := parseInt64(r.URL.Query().Get("page_size"), 20)
	if err != nil {
		writeError(w, apperror.New(apperror.CodeBadRequest, "invalid page_size"))
		return
	}

	goods, err := h.catalog.List(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goods)
}

func (h *REST) goodsDetail(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("goods_id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		writeError(w, apperror.New(apperror.CodeBadRequest, "invalid goods_id"))
		return
	}

	detail, err := h.catalog.Detail(r.Context(), int32(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
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
