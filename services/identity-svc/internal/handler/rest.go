// Package handler implements the identity service's REST surface
// (spec.md §6, port 3003), grounded on certify_server's handlers/rest.rs.
package handler

import (
	"encoding/json"
	"net/http"

	"ecomfleet/pkg/apperror"
	"ecomfleet/pkg/middleware"
	"ecomfleet/services/identity-svc/internal/service"
)

// REST wires the identity engine to net/http.
type REST struct {
	identity *service.Identity
}

// New builds a REST handler set.
func New(identity *service.Identity) *REST {
	return &REST{identity: identity}
}

// Mount registers every route on mux.
func (h *REST) Mount(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /health_check", h.healthCheck)
	mux.HandleFunc("POST /sign_up", h.signUp)
	mux.HandleFunc("POST /sign_in", h.signIn)

	verify := requireAuth(http.HandlerFunc(h.verify))
	mux.Handle("POST /verify", verify)
	mux.Handle("GET /verify", verify)
}

func (h *REST) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte("<h1>Identity server health ok.</h1>"))
}

func (h *REST) signUp(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.identity.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *REST) signIn(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.identity.SignIn(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *REST) verify(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
		writeError(w, apperror.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an apperror.Error to (status, body) per spec.md §7.
// duplicate_user_email deliberately preserves the source's observable
// behavior: HTTP 500 with the literal body "DuplicateUserEmail".
func writeError(w http.ResponseWriter, err error) {
	code := apperror.Code(err)
	status := apperror.HTTPStatus(code)

	if code == apperror.CodeDuplicateUserEmail {
		w.WriteHeader(status)
		w.Write([]byte("DuplicateUserEmail"))
		return
	}

	message := err.Error()
	if ae, ok := err.(*apperror.Error); ok {
		message = ae.Message
	}
	writeJSON(w, status, map[string]string{"error": message})
}
