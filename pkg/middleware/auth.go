// Package middleware implements the auth boundary (C6): extracting and
// verifying bearer tokens on protected REST requests.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"ecomfleet/pkg/authtoken"
)

type contextKey int

const claimsKey contextKey = iota

// RequireAuth wraps next so that requests without a valid bearer token are
// refused with 401 before next ever runs. On success, the verified claims
// are stored in the request context, retrievable via ClaimsFromContext.
func RequireAuth(tokens *authtoken.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractBearerToken(r)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", authtoken.ErrUnauthorized
	}
	token := strings.TrimPrefix(header, prefix)
	if token == "" {
		return "", authtoken.ErrUnauthorized
	}
	return token, nil
}

// ClaimsFromContext returns the claims RequireAuth stored, if any.
func ClaimsFromContext(ctx context.Context) (*authtoken.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*authtoken.Claims)
	return claims, ok
}
