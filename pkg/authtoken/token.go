// Package authtoken implements the token primitive (C1): issue and verify
// signed bearer tokens carrying a user identifier and a fixed expiry.
package authtoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is the single failure kind Verify ever returns: a
// malformed token, a bad signature, and an expired token are all reported
// identically so the caller cannot distinguish why a token failed.
var ErrUnauthorized = errors.New("authtoken: unauthorized")

// Claims is the payload embedded in every signed token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens against a single process-wide secret.
// It holds no other state; callers construct one at startup and pass it
// down explicitly rather than reaching for a package-level singleton.
type Manager struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewManager builds a Manager. expiry <= 0 defaults to 24 hours per the
// token primitive's contract.
func NewManager(secret string, expiry time.Duration, issuer string) *Manager {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), expiry: expiry, issuer: issuer}
}

// Sign issues a token for userID, embedding issued-at and expiry = iat +
// the manager's configured lifetime.
func (m *Manager) Sign(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify validates signature and expiry and returns the embedded claims.
// Any failure — parse error, wrong algorithm, bad signature, expiry in
// the past — collapses to ErrUnauthorized.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
