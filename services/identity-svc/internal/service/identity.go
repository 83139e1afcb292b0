// Package service implements the identity engine (C8): signup, signin,
// and token issuance via C1, grounded on certify_server's rest.rs.
package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"ecomfleet/pkg/apperror"
	"ecomfleet/pkg/authtoken"
	"ecomfleet/pkg/passhash"
	"ecomfleet/pkg/telemetry"
	"ecomfleet/services/identity-svc/internal/repository"
)

// SignUpRequest is the signup payload, validated per spec.md §4.8.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// TokenPayload mirrors the REST response's embedded token shape.
type TokenPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SignResponse is returned by both sign_up and sign_in.
type SignResponse struct {
	UID   string       `json:"uid"`
	Token TokenPayload `json:"token"`
}

var validate = validator.New()

// UserStore is the persistence surface the identity engine needs.
// repository.Users satisfies it against Postgres; tests substitute an
// in-memory fake.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*repository.User, error)
	Create(ctx context.Context, email, passwordHash string, createTime int64) (*repository.User, error)
}

// Identity implements sign_up/sign_in/verify.
type Identity struct {
	users  UserStore
	hasher *passhash.Hasher
	tokens *authtoken.Manager
}

// New builds an Identity engine.
func New(users UserStore, hasher *passhash.Hasher, tokens *authtoken.Manager) *Identity {
	return &Identity{users: users, hasher: hasher, tokens: tokens}
}

// SignUp validates the payload, hashes the password off the request path,
// inserts the user, and signs a token for it. A duplicate e-mail reports
// apperror.ErrDuplicateEmail.
func (s *Identity) SignUp(ctx context.Context, req SignUpRequest) (*SignResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeBadRequest, "invalid signup payload")
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to hash password")
	}

	user, err := s.users.Create(ctx, req.Email, hash, time.Now().UnixMilli())
	if err != nil {
		return nil, err
	}

	return s.issueToken(ctx, user.ID)
}

// SignIn validates the payload, looks up the user, and verifies the
// password. Any failure — missing user or bad hash — reports the same
// apperror.ErrWrongCredentials to resist account enumeration.
func (s *Identity) SignIn(ctx context.Context, req SignUpRequest) (*SignResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeBadRequest, "invalid signin payload")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.ErrWrongCredentials
	}

	ok, err := s.hasher.Verify(ctx, req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, apperror.ErrWrongCredentials
	}

	return s.issueToken(ctx, user.ID)
}

func (s *Identity) issueToken(ctx context.Context, userID string) (*SignResponse, error) {
	telemetry.SetAttributes(ctx, telemetry.IdentityAttributes(userID)...)

	token, err := s.tokens.Sign(userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to sign token")
	}
	return &SignResponse{
		UID: userID,
		Token: TokenPayload{
			AccessToken: token,
			TokenType:   "Bearer",
		},
	}, nil
}
