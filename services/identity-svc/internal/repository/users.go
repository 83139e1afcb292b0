// Package repository implements the identity service's Postgres access,
// grounded on the original certify_server's db_access/db.rs.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"ecomfleet/pkg/apperror"
	"ecomfleet/pkg/database"
)

// uniqueViolation is Postgres's SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// User is the persisted identity row.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreateTime   int64
}

// Users is the identity service's user store.
type Users struct {
	db database.DB
}

// NewUsers builds a Users repository over db.
func NewUsers(db database.DB) *Users {
	return &Users{db: db}
}

// FindByEmail loads a user by e-mail, returning apperror.ErrNotFound when
// absent.
func (r *Users) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, create_time FROM users WHERE email = $1`, email)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreateTime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to query user")
	}
	return &u, nil
}

// Create inserts a new user, returning apperror.ErrDuplicateEmail when the
// e-mail is already registered. Relying on the database's unique
// constraint (rather than a preceding SELECT) is what makes two
// concurrent signups with the same e-mail resolve to exactly one winner.
func (r *Users) Create(ctx context.Context, email, passwordHash string, createTime int64) (*User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, create_time) VALUES ($1, $2, $3)
		 RETURNING id, email, password_hash, create_time`,
		email, passwordHash, createTime,
	)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreateTime); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperror.ErrDuplicateEmail
		}
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to insert user")
	}
	return &u, nil
}
