package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomfleet/pkg/apperror"
	"ecomfleet/pkg/authtoken"
	"ecomfleet/pkg/passhash"
	"ecomfleet/services/identity-svc/internal/repository"
)

// fakeUsers is an in-memory stand-in for repository.Users, matching the
// teacher's mock-repository test style.
type fakeUsers struct {
	byEmail map[string]*repository.User
	nextID  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]*repository.User)}
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeUsers) Create(ctx context.Context, email, passwordHash string, createTime int64) (*repository.User, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, apperror.ErrDuplicateEmail
	}
	f.nextID++
	u := &repository.User{
		ID:           fmtID(f.nextID),
		Email:        email,
		PasswordHash: passwordHash,
		CreateTime:   createTime,
	}
	f.byEmail[email] = u
	return u, nil
}

func fmtID(n int) string {
	return "user-" + string(rune('0'+n))
}

func newTestIdentity(t *testing.T) (*Identity, *fakeUsers) {
	users := newFakeUsers()
	hasher, err := passhash.NewHasher(passhash.MinCost, 2)
	require.NoError(t, err)
	t.Cleanup(hasher.Close)

	tokens := authtoken.NewManager("test-secret", time.Hour, "identity-svc-test")

	return New(users, hasher, tokens), users
}

func TestIdentity_SignUp_Success(t *testing.T) {
	identity, _ := newTestIdentity(t)

	resp, err := identity.SignUp(context.Background(), SignUpRequest{
		Email:    "new@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.UID)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
}

func TestIdentity_SignUp_InvalidEmail(t *testing.T) {
	identity, _ := newTestIdentity(t)

	_, err := identity.SignUp(context.Background(), SignUpRequest{
		Email:    "not-an-email",
		Password: "password123",
	})

	assert.True(t, apperror.Is(err, apperror.CodeBadRequest))
}

func TestIdentity_SignUp_ShortPassword(t *testing.T) {
	identity, _ := newTestIdentity(t)

	_, err := identity.SignUp(context.Background(), SignUpRequest{
		Email:    "short@example.com",
		Password: "abc",
	})

	assert.True(t, apperror.Is(err, apperror.CodeBadRequest))
}

func TestIdentity_SignUp_DuplicateEmail(t *testing.T) {
	identity, _ := newTestIdentity(t)
	ctx := context.Background()

	_, err := identity.SignUp(ctx, SignUpRequest{Email: "dup@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = identity.SignUp(ctx, SignUpRequest{Email: "dup@example.com", Password: "password123"})
	assert.True(t, apperror.Is(err, apperror.CodeDuplicateUserEmail))
}

func TestIdentity_SignIn_Success(t *testing.T) {
	identity, _ := newTestIdentity(t)
	ctx := context.Background()

	_, err := identity.SignUp(ctx, SignUpRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)

	resp, err := identity.SignIn(ctx, SignUpRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
}

func TestIdentity_SignIn_WrongPassword(t *testing.T) {
	identity, _ := newTestIdentity(t)
	ctx := context.Background()

	_, err := identity.SignUp(ctx, SignUpRequest{Email: "wrongpw@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = identity.SignIn(ctx, SignUpRequest{Email: "wrongpw@example.com", Password: "nope12345"})
	assert.True(t, apperror.Is(err, apperror.CodeWrongCredentials))
}

func TestIdentity_SignIn_UnknownUser(t *testing.T) {
	identity, _ := newTestIdentity(t)

	_, err := identity.SignIn(context.Background(), SignUpRequest{Email: "ghost@example.com", Password: "password123"})
	assert.True(t, apperror.Is(err, apperror.CodeWrongCredentials))
}
