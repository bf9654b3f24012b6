package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/minicrm-io/minicrm/pkg/apperr"
	"github.com/minicrm-io/minicrm/pkg/storage/storagetest"
	"github.com/minicrm-io/minicrm/pkg/users"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := users.NewStore(storagetest.NewDB(t))
	return NewService(store, NewPasswordHasher(bcrypt.MinCost), NewTokenIssuer("test-secret", time.Hour))
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     users.RoleAdmin,
	}
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)

	profile, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.NotZero(t, profile.ID)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, users.RoleAdmin, profile.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegister())
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Email already in use", apperr.MessageOf(err))
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(r *RegisterRequest) { r.Name = "" },
			message: `"name" is required`,
		},
		{
			name:    "bad email",
			mutate:  func(r *RegisterRequest) { r.Email = "not-an-email" },
			message: `"email" must be a valid email`,
		},
		{
			name:    "short password",
			mutate:  func(r *RegisterRequest) { r.Password = "short" },
			message: `"password" length must be at least 8 characters long`,
		},
		{
			name:    "unknown role",
			mutate:  func(r *RegisterRequest) { r.Role = "MANAGER" },
			message: `"role" must be one of [ADMIN, EMPLOYEE]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mutate(&req)

			_, err := svc.Register(ctx, req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
			assert.Equal(t, tt.message, apperr.MessageOf(err))
		})
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	id, err := svc.tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id.UserID)
	assert.Equal(t, users.RoleAdmin, id.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	// Unknown email and wrong password return the identical error.
	for _, req := range []LoginRequest{
		{Email: "nobody@example.com", Password: "password123"},
		{Email: "alice@example.com", Password: "wrong password"},
	} {
		_, err := svc.Login(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
		assert.Equal(t, "Invalid email or password", apperr.MessageOf(err))
	}
}

func TestLoginValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	assert.Equal(t, `"password" is required`, apperr.MessageOf(err))
}
