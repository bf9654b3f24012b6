package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicrm-io/minicrm/pkg/apperr"
)

func newTestService(t *testing.T) (*Service, *Store) {
	t.Helper()
	store := newTestStore(t)
	return NewService(store), store
}

func TestServiceListReturnsProfiles(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "Alice", "alice@example.com", RoleAdmin)
	seedUser(t, store, "Bob", "bob@example.com", RoleEmployee)

	profiles, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Alice", profiles[0].Name)
	assert.Equal(t, RoleAdmin, profiles[0].Role)
}

func TestServiceGet(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seeded := seedUser(t, store, "Alice", "alice@example.com", RoleAdmin)

	profile, err := svc.Get(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, profile.ID)
	assert.Equal(t, "alice@example.com", profile.Email)
}

func TestServiceGetNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "User not found", apperr.MessageOf(err))
}

func TestServiceUpdateRole(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seeded := seedUser(t, store, "Bob", "bob@example.com", RoleEmployee)

	profile, err := svc.UpdateRole(ctx, seeded.ID, UpdateRoleRequest{Role: RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, profile.Role)

	stored, err := store.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, stored.Role)
}

func TestServiceUpdateRoleValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seeded := seedUser(t, store, "Bob", "bob@example.com", RoleEmployee)

	_, err := svc.UpdateRole(ctx, seeded.ID, UpdateRoleRequest{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.UpdateRole(ctx, seeded.ID, UpdateRoleRequest{Role: "MANAGER"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	assert.Equal(t, `"role" must be one of [ADMIN, EMPLOYEE]`, apperr.MessageOf(err))
}

func TestServiceUpdateRoleNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateRole(context.Background(), 42, UpdateRoleRequest{Role: RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
