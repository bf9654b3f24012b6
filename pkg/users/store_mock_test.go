package users

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Error paths are driven through sqlmock; the happy paths run against a
// real database in store_test.go.

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db), mock
}

func TestStoreCreatePropagatesError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO users").WillReturnError(errors.New("connection reset"))

	err := store.Create(context.Background(), &User{Name: "Alice", Email: "alice@example.com", Role: RoleAdmin})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetByEmailPropagatesError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM users WHERE email").WillReturnError(errors.New("connection reset"))

	_, err := store.GetByEmail(context.Background(), "alice@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListPropagatesScanError(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password", "role", "created_at", "updated_at"}).
		AddRow("not-an-int", "Alice", "alice@example.com", "digest", "ADMIN", "bad", "bad")
	mock.ExpectQuery("FROM users ORDER BY id ASC").WillReturnRows(rows)

	_, err := store.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCountPropagatesError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("connection reset"))

	_, err := store.Count(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count users")
	assert.NoError(t, mock.ExpectationsWereMet())
}
