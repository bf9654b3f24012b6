package users

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Store handles user persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new user store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new user and sets its ID and timestamps.
func (s *Store) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, u.Name, u.Email, u.Password, u.Role, now, now).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// GetByEmail retrieves a user by email. Absence is a normal outcome and
// returns (nil, nil).
func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.getOne(ctx, `
		SELECT id, name, email, password, role, created_at, updated_at
		FROM users WHERE email = $1
	`, email)
}

// GetByID retrieves a user by ID. Absence returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.getOne(ctx, `
		SELECT id, name, email, password, role, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
}

func (s *Store) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// List returns all users ordered by ascending id.
func (s *Store) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, password, role, created_at, updated_at
		FROM users ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var result []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, &u)
	}
	return result, rows.Err()
}

// UpdateRole sets a user's role.
func (s *Store) UpdateRole(ctx context.Context, id int64, role Role) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET role = $1, updated_at = $2 WHERE id = $3
	`, role, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return nil
}

// Count returns the total number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
