package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/minicrm-io/minicrm/pkg/customers"
	"github.com/minicrm-io/minicrm/pkg/users"
)

// Store handles task persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new task store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new task and sets its ID and timestamps.
func (s *Store) Create(ctx context.Context, t *Task) error {
	now := time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, status, assigned_to, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, t.Title, t.Description, t.Status, t.AssignedTo, t.CustomerID, now, now).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// GetByID retrieves a bare task row. Absence returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*Task, error) {
	var t Task
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, status, assigned_to, customer_id, created_at, updated_at
		FROM tasks WHERE id = $1
	`, id).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.AssignedTo, &t.CustomerID, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &t, nil
}

const detailQuery = `
	SELECT t.id, t.title, t.description, t.status, t.assigned_to, t.customer_id,
	       t.created_at, t.updated_at,
	       u.id, u.name, u.email,
	       c.id, c.name, c.email, c.phone
	FROM tasks t
	JOIN users u ON u.id = t.assigned_to
	JOIN customers c ON c.id = t.customer_id
`

func scanDetail(row interface{ Scan(...interface{}) error }) (*Detail, error) {
	var d Detail
	d.AssignedUser = &users.Summary{}
	d.Customer = &customers.Summary{}

	err := row.Scan(
		&d.ID, &d.Title, &d.Description, &d.Status, &d.AssignedTo, &d.CustomerID,
		&d.CreatedAt, &d.UpdatedAt,
		&d.AssignedUser.ID, &d.AssignedUser.Name, &d.AssignedUser.Email,
		&d.Customer.ID, &d.Customer.Name, &d.Customer.Email, &d.Customer.Phone,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDetail retrieves a task with its assignee and customer summaries.
// Absence returns (nil, nil).
func (s *Store) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	d, err := scanDetail(s.db.QueryRowContext(ctx, detailQuery+` WHERE t.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task detail: %w", err)
	}
	return d, nil
}

// ListAll returns every task with summaries attached, ids ascending.
func (s *Store) ListAll(ctx context.Context) ([]*Detail, error) {
	return s.list(ctx, detailQuery+` ORDER BY t.id ASC`)
}

// ListByAssignee returns tasks assigned to the given user, ids ascending.
func (s *Store) ListByAssignee(ctx context.Context, userID int64) ([]*Detail, error) {
	return s.list(ctx, detailQuery+` WHERE t.assigned_to = $1 ORDER BY t.id ASC`, userID)
}

func (s *Store) list(ctx context.Context, query string, args ...interface{}) ([]*Detail, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var result []*Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// UpdateStatus moves a task to the given status.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = $1, updated_at = $2 WHERE id = $3
	`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}

// Count returns the total number of tasks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// CountByStatus returns task counts grouped by status.
func (s *Store) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int64)
	for rows.Next() {
		var status Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan task count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
