package customers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Store handles customer persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new customer store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new customer and sets its ID and timestamps.
func (s *Store) Create(ctx context.Context, c *Customer) error {
	now := time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, phone, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, c.Name, c.Email, c.Phone, c.Company, now, now).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// GetByID retrieves a customer by ID. Absence returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, company, created_at, updated_at
		FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// List returns one page of customers ordered by ascending id, plus the total
// record count for the same filter. Params must already be normalized.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Customer, int64, error) {
	where := ""
	args := []interface{}{}
	if params.Search != "" {
		where = "WHERE LOWER(name) LIKE $1 OR LOWER(email) LIKE $1"
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customers %s", where)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	offset := (params.Page - 1) * params.Limit
	query := fmt.Sprintf(`
		SELECT id, name, email, phone, company, created_at, updated_at
		FROM customers %s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var result []*Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		result = append(result, &c)
	}
	return result, total, rows.Err()
}

// Update applies the non-nil fields of req to the customer. It reports
// whether a row was updated.
func (s *Store) Update(ctx context.Context, id int64, req UpdateRequest) (bool, error) {
	sets := []string{}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Company != nil {
		add("company", *req.Company)
	}
	// The service guarantees at least one field; updated_at always moves.
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update customer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update customer: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a customer, reporting whether a row existed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}
	return affected > 0, nil
}

// Count returns the total number of customers.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
