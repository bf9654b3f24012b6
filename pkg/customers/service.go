package customers

import (
	"context"

	"github.com/minicrm-io/minicrm/pkg/apperr"
	"github.com/minicrm-io/minicrm/pkg/storage"
	"github.com/minicrm-io/minicrm/pkg/validation"
)

// Service provides customer CRUD operations.
type Service struct {
	store *Store
}

// NewService creates a new customer service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Create validates and inserts a new customer.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Customer, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c := &Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	}
	if err := s.store.Create(ctx, c); err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email or phone already exists")
		}
		return nil, apperr.Internal(err)
	}
	return c, nil
}

// List returns one page of customers. Out-of-range paging parameters are
// clamped rather than rejected.
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	params = params.normalize()

	data, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if data == nil {
		data = []*Customer{}
	}

	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &Page{
		Page:         params.Page,
		Limit:        params.Limit,
		TotalRecords: total,
		TotalPages:   totalPages,
		Data:         data,
	}, nil
}

// Get returns the customer with the given id.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if c == nil {
		return nil, apperr.NotFound("Customer not found")
	}
	return c, nil
}

// Update applies a partial update and returns the updated customer. A
// patch with no fields is rejected.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Customer, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Name == nil && req.Email == nil && req.Phone == nil && req.Company == nil {
		return nil, apperr.Invalid("at least one field must be provided")
	}

	updated, err := s.store.Update(ctx, id, req)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email or phone already exists")
		}
		return nil, apperr.Internal(err)
	}
	if !updated {
		return nil, apperr.NotFound("Customer not found")
	}

	return s.Get(ctx, id)
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return apperr.NotFound("Customer not found")
	}
	return nil
}
