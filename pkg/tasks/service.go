package tasks

import (
	"context"

	"github.com/minicrm-io/minicrm/pkg/apperr"
	"github.com/minicrm-io/minicrm/pkg/auth"
	"github.com/minicrm-io/minicrm/pkg/customers"
	"github.com/minicrm-io/minicrm/pkg/users"
	"github.com/minicrm-io/minicrm/pkg/validation"
)

// UserFinder resolves task assignees.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// CustomerFinder resolves task customers.
type CustomerFinder interface {
	GetByID(ctx context.Context, id int64) (*customers.Customer, error)
}

// Service provides task operations with ownership enforcement.
type Service struct {
	store      *Store
	userFinder UserFinder
	custFinder CustomerFinder
}

// NewService creates a new task service.
func NewService(store *Store, userFinder UserFinder, custFinder CustomerFinder) *Service {
	return &Service{store: store, userFinder: userFinder, custFinder: custFinder}
}

// Create validates the payload and its references, then inserts the task.
// The assignee must be an existing EMPLOYEE and the customer must exist.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Detail, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	assignee, err := s.userFinder.GetByID(ctx, req.AssignedTo)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if assignee == nil || assignee.Role != users.RoleEmployee {
		return nil, apperr.NotFound("Assigned user must exist and have role EMPLOYEE")
	}

	customer, err := s.custFinder.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if customer == nil {
		return nil, apperr.NotFound("Customer not found")
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}

	t := &Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		AssignedTo:  req.AssignedTo,
		CustomerID:  req.CustomerID,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}

	detail, err := s.store.GetDetail(ctx, t.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return detail, nil
}

// List returns the tasks visible to the caller: everything for admins,
// only their own assignments for employees.
func (s *Service) List(ctx context.Context, identity auth.Identity) ([]*Detail, error) {
	var (
		result []*Detail
		err    error
	)
	if identity.IsAdmin() {
		result, err = s.store.ListAll(ctx)
	} else {
		result, err = s.store.ListByAssignee(ctx, identity.UserID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if result == nil {
		result = []*Detail{}
	}
	return result, nil
}

// UpdateStatus moves a task to a new status. Non-admin callers may only
// touch their own assignments.
func (s *Service) UpdateStatus(ctx context.Context, id int64, identity auth.Identity, req UpdateStatusRequest) (*Detail, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if t == nil {
		return nil, apperr.NotFound("Task not found")
	}

	if !identity.IsAdmin() && t.AssignedTo != identity.UserID {
		return nil, apperr.Forbidden("cannot update task of another user")
	}

	if err := s.store.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, apperr.Internal(err)
	}

	detail, err := s.store.GetDetail(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return detail, nil
}
