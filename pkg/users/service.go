package users

import (
	"context"

	"github.com/minicrm-io/minicrm/pkg/apperr"
	"github.com/minicrm-io/minicrm/pkg/validation"
)

// Service provides user administration operations. Only public profiles
// leave this service.
type Service struct {
	store *Store
}

// NewService creates a new user service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// List returns the public profiles of all users, ids ascending.
func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	profiles := make([]*Profile, 0, len(all))
	for _, u := range all {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// Get returns the public profile for the given id.
func (s *Service) Get(ctx context.Context, id int64) (*Profile, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u.Profile(), nil
}

// UpdateRole changes a user's role and returns the updated profile.
func (s *Service) UpdateRole(ctx context.Context, id int64, req UpdateRoleRequest) (*Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}

	if err := s.store.UpdateRole(ctx, id, req.Role); err != nil {
		return nil, apperr.Internal(err)
	}

	u.Role = req.Role
	return u.Profile(), nil
}
