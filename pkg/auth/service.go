package auth

import (
	"context"

	"github.com/minicrm-io/minicrm/pkg/apperr"
	"github.com/minicrm-io/minicrm/pkg/storage"
	"github.com/minicrm-io/minicrm/pkg/users"
	"github.com/minicrm-io/minicrm/pkg/validation"
)

// UserStore is the subset of user persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *users.User) error
	GetByEmail(ctx context.Context, email string) (*users.User, error)
}

// Service handles account registration and login.
type Service struct {
	store  UserStore
	hasher *PasswordHasher
	tokens *TokenIssuer
}

// NewService creates a new auth service.
func NewService(store UserStore, hasher *PasswordHasher, tokens *TokenIssuer) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens}
}

// Register creates a new account and returns its public profile.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := &users.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: digest,
		Role:     req.Role,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email already in use")
		}
		return nil, apperr.Internal(err)
	}

	return u.Profile(), nil
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords produce the same message so the endpoint does not leak
// which accounts exist.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil || !s.hasher.Verify(u.Password, req.Password) {
		return nil, apperr.Unauthenticated("Invalid email or password")
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &LoginResponse{AccessToken: token, User: u.Profile()}, nil
}
