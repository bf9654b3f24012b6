package auth

import "github.com/minicrm-io/minicrm/pkg/users"

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID int64
	Role   users.Role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == users.RoleAdmin
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Name     string     `json:"name" validate:"required"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=8"`
	Role     users.Role `json:"role" validate:"required,oneof=ADMIN EMPLOYEE"`
}

// LoginRequest is the payload for obtaining an access token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed token together with the caller's profile.
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	User        *users.Profile `json:"user"`
}
