package users

import "time"

// Role controls a user's access scope.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether the role is one of the defined variants.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User represents a user account. The password digest never serializes.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the public view of a user record, excluding the password digest.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile returns the public view of the user.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Summary is the compact user view attached to task responses.
type Summary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateRoleRequest is the payload for changing a user's role.
type UpdateRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=ADMIN EMPLOYEE"`
}
