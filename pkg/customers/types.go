package customers

import "time"

// Customer is a CRM customer record.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is the compact customer view attached to task responses.
type Summary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateRequest is the payload for creating a customer.
type CreateRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Company string `json:"company"`
}

// UpdateRequest is the payload for a partial customer update. Nil fields
// are left untouched.
type UpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,min=1"`
	Company *string `json:"company"`
}

// ListParams control customer listing. Search matches name or email,
// case-insensitively.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func (p ListParams) normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// Page is the paginated customer listing envelope.
type Page struct {
	Page         int         `json:"page"`
	Limit        int         `json:"limit"`
	TotalRecords int64       `json:"totalRecords"`
	TotalPages   int         `json:"totalPages"`
	Data         []*Customer `json:"data"`
}
