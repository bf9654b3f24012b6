package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicrm-io/minicrm/pkg/apperr"
)

type registerPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=ADMIN EMPLOYEE"`
}

func TestStructValid(t *testing.T) {
	err := Struct(registerPayload{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     "ADMIN",
	})
	assert.NoError(t, err)
}

func TestStructReportsFirstViolation(t *testing.T) {
	tests := []struct {
		name    string
		payload registerPayload
		want    string
	}{
		{
			name: "missing name",
			payload: registerPayload{
				Email:    "alice@example.com",
				Password: "password123",
				Role:     "ADMIN",
			},
			want: `"name" is required`,
		},
		{
			name: "bad email",
			payload: registerPayload{
				Name:     "Alice",
				Email:    "not-an-email",
				Password: "password123",
				Role:     "ADMIN",
			},
			want: `"email" must be a valid email`,
		},
		{
			name: "short password",
			payload: registerPayload{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "short",
				Role:     "ADMIN",
			},
			want: `"password" length must be at least 8 characters long`,
		},
		{
			name: "unknown role",
			payload: registerPayload{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "password123",
				Role:     "MANAGER",
			},
			want: `"role" must be one of [ADMIN, EMPLOYEE]`,
		},
		{
			name:    "multiple violations report only the first",
			payload: registerPayload{},
			want:    `"name" is required`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.payload)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
			assert.Equal(t, tt.want, apperr.MessageOf(err))
		})
	}
}

func TestStructOptionalFields(t *testing.T) {
	type taskPayload struct {
		Title  string  `json:"title" validate:"required"`
		Status *string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS DONE"`
	}

	assert.NoError(t, Struct(taskPayload{Title: "Call customer"}))

	bad := "SHIPPED"
	err := Struct(taskPayload{Title: "Call customer", Status: &bad})
	require.Error(t, err)
	assert.Equal(t, `"status" must be one of [PENDING, IN_PROGRESS, DONE]`, apperr.MessageOf(err))
}
