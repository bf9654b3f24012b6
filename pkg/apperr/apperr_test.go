package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("Email already in use")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("Task not found")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(Internal(errors.New("boom"))))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("updating customer: %w", Conflict("Email or phone already exists"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "Email or phone already exists", MessageOf(err))
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"))
	assert.Equal(t, "Internal server error", MessageOf(err))
	assert.ErrorContains(t, err, "connection refused")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
}
