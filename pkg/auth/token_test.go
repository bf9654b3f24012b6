package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicrm-io/minicrm/pkg/users"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(7, users.RoleEmployee)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.UserID)
	assert.Equal(t, users.RoleEmployee, id.Role)
	assert.False(t, id.IsAdmin())
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(7, users.RoleAdmin)
	require.NoError(t, err)

	// Move the verifier's clock past the token lifetime.
	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := issuer.Issue(7, users.RoleAdmin)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsUnsignedAlgorithm(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	claims := Claims{
		UserID: 7,
		Role:   users.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenLifetimeDefault(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 0)
	assert.Equal(t, DefaultTokenLifetime, issuer.lifetime)
}
