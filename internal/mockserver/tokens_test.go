package mockserver

import (
	"testing"
	"time"

	"github.com/2beens/chizen/internal/chizen"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	ti, err := NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)

	token, err := ti.Issue(chizen.User{ID: "user-1", Email: "a@b.c", IsAdmin: true})
	require.NoError(t, err)

	identity, err := ti.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.True(t, identity.IsAdmin)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	ti, err := NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenIssuer("other-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.Issue(chizen.User{ID: "user-1"})
	require.NoError(t, err)
	_, err = ti.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ti.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// unsigned tokens are never accepted
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:  tokenIssuer,
		Subject: "user-1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ti.VerifyToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Expired(t *testing.T) {
	ti, err := NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)

	issuedAt := time.Now()
	ti.now = func() time.Time { return issuedAt }
	token, err := ti.Issue(chizen.User{ID: "user-1"})
	require.NoError(t, err)

	ti.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = ti.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNewTokenIssuer_RandomSecret(t *testing.T) {
	a, err := NewTokenIssuer("", 0)
	require.NoError(t, err)
	b, err := NewTokenIssuer("", 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultTokenTTL, a.ttl)
	assert.NotEqual(t, a.secret, b.secret)
}
