package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("k", 32))

func newTestIssuer(t *testing.T, now time.Time) *TokenIssuer {
	t.Helper()
	ti, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	ti.now = func() time.Time { return now }
	return ti
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ti := newTestIssuer(t, now)

	token, expiresAt, err := ti.Issue(Identity{UserID: "u1", Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	id, err := ti.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "alice@example.com", id.Email)
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	ti, err := NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, ti.ttl)
}

func TestTokenIssuer_RejectsEmptySecret(t *testing.T) {
	_, err := NewTokenIssuer(nil, time.Hour)
	assert.Error(t, err)
}

func TestTokenIssuer_RequiresUserID(t *testing.T) {
	ti := newTestIssuer(t, time.Now())
	_, _, err := ti.Issue(Identity{Username: "alice"})
	assert.Error(t, err)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ti := newTestIssuer(t, issued)
	token, _, err := ti.Issue(Identity{UserID: "u1"})
	require.NoError(t, err)

	ti.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = ti.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	now := time.Now()
	ti := newTestIssuer(t, now)
	token, _, err := ti.Issue(Identity{UserID: "u1"})
	require.NoError(t, err)

	other, err := NewTokenIssuer([]byte(strings.Repeat("x", 32)), time.Hour)
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	ti := newTestIssuer(t, time.Now())
	_, err = ti.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	ti := newTestIssuer(t, time.Now())
	_, err := ti.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
