package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
	assert.False(t, CheckPassword("not-a-hash", "secret1"))
}

func TestTokensIssueAndResolve(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tok := Tokens{Secret: "k", TTL: 24 * time.Hour, Now: func() time.Time { return now }}

	signed, exp, err := tok.Issue("profile-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), exp)

	sub, err := tok.Resolve(signed)
	require.NoError(t, err)
	assert.Equal(t, "profile-1", sub)
}

func TestTokensRejectExpiredForeignAndMalformed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tok := Tokens{Secret: "k", TTL: time.Hour, Now: func() time.Time { return now }}
	signed, _, err := tok.Issue("profile-1")
	require.NoError(t, err)

	later := tok
	later.Now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = later.Resolve(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := tok
	other.Secret = "other"
	_, err = other.Resolve(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tok.Resolve("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tok.Resolve("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectMissingSubjectAndAlgNone(t *testing.T) {
	now := time.Now()
	tok := Tokens{Secret: "k", TTL: time.Hour, Now: func() time.Time { return now }}

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = tok.Resolve(noSub)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "profile-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tok.Resolve(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = Tokens{TTL: time.Hour}.Issue("p")
	assert.Error(t, err)
}
