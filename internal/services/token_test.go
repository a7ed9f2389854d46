package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMakeAndParseToken(t *testing.T) {
	raw, err := MakeToken("user-123", RoleUser, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := ParseToken(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, RoleUser, claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	raw, err := MakeToken("user-123", RoleTherapist, testSecret)
	require.NoError(t, err)

	_, err = ParseToken(raw, "some-other-secret")
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	assert.Error(t, err)
}

func TestParseToken_RejectsNonHMAC(t *testing.T) {
	// A token signed with "none" must never validate.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-123", Role: RoleAdmin})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(raw, testSecret)
	assert.Error(t, err)
}

func TestMakeToken_Expiry(t *testing.T) {
	raw, err := MakeToken("user-123", RoleUser, testSecret)
	require.NoError(t, err)

	claims, err := ParseToken(raw, testSecret)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)

	ttl := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, TokenDuration.Seconds(), ttl.Seconds(), 60)
}
