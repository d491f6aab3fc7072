package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestUserIDFromToken_PrefersIdUserClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"idUser": "42", "sub": "auth0|abc"})
	id, err := UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestUserIDFromToken_FallsBackToSub(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "auth0|abc"})
	id, err := UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc", id)
}

func TestUserIDFromToken_NoIdentifier(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"scope": "openid"})
	_, err := UserIDFromToken(token)
	assert.Error(t, err)
}

func TestUserIDFromToken_Garbage(t *testing.T) {
	_, err := UserIDFromToken("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	live := signToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
	assert.False(t, TokenExpired(live, now))

	stale := signToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})
	assert.True(t, TokenExpired(stale, now))

	noExp := signToken(t, jwt.MapClaims{"sub": "x"})
	assert.True(t, TokenExpired(noExp, now), "a token without exp counts as expired")

	assert.True(t, TokenExpired("garbage", now))
}
