package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	value, expiresAt, err := tm.GenerateToken("ws-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(value)
	require.NoError(t, err)
	assert.Equal(t, "ws-1", claims.WorkspaceID)
	assert.Equal(t, "ws-1", claims.Subject)
}

func TestTokenManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, NewTokenManager("secret", 0).TTL())
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	valid, _, err := tm.GenerateToken("ws-1")
	require.NoError(t, err)

	otherKey, _, err := NewTokenManager("other", time.Hour).GenerateToken("ws-1")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		WorkspaceID:      "ws-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{WorkspaceID: "ws-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"tampered":     valid + "x",
		"wrong key":    otherKey,
		"expired":      expired,
		"no workspace": anonymous,
		"other method": hs512,
		"garbage":      "not-a-token",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tm.ParseToken(value)
			assert.Error(t, err)
		})
	}
}
