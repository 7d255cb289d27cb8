package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	t.Run("round trip", func(t *testing.T) {
		token, err := GenerateJWT("64f000000000000000000001", "ana@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := ParseToken(token, "unit-test-secret")
		require.NoError(t, err)
		assert.Equal(t, "64f000000000000000000001", claims.UserID)
		assert.Equal(t, "ana@example.com", claims.Email)
		assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := GenerateJWT("64f000000000000000000001", "ana@example.com")
		require.NoError(t, err)

		_, err = ParseToken(token, "some-other-secret")
		assert.Error(t, err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		claims := &JwtCustomClaims{
			UserID: "64f000000000000000000001",
			StandardClaims: jwt.StandardClaims{
				ExpiresAt: time.Now().Add(-time.Minute).Unix(),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
		require.NoError(t, err)

		_, err = ParseToken(token, "unit-test-secret")
		assert.Error(t, err)
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, err := GenerateJWT("64f000000000000000000001", "ana@example.com")
		require.NoError(t, err)

		_, err = ParseToken(token+"x", "unit-test-secret")
		assert.Error(t, err)
	})
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT("64f000000000000000000001", "ana@example.com")
	assert.Error(t, err)
}

func TestTokenBlacklist(t *testing.T) {
	token := "blacklisted-token-" + time.Now().String()

	assert.False(t, IsTokenBlacklisted(token))
	BlacklistToken(token, time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(token))
}
