package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenGenerator(t *testing.T) {
	tests := []struct {
		name         string
		secret       string
		accessExpiry time.Duration
	}{
		{name: "standard initialization", secret: "test-secret-key", accessExpiry: 1 * time.Hour},
		{name: "short expiry time", secret: "short-secret", accessExpiry: 1 * time.Minute},
		{name: "long expiry time", secret: "long-secret", accessExpiry: 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := NewTokenGenerator(tt.secret, tt.accessExpiry)

			assert.NotNil(t, tg)
			assert.Equal(t, tt.secret, tg.secret)
			assert.Equal(t, tt.accessExpiry, tg.accessTokenExpiry)
		})
	}
}

func TestTokenGenerator_GenerateAccessToken(t *testing.T) {
	secret := "b8a3c2267dc85f855dea9b46b452bf20"
	tg := NewTokenGenerator(secret, 1*time.Hour)

	t.Run("success", func(t *testing.T) {
		token, err := tg.GenerateAccessToken("admin")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		// JWT tokens should have 3 parts separated by dots
		parts := strings.Split(token, ".")
		assert.Len(t, parts, 3)
	})

	t.Run("round trip", func(t *testing.T) {
		token, err := tg.GenerateAccessToken("editor")
		require.NoError(t, err)

		username, err := tg.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, "editor", username)
	})

	t.Run("token uniqueness", func(t *testing.T) {
		token1, err := tg.GenerateAccessToken("admin")
		require.NoError(t, err)

		// Wait to ensure different iat timestamp
		time.Sleep(1 * time.Second)

		token2, err := tg.GenerateAccessToken("admin")
		require.NoError(t, err)

		assert.NotEqual(t, token1, token2)
	})
}

func TestTokenGenerator_ValidateAccessToken(t *testing.T) {
	secret := "b8a3c2267dc85f855dea9b46b452bf20"
	accessExpiry := 1 * time.Hour
	tg := NewTokenGenerator(secret, accessExpiry)

	t.Run("empty string token", func(t *testing.T) {
		_, err := tg.ValidateAccessToken("")
		assert.Error(t, err)
	})

	t.Run("invalid token format", func(t *testing.T) {
		_, err := tg.ValidateAccessToken("invalid-token")
		assert.Error(t, err)
	})

	t.Run("malformed JWT - missing parts", func(t *testing.T) {
		_, err := tg.ValidateAccessToken("header.payload")
		assert.Error(t, err)
	})

	t.Run("wrong signature method - non-HMAC", func(t *testing.T) {
		claims := jwt.MapClaims{
			"username": "admin",
			"exp":      time.Now().Add(1 * time.Hour).Unix(),
			"iat":      time.Now().Unix(),
			"type":     "access",
		}
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tg.ValidateAccessToken(tokenString)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected signing method")
	})

	t.Run("token without username claim", func(t *testing.T) {
		claims := jwt.MapClaims{
			"exp":  time.Now().Add(1 * time.Hour).Unix(),
			"iat":  time.Now().Unix(),
			"type": "access",
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = tg.ValidateAccessToken(tokenString)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "username not found")
	})

	t.Run("token without type claim", func(t *testing.T) {
		claims := jwt.MapClaims{
			"username": "admin",
			"exp":      time.Now().Add(1 * time.Hour).Unix(),
			"iat":      time.Now().Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = tg.ValidateAccessToken(tokenString)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not an access token")
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"username": "admin",
			"exp":      time.Now().Add(-1 * time.Hour).Unix(),
			"iat":      time.Now().Add(-2 * time.Hour).Unix(),
			"type":     "access",
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = tg.ValidateAccessToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := tg.GenerateAccessToken("admin")
		require.NoError(t, err)

		wrongTG := NewTokenGenerator("wrong-secret", accessExpiry)
		_, err = wrongTG.ValidateAccessToken(token)
		assert.Error(t, err)
	})
}

func TestTokenGenerator_TokenExpiry(t *testing.T) {
	secret := "b8a3c2267dc85f855dea9b46b452bf20"
	tg := NewTokenGenerator(secret, 1*time.Second)

	token, err := tg.GenerateAccessToken("admin")
	require.NoError(t, err)

	// Token should be valid immediately
	_, err = tg.ValidateAccessToken(token)
	require.NoError(t, err)

	// Wait for token to expire (wait longer than the expiry time)
	time.Sleep(1200 * time.Millisecond)

	// Token should be invalid after expiry
	_, err = tg.ValidateAccessToken(token)
	assert.Error(t, err)
}
