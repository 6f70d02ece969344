package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		m := NewTokenManager(testSecret, time.Hour)

		token, err := m.GenerateAccessToken(42, "admin")
		require.NoError(t, err)

		claims, err := m.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int32(42), claims.UserID)
		assert.Equal(t, "admin", claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("Expired", func(t *testing.T) {
		m := NewTokenManager(testSecret, time.Minute).(*tokenManager)
		issued := time.Now().Add(-time.Hour)
		m.now = func() time.Time { return issued }
		token, err := m.GenerateAccessToken(42, "user")
		require.NoError(t, err)

		m.now = time.Now
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokenManager(testSecret, time.Hour).GenerateAccessToken(42, "user")
		require.NoError(t, err)

		_, err = NewTokenManager("another-secret-another-secret-xx", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Non-access token", func(t *testing.T) {
		claims := UserClaims{
			UserID: 42,
			Type:   TokenType("refresh"),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    tokenIssuer,
				Audience:  jwt.ClaimStrings{tokenAudience},
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = NewTokenManager(testSecret, time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := NewTokenManager(testSecret, time.Hour).ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
